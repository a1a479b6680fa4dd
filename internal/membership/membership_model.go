package membership

// Status는 채널별 봇 초대 여부 확인 상태입니다.
// unchecked -> checking -> {member | not_member | error}
type Status string

const (
	StatusUnchecked Status = "unchecked"
	StatusChecking  Status = "checking"
	StatusMember    Status = "member"
	StatusNotMember Status = "not_member"
	StatusError     Status = "error"
)

// NotMemberHint는 봇이 초대되지 않은 채널에 보여줄 안내 문구입니다.
const NotMemberHint = "봇이 채널에 초대되지 않았습니다. 채널에서 '/invite @봇이름'으로 초대한 뒤 다시 확인해주세요."

// ErrorHint는 확인 자체가 실패했을 때의 안내 문구입니다. (저장은 막지 않음)
const ErrorHint = "봇 초대 여부를 확인하지 못했습니다. 잠시 후 다시 확인해주세요."

// Terminal은 확인이 끝난 상태인지 확인합니다.
func (s Status) Terminal() bool {
	switch s {
	case StatusMember, StatusNotMember, StatusError:
		return true
	}
	return false
}

// Hint는 상태별 안내 문구입니다. 안내가 필요 없으면 빈 문자열입니다.
func (s Status) Hint() string {
	switch s {
	case StatusNotMember:
		return NotMemberHint
	case StatusError:
		return ErrorHint
	}
	return ""
}

// AllowsToggle은 활성/비활성 토글을 보여줄 수 있는지 확인합니다.
// not_member 일 때만 토글 대신 "봇 미초대" 표시로 바뀝니다. error는 토글을 막지 않습니다.
func AllowsToggle(s Status) bool {
	return s != StatusNotMember
}

// Result는 'GET /api/channels/:channelId/bot-membership' 응답입니다.
type Result struct {
	OK       bool `json:"ok"`
	IsMember bool `json:"is_member"`
}

// Status는 응답을 상태 값으로 변환합니다. ok=false는 not_member가 아니라 error입니다.
func (r Result) Status() Status {
	if !r.OK {
		return StatusError
	}
	if r.IsMember {
		return StatusMember
	}
	return StatusNotMember
}

// StatusFor는 확인 결과와 에러를 함께 상태로 변환합니다.
func StatusFor(r Result, err error) Status {
	if err != nil {
		return StatusError
	}
	return r.Status()
}

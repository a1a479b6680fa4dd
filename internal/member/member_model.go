package member

import (
	"time"
)

// Member는 'members' 테이블의 스키마입니다.
type Member struct {
	ID          string    `json:"id" db:"id"`
	UserName    string    `json:"user_name" db:"user_name"`
	Email       string    `json:"email" db:"email"`
	SlackUserID *string   `json:"slack_user_id" db:"slack_user_id"` // NULL이면 Slack 계정 미연결
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName은 멘션에 쓰는 표시 이름입니다.
func (m Member) DisplayName() string {
	if m.UserName != "" {
		return m.UserName
	}
	return m.Email
}

// HasChannelIdentity는 배송 채널(Slack) 계정이 연결되어 있는지 확인합니다.
func (m Member) HasChannelIdentity() bool {
	return m.SlackUserID != nil && *m.SlackUserID != ""
}

// MemberView는 API 응답 형태입니다.
type MemberView struct {
	Member
	HasChannelIdentity bool `json:"has_channel_identity"`
}

// NewMemberView는 연결 여부를 포함한 응답 값을 만듭니다.
func NewMemberView(m Member) MemberView {
	return MemberView{Member: m, HasChannelIdentity: m.HasChannelIdentity()}
}

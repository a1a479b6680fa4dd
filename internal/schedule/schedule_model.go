package schedule

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// WeeklyOutputSchedule은 'weekly_output_schedules' 테이블의 스키마이자 API 응답 형태입니다.
type WeeklyOutputSchedule struct {
	ID               string       `json:"id" db:"id"`
	Name             string       `json:"name" db:"name"`
	ChannelID        string       `json:"channel_id" db:"channel_id"`
	ChannelName      string       `json:"channel_name" db:"channel_name"`
	MemberIDs        MemberIDs    `json:"member_ids" db:"member_ids"`
	ThreadSchedule   ScheduleTime `json:"thread_schedule" db:"thread_schedule"`
	ReminderSchedule ScheduleTime `json:"reminder_schedule" db:"reminder_schedule"`
	FinalSchedule    ScheduleTime `json:"final_schedule" db:"final_schedule"`
	ThreadMessage    *string      `json:"thread_message" db:"thread_message"`
	ReminderMessage  *string      `json:"reminder_message" db:"reminder_message"`
	FinalMessage     *string      `json:"final_message" db:"final_message"`
	IsActive         bool         `json:"is_active" db:"is_active"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at" db:"updated_at"`
}

// Preset은 저장된 세 템플릿으로 현재 프리셋을 판별합니다.
func (s *WeeklyOutputSchedule) Preset() PresetKey {
	return DetectPreset(s.ThreadMessage, s.ReminderMessage, s.FinalMessage)
}

// 기본 발송 시점 (목 17:00 스레드 → 금 16:00 리마인더 → 금 17:00 마감)
var (
	DefaultThreadSchedule   = MustScheduleTime(Thu, 17, 0)
	DefaultReminderSchedule = MustScheduleTime(Fri, 16, 0)
	DefaultFinalSchedule    = MustScheduleTime(Fri, 17, 0)
)

// ScheduleInput은 생성 요청(초안)입니다. name과 channel_id 외에는 모두 생략 가능합니다.
type ScheduleInput struct {
	Name             string       `json:"name"`
	ChannelID        string       `json:"channel_id"`
	ChannelName      string       `json:"channel_name"`
	MemberIDs        []string     `json:"member_ids"`
	ThreadSchedule   ScheduleTime `json:"thread_schedule"`
	ReminderSchedule ScheduleTime `json:"reminder_schedule"`
	FinalSchedule    ScheduleTime `json:"final_schedule"`
	ThreadMessage    *string      `json:"thread_message"`
	ReminderMessage  *string      `json:"reminder_message"`
	FinalMessage     *string      `json:"final_message"`
	IsActive         *bool        `json:"is_active,omitempty"`
}

// FromSchedule은 저장된 스케줄을 편집용 초안으로 복사합니다.
func FromSchedule(s *WeeklyOutputSchedule) ScheduleInput {
	active := s.IsActive
	return ScheduleInput{
		Name:             s.Name,
		ChannelID:        s.ChannelID,
		ChannelName:      s.ChannelName,
		MemberIDs:        append([]string(nil), s.MemberIDs...),
		ThreadSchedule:   s.ThreadSchedule,
		ReminderSchedule: s.ReminderSchedule,
		FinalSchedule:    s.FinalSchedule,
		ThreadMessage:    cloneText(s.ThreadMessage),
		ReminderMessage:  cloneText(s.ReminderMessage),
		FinalMessage:     cloneText(s.FinalMessage),
		IsActive:         &active,
	}
}

// ToSchedule은 기본값을 채운 저장용 모델을 만듭니다. (ID/타임스탬프는 저장소가 채움)
func (in ScheduleInput) ToSchedule() *WeeklyOutputSchedule {
	s := &WeeklyOutputSchedule{
		Name:             in.Name,
		ChannelID:        in.ChannelID,
		ChannelName:      in.ChannelName,
		MemberIDs:        NewMemberIDs(in.MemberIDs...),
		ThreadSchedule:   orDefault(in.ThreadSchedule, DefaultThreadSchedule),
		ReminderSchedule: orDefault(in.ReminderSchedule, DefaultReminderSchedule),
		FinalSchedule:    orDefault(in.FinalSchedule, DefaultFinalSchedule),
		ThreadMessage:    cloneText(in.ThreadMessage),
		ReminderMessage:  cloneText(in.ReminderMessage),
		FinalMessage:     cloneText(in.FinalMessage),
		IsActive:         true,
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	return s
}

func orDefault(t, def ScheduleTime) ScheduleTime {
	if t.IsZero() {
		return def
	}
	return t
}

func cloneText(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// MemberIDs는 중복 없는 멤버 참조 집합입니다. 정렬된 상태로 유지합니다.
type MemberIDs []string

// NewMemberIDs는 빈 값과 중복을 제거하고 정렬합니다.
func NewMemberIDs(ids ...string) MemberIDs {
	seen := make(map[string]bool, len(ids))
	out := make(MemberIDs, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Contains는 멤버가 포함되어 있는지 확인합니다.
func (m MemberIDs) Contains(id string) bool {
	for _, v := range m {
		if v == id {
			return true
		}
	}
	return false
}

func (m MemberIDs) Value() (driver.Value, error) {
	if m == nil {
		m = MemberIDs{}
	}
	b, err := json.Marshal([]string(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *MemberIDs) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*m = MemberIDs{}
		return nil
	default:
		return fmt.Errorf("MemberIDs: 지원하지 않는 컬럼 타입 %T", src)
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return err
	}
	*m = NewMemberIDs(ids...)
	return nil
}

// OptionalText는 부분 수정에서 "필드 없음"과 "명시적 null"을 구분합니다.
type OptionalText struct {
	Set   bool
	Value *string
}

// SetText는 값(또는 nil)을 지정한 OptionalText를 만듭니다.
func SetText(v *string) OptionalText {
	return OptionalText{Set: true, Value: cloneText(v)}
}

func (o *OptionalText) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (o OptionalText) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// SchedulePatch는 부분 수정 요청입니다. nil(또는 Set=false) 필드는 변경하지 않습니다.
type SchedulePatch struct {
	Name             *string       `json:"name,omitempty"`
	ChannelID        *string       `json:"channel_id,omitempty"`
	ChannelName      *string       `json:"channel_name,omitempty"`
	MemberIDs        *[]string     `json:"member_ids,omitempty"`
	ThreadSchedule   *ScheduleTime `json:"thread_schedule,omitempty"`
	ReminderSchedule *ScheduleTime `json:"reminder_schedule,omitempty"`
	FinalSchedule    *ScheduleTime `json:"final_schedule,omitempty"`
	ThreadMessage    OptionalText  `json:"thread_message"`
	ReminderMessage  OptionalText  `json:"reminder_message"`
	FinalMessage     OptionalText  `json:"final_message"`
	IsActive         *bool         `json:"is_active,omitempty"`
}

// MarshalJSON은 지정된 필드만 전송합니다. (메시지 필드는 Set일 때만 포함)
func (p SchedulePatch) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.ChannelID != nil {
		out["channel_id"] = *p.ChannelID
	}
	if p.ChannelName != nil {
		out["channel_name"] = *p.ChannelName
	}
	if p.MemberIDs != nil {
		out["member_ids"] = *p.MemberIDs
	}
	if p.ThreadSchedule != nil {
		out["thread_schedule"] = *p.ThreadSchedule
	}
	if p.ReminderSchedule != nil {
		out["reminder_schedule"] = *p.ReminderSchedule
	}
	if p.FinalSchedule != nil {
		out["final_schedule"] = *p.FinalSchedule
	}
	if p.ThreadMessage.Set {
		out["thread_message"] = p.ThreadMessage
	}
	if p.ReminderMessage.Set {
		out["reminder_message"] = p.ReminderMessage
	}
	if p.FinalMessage.Set {
		out["final_message"] = p.FinalMessage
	}
	if p.IsActive != nil {
		out["is_active"] = *p.IsActive
	}
	return json.Marshal(out)
}

// UnmarshalJSON은 메시지 필드의 "키 없음"과 "null"을 키 존재 여부로 구분합니다.
func (p *SchedulePatch) UnmarshalJSON(b []byte) error {
	type plain SchedulePatch
	var decoded plain
	if err := json.Unmarshal(b, &decoded); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = SchedulePatch(decoded)

	texts := map[string]*OptionalText{
		"thread_message":   &p.ThreadMessage,
		"reminder_message": &p.ReminderMessage,
		"final_message":    &p.FinalMessage,
	}
	for key, dst := range texts {
		v, ok := raw[key]
		if !ok {
			*dst = OptionalText{}
			continue
		}
		if err := dst.UnmarshalJSON(v); err != nil {
			return err
		}
	}
	return nil
}

// IsEmpty는 변경할 필드가 하나도 없는지 확인합니다.
func (p SchedulePatch) IsEmpty() bool {
	return p.Name == nil && p.ChannelID == nil && p.ChannelName == nil && p.MemberIDs == nil &&
		p.ThreadSchedule == nil && p.ReminderSchedule == nil && p.FinalSchedule == nil &&
		!p.ThreadMessage.Set && !p.ReminderMessage.Set && !p.FinalMessage.Set && p.IsActive == nil
}

// Apply는 패치를 스케줄에 적용합니다. (메모리 저장소, 클라이언트 목록 갱신용)
func (p SchedulePatch) Apply(s *WeeklyOutputSchedule) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.ChannelID != nil {
		s.ChannelID = *p.ChannelID
	}
	if p.ChannelName != nil {
		s.ChannelName = *p.ChannelName
	}
	if p.MemberIDs != nil {
		s.MemberIDs = NewMemberIDs(*p.MemberIDs...)
	}
	if p.ThreadSchedule != nil {
		s.ThreadSchedule = *p.ThreadSchedule
	}
	if p.ReminderSchedule != nil {
		s.ReminderSchedule = *p.ReminderSchedule
	}
	if p.FinalSchedule != nil {
		s.FinalSchedule = *p.FinalSchedule
	}
	if p.ThreadMessage.Set {
		s.ThreadMessage = cloneText(p.ThreadMessage.Value)
	}
	if p.ReminderMessage.Set {
		s.ReminderMessage = cloneText(p.ReminderMessage.Value)
	}
	if p.FinalMessage.Set {
		s.FinalMessage = cloneText(p.FinalMessage.Value)
	}
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
}

package schedule

import (
	"strings"
)

// Validate는 저장 전 로컬 검증입니다.
// name(공백만 있는 경우 포함)과 channel_id만 필수이며, 나머지 필드는 검사하지 않습니다.
// 발송 순서(thread → reminder → final)도 강제하지 않습니다.
func Validate(in ScheduleInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &FieldError{Field: "name"}
	}
	if in.ChannelID == "" {
		return &FieldError{Field: "channel_id"}
	}
	return nil
}

// validateTimes는 지정된 발송 시점의 범위를 확인합니다. (비어 있으면 기본값이 적용됨)
func validateTimes(times ...ScheduleTime) error {
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// validatePatch는 부분 수정의 필수 필드가 비워지지 않았는지 확인합니다.
func validatePatch(p SchedulePatch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &FieldError{Field: "name"}
	}
	if p.ChannelID != nil && *p.ChannelID == "" {
		return &FieldError{Field: "channel_id"}
	}
	for _, t := range []*ScheduleTime{p.ThreadSchedule, p.ReminderSchedule, p.FinalSchedule} {
		if t == nil {
			continue
		}
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

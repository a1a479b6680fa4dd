package schedule

import (
	"fmt"
)

// PresetKey는 메시지 프리셋 선택값입니다.
type PresetKey string

const (
	PresetNone         PresetKey = "none"
	PresetCustom       PresetKey = "custom"
	PresetWeeklyOutput PresetKey = "weekly_output"
)

// Preset은 세 단계 템플릿의 고정 묶음입니다.
type Preset struct {
	Key      PresetKey `json:"key"`
	Label    string    `json:"label"`
	Thread   string    `json:"thread_message"`
	Reminder string    `json:"reminder_message"`
	Final    string    `json:"final_message"`
}

var weeklyOutputPreset = Preset{
	Key:   PresetWeeklyOutput,
	Label: "주간 산출물 (Weekly Output)",
	Thread: "*[{week_label}] Weekly Output*\n" +
		"이번 주에 진행한 작업과 산출물을 이 스레드에 댓글로 남겨주세요. :memo:\n" +
		"Deadline: *{deadline}*\n" +
		"{mentions}",
	Reminder: ":alarm_clock: *리마인더* 아직 작성하지 않으셨다면 <{thread_link}|Weekly Output 스레드>에 남겨주세요.\n" +
		"Deadline: *{deadline}*\n" +
		"{mentions}",
	Final: ":white_check_mark: *[{week_label}] Weekly Output* 마감되었습니다.\n" +
		"작성해주신 모든 분들 감사합니다! <{thread_link}|스레드 보기>",
}

// namedPresets는 등록 순서대로 노출됩니다.
var namedPresets = []Preset{weeklyOutputPreset}

// Presets는 선택 가능한 이름 있는 프리셋 목록을 반환합니다.
func Presets() []Preset {
	return append([]Preset(nil), namedPresets...)
}

// LookupPreset은 이름 있는 프리셋을 찾습니다.
func LookupPreset(key PresetKey) (Preset, bool) {
	for _, p := range namedPresets {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetState는 편집기의 프리셋 선택 상태입니다.
type PresetState struct {
	Key        PresetKey `json:"key"`
	ShowCustom bool      `json:"show_custom"` // 직접 입력 영역 표시 여부
}

// ApplyPreset은 선택한 프리셋을 초안에 적용합니다.
//   - none: 세 템플릿을 모두 비우고(null) 직접 입력 영역을 접습니다. (파괴적)
//   - custom: 기존 텍스트는 그대로 두고 직접 입력 영역만 펼칩니다.
//   - 이름 있는 프리셋: 세 템플릿을 한 번에 덮어씁니다.
//
// 알 수 없는 키면 초안을 전혀 건드리지 않고 ErrUnknownPreset을 반환합니다.
func ApplyPreset(in *ScheduleInput, key PresetKey) (PresetState, error) {
	switch key {
	case PresetNone:
		in.ThreadMessage, in.ReminderMessage, in.FinalMessage = nil, nil, nil
		return PresetState{Key: PresetNone, ShowCustom: false}, nil
	case PresetCustom:
		return PresetState{Key: PresetCustom, ShowCustom: true}, nil
	}

	p, ok := LookupPreset(key)
	if !ok {
		return PresetState{}, fmt.Errorf("%w: %s", ErrUnknownPreset, key)
	}
	thread, reminder, final := p.Thread, p.Reminder, p.Final
	in.ThreadMessage, in.ReminderMessage, in.FinalMessage = &thread, &reminder, &final
	return PresetState{Key: key, ShowCustom: false}, nil
}

// DetectPreset은 저장된 세 템플릿이 어떤 프리셋인지 판별합니다.
// 세 값이 모두 프리셋 텍스트와 정확히 같으면 그 프리셋, null이 아닌 값이 하나라도 있으면 custom,
// 모두 null이면 none입니다. 빈 문자열도 "빈 메시지"로 발송되므로 custom입니다.
func DetectPreset(thread, reminder, final *string) PresetKey {
	for _, p := range namedPresets {
		if textEquals(thread, p.Thread) && textEquals(reminder, p.Reminder) && textEquals(final, p.Final) {
			return p.Key
		}
	}
	if thread != nil || reminder != nil || final != nil {
		return PresetCustom
	}
	return PresetNone
}

func textEquals(p *string, want string) bool {
	return p != nil && *p == want
}

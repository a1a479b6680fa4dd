package message

import (
	"strings"
)

// Phase는 주간 사이클의 발송 단계입니다.
type Phase string

const (
	PhaseThread   Phase = "thread"
	PhaseReminder Phase = "reminder"
	PhaseFinal    Phase = "final"
)

// Phases는 발송 순서대로 정렬된 단계 목록입니다.
var Phases = []Phase{PhaseThread, PhaseReminder, PhaseFinal}

// Valid는 알려진 단계인지 확인합니다.
func (p Phase) Valid() bool {
	switch p {
	case PhaseThread, PhaseReminder, PhaseFinal:
		return true
	}
	return false
}

// 인식하는 플레이스홀더 (배송 백엔드와의 와이어 계약)
const (
	TokenWeekLabel  = "{week_label}"
	TokenDeadline   = "{deadline}"
	TokenMentions   = "{mentions}"
	TokenThreadLink = "{thread_link}"
)

// Context는 플레이스홀더에 대입할 값입니다.
type Context struct {
	WeekLabel  string `json:"week_label"`
	Deadline   string `json:"deadline"`
	Mentions   string `json:"mentions"`
	ThreadLink string `json:"thread_link"`
}

var defaultTemplates = map[Phase]string{
	PhaseThread: "[{week_label}] 주간 산출물 스레드입니다.\n" +
		"이 스레드에 이번 주 산출물을 남겨주세요. (마감: {deadline})\n" +
		"{mentions}",
	PhaseReminder: "[{week_label}] 주간 산출물 마감이 다가오고 있습니다. (마감: {deadline})\n" +
		"<{thread_link}|스레드 바로가기>\n" +
		"{mentions}",
	PhaseFinal: "[{week_label}] 주간 산출물이 마감되었습니다. 감사합니다!\n" +
		"<{thread_link}|스레드 바로가기>",
}

// DefaultTemplate은 템플릿이 비어 있을(null) 때 사용하는 시스템 기본 문구입니다.
func DefaultTemplate(phase Phase) string {
	return defaultTemplates[phase]
}

// Resolve는 템플릿(nil이면 단계 기본값)의 플레이스홀더를 치환합니다.
// 단순 문자열 치환이며, 인식하지 못하는 {토큰}은 그대로 남깁니다.
func Resolve(template *string, phase Phase, ctx Context) string {
	text := DefaultTemplate(phase)
	if template != nil {
		text = *template
	}
	r := strings.NewReplacer(
		TokenWeekLabel, ctx.WeekLabel,
		TokenDeadline, ctx.Deadline,
		TokenMentions, ctx.Mentions,
		TokenThreadLink, ctx.ThreadLink,
	)
	return r.Replace(text)
}

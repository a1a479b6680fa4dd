package schedule

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"weeklypulse/internal/member"
	"weeklypulse/internal/message"
)

// 미리보기 전용 값들 (실제 발송 시에는 배송 백엔드가 채움)
const (
	sampleThreadLinkFormat = "https://slack.com/archives/%s/p1700000000000100"
	removedMemberMention   = "@(알 수 없는 멤버)"
)

var placeholderMentions = []string{"@member1", "@member2"}

// DeriveSampleContext는 미리보기에 사용할 치환 값을 계산합니다.
//   - week_label: now 이전(당일 포함) 가장 최근의 스레드 요일부터 7일 구간
//   - deadline: 마감(final) 시점 + " KST"
//   - mentions: 선택된 멤버 표시 이름(@ 접두), 없으면 @member1 @member2
//   - thread_link: 샘플 퍼머링크
func DeriveSampleContext(s *WeeklyOutputSchedule, members []member.Member, now time.Time) message.Context {
	return message.Context{
		WeekLabel:  weekLabel(s.ThreadSchedule.DayOfWeek, now),
		Deadline:   s.FinalSchedule.Format() + " KST",
		Mentions:   sampleMentions(s.MemberIDs, members),
		ThreadLink: fmt.Sprintf(sampleThreadLinkFormat, s.ChannelID),
	}
}

func weekLabel(threadDay Weekday, now time.Time) string {
	local := now.In(KST)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, KST)
	back := (int(local.Weekday()) - int(threadDay.TimeWeekday()) + 7) % 7
	start := day.AddDate(0, 0, -back)
	end := start.AddDate(0, 0, 6)
	return start.Format("2006-01-02") + " ~ " + end.Format("01-02")
}

func sampleMentions(ids MemberIDs, members []member.Member) string {
	if len(ids) == 0 {
		return strings.Join(placeholderMentions, " ")
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.DisplayName()
	}
	mentions := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			mentions = append(mentions, removedMemberMention)
			continue
		}
		mentions = append(mentions, "@"+name)
	}
	return strings.Join(mentions, " ")
}

// PhasePreview는 한 단계의 미리보기 결과입니다.
type PhasePreview struct {
	Phase    message.Phase `json:"phase"`
	Schedule string        `json:"schedule"`
	Text     string        `json:"text"`
	HTML     template.HTML `json:"html"`
	Default  bool          `json:"is_default"`
}

// Preview는 세 단계 전체의 미리보기를 만듭니다.
type Preview struct {
	Context message.Context `json:"context"`
	Preset  PresetKey       `json:"preset"`
	Phases  []PhasePreview  `json:"phases"`
}

// BuildPreview는 샘플 컨텍스트로 세 단계를 치환하고 표시용 HTML까지 만듭니다.
func BuildPreview(s *WeeklyOutputSchedule, members []member.Member, now time.Time) *Preview {
	ctx := DeriveSampleContext(s, members, now)
	p := &Preview{Context: ctx, Preset: s.Preset()}
	for _, phase := range message.Phases {
		tmpl, at := s.phaseTemplate(phase)
		text := message.Resolve(tmpl, phase, ctx)
		p.Phases = append(p.Phases, PhasePreview{
			Phase:    phase,
			Schedule: at.Format(),
			Text:     text,
			HTML:     message.RenderHTML(text),
			Default:  tmpl == nil,
		})
	}
	return p
}

func (s *WeeklyOutputSchedule) phaseTemplate(phase message.Phase) (*string, ScheduleTime) {
	switch phase {
	case message.PhaseReminder:
		return s.ReminderMessage, s.ReminderSchedule
	case message.PhaseFinal:
		return s.FinalMessage, s.FinalSchedule
	default:
		return s.ThreadMessage, s.ThreadSchedule
	}
}

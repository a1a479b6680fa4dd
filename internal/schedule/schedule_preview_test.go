package schedule

import (
	"strings"
	"testing"
	"time"

	"weeklypulse/internal/member"
	"weeklypulse/internal/message"
)

func TestDeriveSampleContextWeekLabel(t *testing.T) {
	ws := ScheduleInput{Name: "n", ChannelID: "C42"}.ToSchedule()

	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		// 2026-02-05 is a Thursday
		{"on thread day", time.Date(2026, 2, 5, 9, 0, 0, 0, KST), "2026-02-05 ~ 02-11"},
		{"day before", time.Date(2026, 2, 4, 10, 0, 0, 0, KST), "2026-01-29 ~ 02-04"},
		{"utc late evening is next day in kst", time.Date(2026, 2, 4, 20, 0, 0, 0, time.UTC), "2026-02-05 ~ 02-11"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := DeriveSampleContext(ws, nil, tc.now)
			if ctx.WeekLabel != tc.want {
				t.Fatalf("week label = %q, want %q", ctx.WeekLabel, tc.want)
			}
		})
	}
}

func TestDeriveSampleContextFields(t *testing.T) {
	ws := ScheduleInput{Name: "n", ChannelID: "C42", MemberIDs: []string{"m1", "gone", "m2"}}.ToSchedule()
	members := []member.Member{
		{ID: "m1", UserName: "alice"},
		{ID: "m2", Email: "bob@example.com"},
	}
	ctx := DeriveSampleContext(ws, members, time.Date(2026, 2, 5, 9, 0, 0, 0, KST))

	if ctx.Deadline != "Fri 17:00 KST" {
		t.Fatalf("deadline = %q", ctx.Deadline)
	}
	// ids are sorted: gone, m1, m2
	if ctx.Mentions != "@(알 수 없는 멤버) @alice @bob@example.com" {
		t.Fatalf("mentions = %q", ctx.Mentions)
	}
	if !strings.Contains(ctx.ThreadLink, "/archives/C42/") {
		t.Fatalf("thread link = %q", ctx.ThreadLink)
	}

	empty := DeriveSampleContext(ScheduleInput{ChannelID: "C"}.ToSchedule(), nil, time.Now())
	if empty.Mentions != "@member1 @member2" {
		t.Fatalf("placeholder mentions = %q", empty.Mentions)
	}
}

func TestBuildPreview(t *testing.T) {
	custom := "hi {mentions} by {deadline} {unknown}"
	ws := ScheduleInput{Name: "n", ChannelID: "C1", ReminderMessage: &custom}.ToSchedule()

	p := BuildPreview(ws, nil, time.Date(2026, 2, 5, 9, 0, 0, 0, KST))
	if len(p.Phases) != 3 {
		t.Fatalf("phases = %d", len(p.Phases))
	}
	if p.Preset != PresetCustom {
		t.Fatalf("preset = %s", p.Preset)
	}

	thread, reminder := p.Phases[0], p.Phases[1]
	if thread.Phase != message.PhaseThread || !thread.Default {
		t.Fatalf("thread phase = %+v", thread)
	}
	if thread.Schedule != "Thu 17:00" {
		t.Fatalf("thread schedule = %q", thread.Schedule)
	}
	if reminder.Default {
		t.Fatal("reminder uses custom template")
	}
	if reminder.Text != "hi @member1 @member2 by Fri 17:00 KST {unknown}" {
		t.Fatalf("reminder text = %q", reminder.Text)
	}
	if strings.Contains(string(thread.HTML), "\n") {
		t.Fatal("html must not contain raw newlines")
	}
}

package web

import (
	"bytes"
	"testing"
)

func TestEngineRendersWithLayout(t *testing.T) {
	engine := NewEngine()
	if err := engine.Load(); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	data := map[string]interface{}{
		"Title": "WeeklyPulse | 대시보드",
		"Data": map[string]interface{}{
			"ScheduleCount": 3, "ActiveScheduleCount": 2, "ChannelCount": 10, "LinkedMemberCount": 4,
		},
	}
	if err := engine.Render(&buf, "dashboard", data, "layout"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"<title>WeeklyPulse | 대시보드</title>", "스케줄 3개 (활성 2개)", "활성 스케줄이 없습니다."} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

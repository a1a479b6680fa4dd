package message

import (
	"reflect"
	"strings"
	"testing"
)

var sampleCtx = Context{
	WeekLabel:  "2026-02-02 ~ 02-08",
	Deadline:   "Fri 17:00 KST",
	Mentions:   "@Alice @Bob",
	ThreadLink: "https://example/archives/C100/p1",
}

func strPtr(s string) *string { return &s }

func TestResolveSubstitutesAllTokens(t *testing.T) {
	tmpl := "[{week_label}] {deadline} {mentions} {thread_link} {week_label}"
	got := Resolve(strPtr(tmpl), PhaseThread, sampleCtx)
	want := "[2026-02-02 ~ 02-08] Fri 17:00 KST @Alice @Bob https://example/archives/C100/p1 2026-02-02 ~ 02-08"
	if got != want {
		t.Fatalf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolveWithoutTokensIsUnchanged(t *testing.T) {
	for _, tmpl := range []string{"", "plain text", "no {tokens here", "*bold* _it_"} {
		if got := Resolve(strPtr(tmpl), PhaseReminder, sampleCtx); got != tmpl {
			t.Errorf("Resolve(%q) = %q, want unchanged", tmpl, got)
		}
	}
}

func TestResolveLeavesUnknownTokens(t *testing.T) {
	got := Resolve(strPtr("Hello {unknown_token}"), PhaseFinal, sampleCtx)
	if got != "Hello {unknown_token}" {
		t.Fatalf("Resolve() = %q", got)
	}
}

func TestResolveNilUsesPhaseDefault(t *testing.T) {
	for _, phase := range Phases {
		got := Resolve(nil, phase, sampleCtx)
		if got == "" {
			t.Fatalf("phase %s: empty default", phase)
		}
		if strings.Contains(got, "{week_label}") || strings.Contains(got, "{deadline}") {
			t.Errorf("phase %s: default left tokens: %q", phase, got)
		}
		if !strings.Contains(got, sampleCtx.WeekLabel) {
			t.Errorf("phase %s: default missing week label: %q", phase, got)
		}
	}
}

func TestResolveDoesNotRescanSubstitutedValues(t *testing.T) {
	ctx := sampleCtx
	ctx.Mentions = "{deadline}"
	got := Resolve(strPtr("{mentions}"), PhaseThread, ctx)
	if got != "{deadline}" {
		t.Fatalf("Resolve() = %q, want literal value", got)
	}
}

func TestPhaseValid(t *testing.T) {
	if !PhaseThread.Valid() || !PhaseReminder.Valid() || !PhaseFinal.Valid() {
		t.Fatal("known phases must be valid")
	}
	if Phase("weekly").Valid() {
		t.Fatal("unknown phase reported valid")
	}
}

func TestPipelineOrder(t *testing.T) {
	want := []string{"escape", "emoji", "link", "bold", "italic", "strike", "code", "newline"}
	if got := PipelineOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("PipelineOrder() = %v, want %v", got, want)
	}
}

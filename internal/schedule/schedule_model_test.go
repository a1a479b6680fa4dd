package schedule

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestToScheduleDefaults(t *testing.T) {
	ws := ScheduleInput{Name: "Team", ChannelID: "C1", MemberIDs: []string{"m2", "m1", "m2", ""}}.ToSchedule()

	if !ws.ThreadSchedule.Equal(DefaultThreadSchedule) ||
		!ws.ReminderSchedule.Equal(DefaultReminderSchedule) ||
		!ws.FinalSchedule.Equal(DefaultFinalSchedule) {
		t.Fatalf("defaults not applied: %+v", ws)
	}
	if !ws.IsActive {
		t.Fatal("new schedules are active by default")
	}
	if !reflect.DeepEqual([]string(ws.MemberIDs), []string{"m1", "m2"}) {
		t.Fatalf("member ids = %v", ws.MemberIDs)
	}
	if ws.ThreadMessage != nil {
		t.Fatal("unset template stays nil")
	}
}

func TestToScheduleKeepsExplicitValues(t *testing.T) {
	inactive := false
	at := MustScheduleTime(Mon, 9, 30)
	ws := ScheduleInput{Name: "n", ChannelID: "C", ThreadSchedule: at, IsActive: &inactive}.ToSchedule()
	if !ws.ThreadSchedule.Equal(at) || ws.IsActive {
		t.Fatalf("explicit values lost: %+v", ws)
	}
}

func TestSchedulePatchUnmarshalTriState(t *testing.T) {
	var p SchedulePatch
	body := `{"is_active":false,"thread_message":null,"final_message":"bye"}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatal(err)
	}
	if p.IsActive == nil || *p.IsActive {
		t.Fatal("is_active should be set to false")
	}
	if !p.ThreadMessage.Set || p.ThreadMessage.Value != nil {
		t.Fatalf("explicit null must be Set with nil value: %+v", p.ThreadMessage)
	}
	if p.ReminderMessage.Set {
		t.Fatal("absent field must not be Set")
	}
	if !p.FinalMessage.Set || *p.FinalMessage.Value != "bye" {
		t.Fatalf("final = %+v", p.FinalMessage)
	}
	if p.Name != nil || p.MemberIDs != nil {
		t.Fatal("untouched fields must stay nil")
	}
}

func TestSchedulePatchMarshalOnlySetFields(t *testing.T) {
	active := true
	b, err := json.Marshal(SchedulePatch{IsActive: &active})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"is_active":true}` {
		t.Fatalf("toggle body = %s", b)
	}

	b, err = json.Marshal(SchedulePatch{ReminderMessage: SetText(nil)})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"reminder_message":null}` {
		t.Fatalf("clear body = %s", b)
	}
}

func TestSchedulePatchApply(t *testing.T) {
	ws := ScheduleInput{Name: "a", ChannelID: "C1", ThreadMessage: strp("t")}.ToSchedule()
	name := "b"
	SchedulePatch{Name: &name, ThreadMessage: SetText(nil)}.Apply(ws)

	if ws.Name != "b" || ws.ThreadMessage != nil || ws.ChannelID != "C1" {
		t.Fatalf("apply = %+v", ws)
	}
	if (SchedulePatch{}).IsEmpty() == false {
		t.Fatal("zero patch must be empty")
	}
}

func TestMemberIDsScan(t *testing.T) {
	var m MemberIDs
	if err := m.Scan([]byte(`["b","a","b"]`)); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual([]string(m), []string{"a", "b"}) {
		t.Fatalf("scan = %v", m)
	}
	if err := m.Scan(nil); err != nil || len(m) != 0 {
		t.Fatalf("nil scan = %v, %v", m, err)
	}
	v, _ := MemberIDs(nil).Value()
	if v != "[]" {
		t.Fatalf("nil value = %v", v)
	}
}

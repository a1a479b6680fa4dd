package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"weeklypulse/internal/membership"
	"weeklypulse/internal/schedule"
)

type recorded struct {
	method string
	path   string
	query  string
	body   string
}

func newTestServer(t *testing.T, status int, payload string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec.method, rec.path, rec.query, rec.body = r.Method, r.URL.Path, r.URL.RawQuery, string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, payload)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second), rec
}

func TestClientList(t *testing.T) {
	c, rec := newTestServer(t, 200, `{"code":200,"status":"success","message":"ok","data":[
		{"id":"s1","name":"Backend","channel_id":"C1","member_ids":["m1"],
		 "thread_schedule":{"day_of_week":"thu","hour":17,"minute":0},
		 "reminder_schedule":{"day_of_week":"fri","hour":16,"minute":0},
		 "final_schedule":{"day_of_week":"fri","hour":17,"minute":0},
		 "thread_message":null,"reminder_message":null,"final_message":null,"is_active":true}]}`)

	list, err := c.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodGet || rec.path != "/api/schedules" {
		t.Fatalf("request = %+v", rec)
	}
	if len(list) != 1 || list[0].ID != "s1" || !list[0].ThreadSchedule.Equal(schedule.DefaultThreadSchedule) {
		t.Fatalf("list = %+v", list)
	}
}

func TestClientUpdateSendsOnlyPatch(t *testing.T) {
	c, rec := newTestServer(t, 200, `{"code":200,"status":"success","message":"ok","data":{"id":"s1","is_active":false}}`)
	inactive := false

	ws, err := c.Update(context.Background(), "s1", schedule.SchedulePatch{IsActive: &inactive})
	if err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodPatch || rec.path != "/api/schedules/s1" {
		t.Fatalf("request = %+v", rec)
	}
	var sent map[string]interface{}
	if err := json.Unmarshal([]byte(rec.body), &sent); err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 || sent["is_active"] != false {
		t.Fatalf("body = %s", rec.body)
	}
	if ws.IsActive {
		t.Fatal("decoded record should be inactive")
	}
}

func TestClientServerMessagePassThrough(t *testing.T) {
	c, _ := newTestServer(t, 404, `{"code":404,"status":"error","message":"삭제할 스케줄(ID: x)을 찾을 수 없습니다."}`)

	err := c.Delete(context.Background(), "x")
	var re *schedule.RepositoryError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v", err)
	}
	if re.Message != "삭제할 스케줄(ID: x)을 찾을 수 없습니다." {
		t.Fatalf("message = %q", re.Message)
	}
	if !errors.Is(err, schedule.ErrScheduleNotFound) {
		t.Fatal("404 should unwrap to ErrScheduleNotFound")
	}
}

func TestClientGenericMessageFallback(t *testing.T) {
	c, _ := newTestServer(t, 502, `<html>bad gateway</html>`)

	_, err := c.List(context.Background())
	var re *schedule.RepositoryError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v", err)
	}
	if re.Message != schedule.GenericRepositoryMessage {
		t.Fatalf("message = %q", re.Message)
	}
}

func TestClientFieldError(t *testing.T) {
	c, _ := newTestServer(t, 422, `{"code":422,"status":"error","message":"필수 입력값이 비어 있습니다: name","errors":{"field":"name"}}`)

	_, err := c.Create(context.Background(), schedule.ScheduleInput{ChannelID: "C1"})
	var fe *schedule.FieldError
	if !errors.As(err, &fe) || fe.Field != "name" {
		t.Fatalf("err = %v", err)
	}
}

func TestClientTransportError(t *testing.T) {
	c := New("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := c.List(context.Background())
	var re *schedule.RepositoryError
	if !errors.As(err, &re) || re.Message != schedule.GenericRepositoryMessage {
		t.Fatalf("err = %v", err)
	}

	if _, err := c.CheckMembership(context.Background(), "C1"); err == nil {
		t.Fatal("transport failure should be an error")
	}
}

func TestClientCheckMembership(t *testing.T) {
	c, rec := newTestServer(t, 200, `{"code":200,"status":"success","message":"ok","data":{"ok":true,"is_member":false}}`)

	res, err := c.CheckMembership(context.Background(), "C42")
	if err != nil {
		t.Fatal(err)
	}
	if rec.path != "/api/channels/C42/bot-membership" {
		t.Fatalf("path = %s", rec.path)
	}
	if membership.StatusFor(res, err) != membership.StatusNotMember {
		t.Fatalf("result = %+v", res)
	}
}

func TestClientSearchChannelsEscapesQuery(t *testing.T) {
	c, rec := newTestServer(t, 200, `{"code":200,"status":"success","message":"ok","data":[{"id":"C1","channel_name":"dev ops"}]}`)

	got, err := c.SearchChannels(context.Background(), "dev ops&x")
	if err != nil {
		t.Fatal(err)
	}
	if rec.query != "q=dev+ops%26x" {
		t.Fatalf("query = %s", rec.query)
	}
	if len(got) != 1 || got[0].ChannelName != "dev ops" {
		t.Fatalf("got %+v", got)
	}
}

func TestClientCanceledContext(t *testing.T) {
	c, rec := newTestServer(t, 200, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.List(ctx); err == nil {
		t.Fatal("expected error")
	}
	if rec.method != "" {
		t.Fatal("no request should be sent")
	}
}

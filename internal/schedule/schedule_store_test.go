package schedule

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "mysql")), mock
}

var scheduleRowColumns = []string{
	"id", "name", "channel_id", "channel_name", "member_ids",
	"thread_schedule", "reminder_schedule", "final_schedule",
	"thread_message", "reminder_message", "final_message",
	"is_active", "created_at", "updated_at",
}

func TestStoreGetScheduleByID(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	rows := sqlmock.NewRows(scheduleRowColumns).AddRow(
		"s1", "Backend", "C1", "backend", `["m2","m1"]`,
		`{"day_of_week":"thu","hour":17,"minute":0}`,
		`{"day_of_week":"fri","hour":16,"minute":0}`,
		`{"day_of_week":"fri","hour":17,"minute":0}`,
		nil, "custom", nil,
		true, now, now,
	)
	mock.ExpectQuery(`(?s)SELECT.+FROM weekly_output_schedules\s+WHERE id = \?`).
		WithArgs("s1").
		WillReturnRows(rows)

	ws, err := store.GetScheduleByID(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if !ws.ThreadSchedule.Equal(DefaultThreadSchedule) || !ws.FinalSchedule.Equal(DefaultFinalSchedule) {
		t.Fatalf("times = %+v", ws)
	}
	if ws.ThreadMessage != nil || ws.ReminderMessage == nil || *ws.ReminderMessage != "custom" {
		t.Fatal("nullable templates not scanned")
	}
	if ws.MemberIDs[0] != "m1" {
		t.Fatalf("member ids = %v", ws.MemberIDs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestStoreGetScheduleByIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`(?s)SELECT.+FROM weekly_output_schedules`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(scheduleRowColumns))

	_, err := store.GetScheduleByID(context.Background(), "nope")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v", err)
	}
}

func TestStoreCreateSchedule(t *testing.T) {
	store, mock := newMockStore(t)
	ws := ScheduleInput{Name: "n", ChannelID: "C1"}.ToSchedule()
	ws.ID = "s1"

	mock.ExpectExec(`INSERT INTO weekly_output_schedules`).
		WithArgs(
			"s1", "n", "C1", "", "[]",
			`{"day_of_week":"thu","hour":17,"minute":0}`,
			`{"day_of_week":"fri","hour":16,"minute":0}`,
			`{"day_of_week":"fri","hour":17,"minute":0}`,
			nil, nil, nil, true,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.CreateSchedule(context.Background(), ws); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestStoreUpdateScheduleOnlyPatchedColumns(t *testing.T) {
	store, mock := newMockStore(t)
	active := false

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE weekly_output_schedules SET final_message = ?, is_active = ?, updated_at = NOW() WHERE id = ?",
	)).
		WithArgs(nil, false, "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	patch := SchedulePatch{IsActive: &active, FinalMessage: SetText(nil)}
	if err := store.UpdateSchedule(context.Background(), "s1", patch); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestStoreUpdateScheduleNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	name := "x"
	mock.ExpectExec(`UPDATE weekly_output_schedules SET name = \?`).
		WithArgs("x", "nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateSchedule(context.Background(), "nope", SchedulePatch{Name: &name})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v", err)
	}
}

func TestStoreDeleteSchedule(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM weekly_output_schedules WHERE id = ?")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM weekly_output_schedules WHERE id = ?")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.DeleteSchedule(context.Background(), "s1"); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteSchedule(context.Background(), "s1"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestStoreCountSchedules(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT\s+COUNT\(\*\) AS total`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "active"}).AddRow(5, 3))

	total, active, err := store.CountSchedules(context.Background())
	if err != nil || total != 5 || active != 3 {
		t.Fatalf("counts = %d/%d, %v", total, active, err)
	}
}

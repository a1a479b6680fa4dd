package schedule

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

const scheduleColumns = `
			id, name, channel_id, channel_name, member_ids,
			thread_schedule, reminder_schedule, final_schedule,
			thread_message, reminder_message, final_message,
			is_active, created_at, updated_at`

// Store는 'schedule' 기능의 DB 로직을 관리합니다.
type Store struct {
	db *sqlx.DB
}

// NewStore는 새 Store를 생성합니다.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// GetAllSchedules는 전체 스케줄 목록을 반환합니다. (비활성 포함)
func (s *Store) GetAllSchedules(ctx context.Context) ([]WeeklyOutputSchedule, error) {
	var schedules []WeeklyOutputSchedule
	query := "SELECT" + scheduleColumns + `
		FROM weekly_output_schedules
		ORDER BY created_at DESC`
	err := s.db.SelectContext(ctx, &schedules, query)
	if err != nil {
		log.Errorf("GetAllSchedules DB 에러: %v", err)
		return nil, err
	}
	return schedules, nil
}

// GetActiveSchedules는 발송 대상(is_active)인 스케줄만 반환합니다.
func (s *Store) GetActiveSchedules(ctx context.Context) ([]WeeklyOutputSchedule, error) {
	var schedules []WeeklyOutputSchedule
	query := "SELECT" + scheduleColumns + `
		FROM weekly_output_schedules
		WHERE is_active = TRUE
		ORDER BY created_at DESC`
	err := s.db.SelectContext(ctx, &schedules, query)
	if err != nil {
		log.Errorf("GetActiveSchedules DB 에러: %v", err)
		return nil, err
	}
	return schedules, nil
}

// GetScheduleByID는 ID로 스케줄 1개를 조회합니다. (ErrNoRows 그대로 반환)
func (s *Store) GetScheduleByID(ctx context.Context, id string) (*WeeklyOutputSchedule, error) {
	var ws WeeklyOutputSchedule
	query := "SELECT" + scheduleColumns + `
		FROM weekly_output_schedules
		WHERE id = ?`
	err := s.db.GetContext(ctx, &ws, query, id)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Errorf("GetScheduleByID DB 에러 (ID: %s): %v", id, err)
		}
		return nil, err
	}
	return &ws, nil
}

// CreateSchedule은 새 스케줄을 INSERT합니다. ID는 호출 측에서 채워야 합니다.
func (s *Store) CreateSchedule(ctx context.Context, ws *WeeklyOutputSchedule) error {
	query := `
		INSERT INTO weekly_output_schedules (
			id, name, channel_id, channel_name, member_ids,
			thread_schedule, reminder_schedule, final_schedule,
			thread_message, reminder_message, final_message, is_active
		) VALUES (
			:id, :name, :channel_id, :channel_name, :member_ids,
			:thread_schedule, :reminder_schedule, :final_schedule,
			:thread_message, :reminder_message, :final_message, :is_active
		)`
	_, err := s.db.NamedExecContext(ctx, query, ws)
	if err != nil {
		log.Errorf("CreateSchedule DB 에러: %v", err)
		return err
	}
	return nil
}

// UpdateSchedule은 패치에 지정된 컬럼만 수정합니다.
// 대상 행이 없으면 sql.ErrNoRows를 반환합니다. (DSN clientFoundRows=true 전제)
func (s *Store) UpdateSchedule(ctx context.Context, id string, p SchedulePatch) error {
	sets, args := patchAssignments(p)
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := "UPDATE weekly_output_schedules SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Errorf("UpdateSchedule DB 에러 (ID: %s): %v", id, err)
		return err
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// patchAssignments는 "col = ?" 목록과 인자를 컬럼 순서대로 만듭니다.
func patchAssignments(p SchedulePatch) ([]string, []interface{}) {
	var sets []string
	var args []interface{}
	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.ChannelID != nil {
		add("channel_id", *p.ChannelID)
	}
	if p.ChannelName != nil {
		add("channel_name", *p.ChannelName)
	}
	if p.MemberIDs != nil {
		add("member_ids", NewMemberIDs(*p.MemberIDs...))
	}
	if p.ThreadSchedule != nil {
		add("thread_schedule", *p.ThreadSchedule)
	}
	if p.ReminderSchedule != nil {
		add("reminder_schedule", *p.ReminderSchedule)
	}
	if p.FinalSchedule != nil {
		add("final_schedule", *p.FinalSchedule)
	}
	if p.ThreadMessage.Set {
		add("thread_message", p.ThreadMessage.Value)
	}
	if p.ReminderMessage.Set {
		add("reminder_message", p.ReminderMessage.Value)
	}
	if p.FinalMessage.Set {
		add("final_message", p.FinalMessage.Value)
	}
	if p.IsActive != nil {
		add("is_active", *p.IsActive)
	}
	return sets, args
}

// DeleteSchedule은 스케줄을 완전히 삭제합니다. (소프트 삭제 없음)
func (s *Store) DeleteSchedule(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM weekly_output_schedules WHERE id = ?", id)
	if err != nil {
		log.Errorf("DeleteSchedule DB 에러 (ID: %s): %v", id, err)
		return err
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountSchedules는 전체/활성 스케줄 수를 반환합니다. (대시보드용)
func (s *Store) CountSchedules(ctx context.Context) (total int, active int, err error) {
	var row struct {
		Total  int `db:"total"`
		Active int `db:"active"`
	}
	query := `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) AS active
		FROM weekly_output_schedules`
	if err = s.db.GetContext(ctx, &row, query); err != nil {
		log.Errorf("CountSchedules DB 에러: %v", err)
		return 0, 0, err
	}
	return row.Total, row.Active, nil
}

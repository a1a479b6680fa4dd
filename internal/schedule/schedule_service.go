package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"weeklypulse/internal/member"
	"weeklypulse/internal/message"
)

// (MySQL 'Duplicate entry' 에러 코드)
const ErrMySQLDuplicateEntry = 1062

// Repository는 스케줄 저장소 계약입니다. 서버의 Service와 HTTP 클라이언트가 모두 구현합니다.
type Repository interface {
	List(ctx context.Context) ([]WeeklyOutputSchedule, error)
	Create(ctx context.Context, in ScheduleInput) (*WeeklyOutputSchedule, error)
	Update(ctx context.Context, id string, patch SchedulePatch) (*WeeklyOutputSchedule, error)
	Delete(ctx context.Context, id string) error
}

type scheduleStore interface {
	GetAllSchedules(ctx context.Context) ([]WeeklyOutputSchedule, error)
	GetScheduleByID(ctx context.Context, id string) (*WeeklyOutputSchedule, error)
	CreateSchedule(ctx context.Context, ws *WeeklyOutputSchedule) error
	UpdateSchedule(ctx context.Context, id string, p SchedulePatch) error
	DeleteSchedule(ctx context.Context, id string) error
}

// MemberLister는 미리보기 멘션 계산에 필요한 멤버 목록을 제공합니다.
type MemberLister interface {
	ListMembers(ctx context.Context) ([]member.Member, error)
}

// DirectMessenger는 이메일 대상 DM 발송자입니다. (테스트 발송용)
type DirectMessenger interface {
	SendDirectMessage(ctx context.Context, email, text string) error
}

// ChannelNamer는 채널 ID로 채널 이름을 찾습니다. (channel.Service가 만족)
type ChannelNamer interface {
	ChannelName(ctx context.Context, channelID string) (string, error)
}

// Service는 'schedule' 기능의 비즈니스 로직을 담당합니다.
type Service struct {
	store     scheduleStore
	members   MemberLister
	messenger DirectMessenger
	channels  ChannelNamer
	now       func() time.Time
}

// NewService는 새 Service를 생성합니다. messenger가 nil이면 테스트 발송이 비활성화됩니다.
func NewService(store scheduleStore, members MemberLister, messenger DirectMessenger) *Service {
	return &Service{
		store:     store,
		members:   members,
		messenger: messenger,
		now:       time.Now,
	}
}

// WithChannelNames는 생성 시 비어 있는 channel_name을 채널 목록에서 채웁니다.
func (s *Service) WithChannelNames(channels ChannelNamer) *Service {
	s.channels = channels
	return s
}

var _ Repository = (*Service)(nil)

// List는 전체 스케줄 목록을 반환합니다.
func (s *Service) List(ctx context.Context) ([]WeeklyOutputSchedule, error) {
	schedules, err := s.store.GetAllSchedules(ctx)
	if err != nil {
		return nil, NewRepositoryError("list", "스케줄 목록을 불러오지 못했습니다.", err)
	}
	if schedules == nil {
		schedules = []WeeklyOutputSchedule{}
	}
	return schedules, nil
}

// Get은 스케줄 1개를 조회합니다.
func (s *Service) Get(ctx context.Context, id string) (*WeeklyOutputSchedule, error) {
	ws, err := s.store.GetScheduleByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewRepositoryError("get", fmt.Sprintf("스케줄(ID: %s)을 찾을 수 없습니다.", id), ErrScheduleNotFound)
		}
		return nil, NewRepositoryError("get", "스케줄을 불러오지 못했습니다.", err)
	}
	return ws, nil
}

// Create는 초안을 검증하고 ID를 부여해 저장합니다.
func (s *Service) Create(ctx context.Context, in ScheduleInput) (*WeeklyOutputSchedule, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	if err := validateTimes(in.ThreadSchedule, in.ReminderSchedule, in.FinalSchedule); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.ChannelName) == "" && s.channels != nil {
		name, err := s.channels.ChannelName(ctx, in.ChannelID)
		if err != nil {
			log.Debugf("채널 이름 조회 실패 (채널: %s): %v", in.ChannelID, err)
		} else {
			in.ChannelName = name
		}
	}

	ws := in.ToSchedule()
	ws.ID = uuid.NewString()

	if err := s.store.CreateSchedule(ctx, ws); err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == ErrMySQLDuplicateEntry {
			return nil, NewRepositoryError("create", fmt.Sprintf("이미 존재하는 스케줄 이름입니다: %s", in.Name), err)
		}
		return nil, NewRepositoryError("create", "스케줄 생성에 실패했습니다.", err)
	}
	log.Infof("스케줄 생성 (ID: %s, 이름: %s, 채널: %s)", ws.ID, ws.Name, ws.ChannelID)

	return s.Get(ctx, ws.ID)
}

// Update는 패치에 포함된 필드만 수정합니다. 나머지 필드는 그대로 유지됩니다.
func (s *Service) Update(ctx context.Context, id string, patch SchedulePatch) (*WeeklyOutputSchedule, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.Get(ctx, id)
	}

	if err := s.store.UpdateSchedule(ctx, id, patch); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewRepositoryError("update", fmt.Sprintf("수정할 스케줄(ID: %s)을 찾을 수 없습니다.", id), ErrScheduleNotFound)
		}
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == ErrMySQLDuplicateEntry {
			return nil, NewRepositoryError("update", "이미 존재하는 스케줄 이름입니다.", err)
		}
		return nil, NewRepositoryError("update", "스케줄 수정에 실패했습니다.", err)
	}
	return s.Get(ctx, id)
}

// Delete는 스케줄을 완전히 삭제합니다.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteSchedule(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewRepositoryError("delete", fmt.Sprintf("삭제할 스케줄(ID: %s)을 찾을 수 없습니다.", id), ErrScheduleNotFound)
		}
		return NewRepositoryError("delete", "스케줄 삭제에 실패했습니다.", err)
	}
	log.Infof("스케줄 삭제 (ID: %s)", id)
	return nil
}

// Preview는 저장된 스케줄의 세 단계 메시지 미리보기를 만듭니다.
func (s *Service) Preview(ctx context.Context, id string) (*Preview, error) {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.PreviewSchedule(ctx, ws)
}

// PreviewSchedule은 저장 전 초안도 미리볼 수 있도록 스케줄 값을 직접 받습니다.
func (s *Service) PreviewSchedule(ctx context.Context, ws *WeeklyOutputSchedule) (*Preview, error) {
	var members []member.Member
	if len(ws.MemberIDs) > 0 && s.members != nil {
		list, err := s.members.ListMembers(ctx)
		if err != nil {
			return nil, NewRepositoryError("preview", "멤버 목록을 불러오지 못했습니다.", err)
		}
		members = list
	}
	return BuildPreview(ws, members, s.now()), nil
}

// TestSend는 한 단계의 미리보기 메시지를 요청자에게 DM으로 보냅니다.
func (s *Service) TestSend(ctx context.Context, id string, phase message.Phase, email string) error {
	if s.messenger == nil {
		return NewRepositoryError("test-send", "Slack 봇이 설정되지 않아 테스트 발송을 할 수 없습니다.", nil)
	}
	if !phase.Valid() {
		return NewRepositoryError("test-send", fmt.Sprintf("알 수 없는 발송 단계입니다: %s", phase), nil)
	}
	preview, err := s.Preview(ctx, id)
	if err != nil {
		return err
	}

	for _, p := range preview.Phases {
		if p.Phase != phase {
			continue
		}
		if err := s.messenger.SendDirectMessage(ctx, email, p.Text); err != nil {
			log.Errorf("[TestSend] 스케줄(ID: %s) -> DM(%s) 발송 실패: %v", id, email, err)
			return NewRepositoryError("test-send", "테스트 발송에 실패했습니다: "+err.Error(), err)
		}
		log.Infof("[TestSend] 스케줄(ID: %s, 단계: %s) -> DM(%s) 발송 성공", id, phase, email)
	}
	return nil
}

package dashboard

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup" // (여러 DB 조회를 병렬로 처리하기 위함)

	"weeklypulse/internal/schedule"
)

// Data는 대시보드 응답 구조체입니다.
type Data struct {
	ActiveSchedules     []schedule.WeeklyOutputSchedule `json:"active_schedules"`
	ScheduleCount       int                             `json:"schedule_count"`
	ActiveScheduleCount int                             `json:"active_schedule_count"`
	ChannelCount        int                             `json:"channel_count"`
	LinkedMemberCount   int                             `json:"linked_member_count"`
}

// (주의) 다른 패키지(schedule, channel, member)의 Store를 사용합니다.
type scheduleStore interface {
	GetActiveSchedules(ctx context.Context) ([]schedule.WeeklyOutputSchedule, error)
	CountSchedules(ctx context.Context) (int, int, error)
}

type channelStore interface {
	CountChannels(ctx context.Context) (int, error)
}

type memberStore interface {
	CountMembersWithIdentity(ctx context.Context) (int, error)
}

// Service는 대시보드 데이터 조회를 담당합니다.
type Service struct {
	scheduleStore scheduleStore
	channelStore  channelStore
	memberStore   memberStore
}

// NewService는 대시보드 서비스를 생성합니다.
func NewService(ss scheduleStore, cs channelStore, ms memberStore) *Service {
	return &Service{
		scheduleStore: ss,
		channelStore:  cs,
		memberStore:   ms,
	}
}

// GetDashboardData는 4가지 데이터를 DB에서 병렬로 조회하여 집계합니다.
func (s *Service) GetDashboardData(ctx context.Context) (*Data, error) {
	var data Data
	var eg errgroup.Group

	// 고루틴 1: 활성 스케줄 목록
	eg.Go(func() error {
		schedules, err := s.scheduleStore.GetActiveSchedules(ctx)
		if err != nil {
			log.Errorf("GetDashboardData: GetActiveSchedules 실패: %v", err)
			return err
		}
		if schedules == nil {
			schedules = []schedule.WeeklyOutputSchedule{}
		}
		data.ActiveSchedules = schedules
		return nil
	})

	// 고루틴 2: 전체/활성 스케줄 수
	eg.Go(func() error {
		total, active, err := s.scheduleStore.CountSchedules(ctx)
		if err != nil {
			log.Errorf("GetDashboardData: CountSchedules 실패: %v", err)
			return err
		}
		data.ScheduleCount, data.ActiveScheduleCount = total, active
		return nil
	})

	// 고루틴 3: 채널 수
	eg.Go(func() error {
		count, err := s.channelStore.CountChannels(ctx)
		if err != nil {
			log.Errorf("GetDashboardData: CountChannels 실패: %v", err)
			return err
		}
		data.ChannelCount = count
		return nil
	})

	// 고루틴 4: Slack 계정이 연결된 멤버 수
	eg.Go(func() error {
		count, err := s.memberStore.CountMembersWithIdentity(ctx)
		if err != nil {
			log.Errorf("GetDashboardData: CountMembersWithIdentity 실패: %v", err)
			return err
		}
		data.LinkedMemberCount = count
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &data, nil
}

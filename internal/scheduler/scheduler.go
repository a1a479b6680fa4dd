package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"weeklypulse/internal/membership"
	"weeklypulse/internal/schedule"
)

// 기본 주기 (설정 파일의 server.SyncInterval / server.AuditInterval)
const (
	DefaultSyncInterval  = "@every 1h"
	DefaultAuditInterval = "@every 30m"
	jobTimeout           = 5 * time.Minute
)

// ChannelSyncer는 Slack 채널 목록을 동기화합니다. (channel.Service가 만족)
type ChannelSyncer interface {
	SyncFromSlack(ctx context.Context) (int, error)
}

// IdentityLinker는 멤버의 Slack 계정을 연결합니다. (member.Service가 만족)
type IdentityLinker interface {
	LinkChannelIdentities(ctx context.Context) (int, error)
}

// ActiveScheduleLister는 발송 대상 스케줄 목록을 제공합니다. (schedule.Store가 만족)
type ActiveScheduleLister interface {
	GetActiveSchedules(ctx context.Context) ([]schedule.WeeklyOutputSchedule, error)
}

// ChannelNotifier는 운영 알림 채널로 메시지를 보냅니다. (slackbot.Bot이 만족)
type ChannelNotifier interface {
	SendChannelMessage(channelID, text string) error
}

// Options는 작업 주기입니다. 비어 있으면 기본값을 사용합니다.
// AlertChannel이 있으면 봇 초대 점검에서 문제가 된 채널 목록을 그 채널로 보냅니다.
type Options struct {
	SyncInterval  string
	AuditInterval string
	AlertChannel  string
}

// Scheduler
type Scheduler struct {
	cron *cron.Cron
	opts Options

	// (의존성)
	syncer    ChannelSyncer
	linker    IdentityLinker
	schedules ActiveScheduleLister
	checker   membership.Checker
	notifier  ChannelNotifier
}

// NewScheduler
func NewScheduler(syncer ChannelSyncer, linker IdentityLinker, schedules ActiveScheduleLister, checker membership.Checker, opts Options) *Scheduler {
	if opts.SyncInterval == "" {
		opts.SyncInterval = DefaultSyncInterval
	}
	if opts.AuditInterval == "" {
		opts.AuditInterval = DefaultAuditInterval
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(schedule.KST)),
		opts:      opts,
		syncer:    syncer,
		linker:    linker,
		schedules: schedules,
		checker:   checker,
	}
}

// WithNotifier는 점검 결과 알림 발송자를 설정합니다.
func (s *Scheduler) WithNotifier(n ChannelNotifier) *Scheduler {
	s.notifier = n
	return s
}

// Start
func (s *Scheduler) Start() error {
	log.Info("-----------------------------------------")
	log.Info("🔔 WeeklyPulse 스케줄러가 시작됩니다...")
	if _, err := s.cron.AddFunc(s.opts.SyncInterval, s.runSyncDirectory); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.opts.AuditInterval, s.runAuditMembership); err != nil {
		return err
	}
	s.cron.Start()
	log.Infof("동기화 주기: %s, 봇 초대 점검 주기: %s", s.opts.SyncInterval, s.opts.AuditInterval)
	log.Info("-----------------------------------------")
	return nil
}

// Stop은 실행 중인 작업이 끝날 때까지 기다립니다.
func (s *Scheduler) Stop() {
	log.Info("WeeklyPulse 스케줄러가 중지됩니다...")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runSyncDirectory() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	s.SyncDirectory(ctx)
}

func (s *Scheduler) runAuditMembership() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	s.AuditMembership(ctx)
}

// SyncDirectory는 Slack 채널 목록과 멤버 계정 연결을 갱신합니다.
func (s *Scheduler) SyncDirectory(ctx context.Context) {
	log.Info("[Scheduler] 채널/멤버 디렉터리 동기화를 시작합니다...")
	if s.syncer != nil {
		if _, err := s.syncer.SyncFromSlack(ctx); err != nil {
			log.Errorf("[Scheduler] 채널 동기화 실패: %v", err)
		}
	}
	if s.linker != nil {
		if _, err := s.linker.LinkChannelIdentities(ctx); err != nil {
			log.Errorf("[Scheduler] 멤버 계정 연결 실패: %v", err)
		}
	}
}

// AuditMembership은 활성 스케줄의 채널마다 봇 초대 여부를 한 번씩 확인하고,
// 문제가 있는 채널을 경고로 남깁니다. (스케줄 상태는 바꾸지 않음)
func (s *Scheduler) AuditMembership(ctx context.Context) map[string]membership.Status {
	if s.schedules == nil || s.checker == nil {
		return nil
	}
	active, err := s.schedules.GetActiveSchedules(ctx)
	if err != nil {
		log.Errorf("[Scheduler] 활성 스케줄 조회 실패: %v", err)
		return nil
	}
	if len(active) == 0 {
		log.Debug("[Scheduler] 점검할 활성 스케줄이 없습니다.")
		return map[string]membership.Status{}
	}

	byChannel := make(map[string][]string)
	channelIDs := make([]string, 0, len(active))
	for _, ws := range active {
		byChannel[ws.ChannelID] = append(byChannel[ws.ChannelID], ws.Name)
		channelIDs = append(channelIDs, ws.ChannelID)
	}

	var mu sync.Mutex
	var problems []string
	tracker := membership.NewTracker()
	issued := tracker.BatchCheck(ctx, s.checker, channelIDs, func(channelID string, st membership.Status) {
		var line string
		switch st {
		case membership.StatusNotMember:
			log.Warnf("[Scheduler] 봇 미초대 채널(%s) - 스케줄: %v", channelID, byChannel[channelID])
			line = fmt.Sprintf("• <#%s> 봇 미초대: %s", channelID, strings.Join(byChannel[channelID], ", "))
		case membership.StatusError:
			log.Warnf("[Scheduler] 채널(%s) 봇 초대 여부 확인 실패 - 스케줄: %v", channelID, byChannel[channelID])
			line = fmt.Sprintf("• <#%s> 확인 실패: %s", channelID, strings.Join(byChannel[channelID], ", "))
		default:
			return
		}
		mu.Lock()
		problems = append(problems, line)
		mu.Unlock()
	})
	log.Infof("[Scheduler] 봇 초대 점검 완료: 스케줄 %d 건, 채널 %d 개", len(active), issued)
	s.alert(problems)
	return tracker.Snapshot()
}

func (s *Scheduler) alert(problems []string) {
	if len(problems) == 0 || s.notifier == nil || s.opts.AlertChannel == "" {
		return
	}
	sort.Strings(problems)
	text := ":warning: *주간 산출물 봇 초대 점검*\n" + strings.Join(problems, "\n")
	if err := s.notifier.SendChannelMessage(s.opts.AlertChannel, text); err != nil {
		log.Errorf("[Scheduler] 점검 알림 발송 실패 (채널: %s): %v", s.opts.AlertChannel, err)
	}
}

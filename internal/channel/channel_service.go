package channel

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

// (conversations.list 한 페이지 크기)
const slackPageSize = 200

// ConversationLister는 conversations.list 호출 계약입니다. (*slack.Client가 만족)
type ConversationLister interface {
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
}

type channelStore interface {
	SearchChannels(ctx context.Context, query string, limit int) ([]Channel, error)
	GetChannelByID(ctx context.Context, id string) (*Channel, error)
	UpsertChannels(ctx context.Context, channels []Channel) error
}

// Service는 'channel' 기능의 비즈니스 로직을 담당합니다.
type Service struct {
	store        channelStore
	slack        ConversationLister
	defaultLimit int
}

// NewService는 새 Service를 생성합니다. slack이 nil이면 동기화를 건너뜁니다.
func NewService(store channelStore, lister ConversationLister, defaultLimit int) *Service {
	return &Service{
		store:        store,
		slack:        lister,
		defaultLimit: ClampLimit(defaultLimit, DefaultSearchLimit),
	}
}

// SearchChannels는 채널명으로 검색합니다. limit은 최대 50으로 제한됩니다.
func (s *Service) SearchChannels(ctx context.Context, query string, limit int) ([]Channel, error) {
	query = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(query), "#"))
	return s.store.SearchChannels(ctx, query, ClampLimit(limit, s.defaultLimit))
}

// ChannelName은 동기화된 채널 목록에서 채널 이름을 찾습니다. 없으면 sql.ErrNoRows입니다.
func (s *Service) ChannelName(ctx context.Context, channelID string) (string, error) {
	ch, err := s.store.GetChannelByID(ctx, channelID)
	if err != nil {
		return "", err
	}
	return ch.ChannelName, nil
}

// SyncFromSlack은 봇이 볼 수 있는 공개/비공개 채널 전체를 페이지 단위로 가져와 저장합니다.
// 저장된 채널 수를 반환합니다.
func (s *Service) SyncFromSlack(ctx context.Context) (int, error) {
	if s.slack == nil {
		return 0, nil
	}

	var all []Channel
	params := &slack.GetConversationsParameters{
		Types: []string{"public_channel", "private_channel"},
		Limit: slackPageSize,
	}
	for {
		page, cursor, err := s.slack.GetConversationsContext(ctx, params)
		if err != nil {
			log.Errorf("[Scheduler] Slack 채널 목록 조회 실패: %v", err)
			return 0, err
		}
		for _, ch := range page {
			all = append(all, fromSlack(ch))
		}
		if cursor == "" {
			break
		}
		params.Cursor = cursor
	}

	if err := s.store.UpsertChannels(ctx, all); err != nil {
		return 0, err
	}
	log.Infof("[Scheduler] Slack 채널 동기화 완료: %d 개", len(all))
	return len(all), nil
}

func fromSlack(ch slack.Channel) Channel {
	return Channel{
		ID:          ch.ID,
		ChannelName: ch.Name,
		IsPrivate:   ch.IsPrivate,
		IsArchived:  ch.IsArchived,
		NumMembers:  ch.NumMembers,
	}
}

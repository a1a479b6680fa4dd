package member

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

// UserLookup은 이메일로 Slack 사용자를 찾습니다. (*slack.Client가 만족)
type UserLookup interface {
	GetUserByEmailContext(ctx context.Context, email string) (*slack.User, error)
}

type memberStore interface {
	GetAllMembers(ctx context.Context) ([]Member, error)
	GetMembersWithoutIdentity(ctx context.Context) ([]Member, error)
	UpdateSlackUserID(ctx context.Context, id, slackUserID string) error
}

// Service는 'member' 기능의 비즈니스 로직을 담당합니다.
type Service struct {
	store  memberStore
	lookup UserLookup
}

// NewService는 새 Service를 생성합니다. lookup이 nil이면 계정 연결을 건너뜁니다.
func NewService(store memberStore, lookup UserLookup) *Service {
	return &Service{store: store, lookup: lookup}
}

// ListMembers는 전체 멤버 목록입니다. (미리보기 멘션 계산용)
func (s *Service) ListMembers(ctx context.Context) ([]Member, error) {
	return s.store.GetAllMembers(ctx)
}

// ListMembersWithChannelIdentity는 Slack 계정 연결 여부를 포함한 멤버 목록입니다.
func (s *Service) ListMembersWithChannelIdentity(ctx context.Context) ([]MemberView, error) {
	members, err := s.store.GetAllMembers(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, NewMemberView(m))
	}
	return views, nil
}

// LinkChannelIdentities는 계정 미연결 멤버의 이메일로 Slack 사용자를 찾아 연결합니다.
// 찾지 못한 멤버는 건너뛰며, 연결된 수를 반환합니다.
func (s *Service) LinkChannelIdentities(ctx context.Context) (int, error) {
	if s.lookup == nil {
		return 0, nil
	}
	members, err := s.store.GetMembersWithoutIdentity(ctx)
	if err != nil {
		return 0, err
	}

	linked := 0
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return linked, err
		}
		user, err := s.lookup.GetUserByEmailContext(ctx, m.Email)
		if err != nil {
			if strings.Contains(err.Error(), "users_not_found") {
				log.Debugf("Slack 사용자 없음: %s", m.Email)
				continue
			}
			log.Warnf("Slack 사용자(%s) 조회 실패: %v", m.Email, err)
			continue
		}
		if user == nil || user.ID == "" {
			continue
		}
		if err := s.store.UpdateSlackUserID(ctx, m.ID, user.ID); err != nil {
			return linked, err
		}
		linked++
	}
	log.Infof("Slack 계정 연결 완료: %d/%d 명", linked, len(members))
	return linked, nil
}

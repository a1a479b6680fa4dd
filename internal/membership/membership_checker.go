package membership

import (
	"context"
	"errors"
	"strings"

	"github.com/slack-go/slack"
)

// ErrNoSlackClient는 봇 토큰 없이 확인을 요청한 경우입니다. (상태는 error)
var ErrNoSlackClient = errors.New("Slack 봇이 설정되지 않았습니다")

// Checker는 채널에 봇이 초대되어 있는지 확인합니다.
// 서버에서는 SlackChecker, 클라이언트에서는 backend.Client가 구현합니다.
type Checker interface {
	CheckMembership(ctx context.Context, channelID string) (Result, error)
}

// ConversationInfoGetter는 conversations.info 호출 계약입니다. (*slack.Client가 만족)
type ConversationInfoGetter interface {
	GetConversationInfoContext(ctx context.Context, input *slack.GetConversationInfoInput) (*slack.Channel, error)
}

// SlackChecker는 봇 토큰으로 conversations.info를 호출해 is_member를 확인합니다.
type SlackChecker struct {
	api ConversationInfoGetter
}

// NewSlackChecker는 새 SlackChecker를 생성합니다. api가 nil이면 모든 확인이 실패합니다.
func NewSlackChecker(api ConversationInfoGetter) *SlackChecker {
	return &SlackChecker{api: api}
}

// CheckMembership은 채널 정보를 조회합니다.
// 비공개 채널에 초대되지 않은 봇은 channel_not_found를 받으므로 not_member로 처리합니다.
func (c *SlackChecker) CheckMembership(ctx context.Context, channelID string) (Result, error) {
	if c.api == nil {
		return Result{}, ErrNoSlackClient
	}
	ch, err := c.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{ChannelID: channelID})
	if err != nil {
		if strings.Contains(err.Error(), "channel_not_found") {
			return Result{OK: true, IsMember: false}, nil
		}
		return Result{}, err
	}
	if ch == nil {
		return Result{OK: true, IsMember: false}, nil
	}
	return Result{OK: true, IsMember: ch.IsMember}, nil
}

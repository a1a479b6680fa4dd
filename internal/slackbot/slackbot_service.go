package slackbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sizzlei/slack-notificator"
	"github.com/slack-go/slack"
)

// ErrNoToken은 봇 토큰이 설정되지 않은 경우입니다.
var ErrNoToken = errors.New("Slack 봇 토큰이 설정되지 않았습니다")

// Bot은 설정 파일의 단일 봇 토큰으로 Slack API를 호출합니다.
//   - 발송(DM/채널 메시지): slack-notificator
//   - 조회(채널 목록, 채널 정보, 사용자 조회): slack-go 클라이언트
type Bot struct {
	token string
	api   *slack.Client
}

// New는 새 Bot을 생성합니다.
func New(token string) (*Bot, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoToken
	}
	return &Bot{token: token, api: slack.New(token)}, nil
}

// Client는 조회용 slack-go 클라이언트를 반환합니다.
func (b *Bot) Client() *slack.Client {
	return b.api
}

// Identify는 토큰이 유효한지 확인하고 봇 정보를 반환합니다.
func (b *Bot) Identify(ctx context.Context) (*BotIdentity, error) {
	resp, err := b.api.AuthTestContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("Slack auth.test 실패: %w", err)
	}
	return &BotIdentity{
		TeamID:    resp.TeamID,
		Team:      resp.Team,
		UserID:    resp.UserID,
		BotID:     resp.BotID,
		CheckedAt: time.Now(),
	}, nil
}

// SendDirectMessage는 이메일로 Slack 사용자를 찾아 DM을 보냅니다. (테스트 발송용)
func (b *Bot) SendDirectMessage(ctx context.Context, email, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	api := slacknotificator.GetClient(b.token)
	memberID, err := api.GetMemberId(email)
	if err != nil {
		return fmt.Errorf("Slack 사용자(%s) ID 조회 실패: %v", email, err)
	}
	if err := api.CreateDMChannel(*memberID); err != nil {
		return fmt.Errorf("DM 채널(%s) 생성 실패: %v", email, err)
	}
	if err := api.SendMessage(text); err != nil {
		log.Errorf("[SendDirectMessage] DM(%s) 발송 실패: %v", email, err)
		return err
	}
	log.Infof("[SendDirectMessage] DM(%s) 발송 성공", email)
	return nil
}

// SendChannelMessage는 채널에 일반 텍스트 메시지를 보냅니다. (운영 알림용)
func (b *Bot) SendChannelMessage(channelID, text string) error {
	api := slacknotificator.GetClient(b.token)
	if err := api.SetChannel(channelID).SendMessage(text); err != nil {
		log.Errorf("[SendChannelMessage] 채널(%s) 발송 실패: %v", channelID, err)
		return err
	}
	return nil
}

package slackbot

import (
	"time"
)

// BotIdentity는 봇 토큰으로 확인한 Slack 봇 정보입니다. (auth.test 결과)
type BotIdentity struct {
	TeamID    string    `json:"team_id"`
	Team      string    `json:"team"`
	UserID    string    `json:"user_id"`
	BotID     string    `json:"bot_id"`
	CheckedAt time.Time `json:"checked_at"`
}

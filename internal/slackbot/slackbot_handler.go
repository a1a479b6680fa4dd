package slackbot

import (
	"context"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"weeklypulse/internal/response"
)

// Identifier는 봇 정보 조회 계약입니다. (*Bot이 만족)
type Identifier interface {
	Identify(ctx context.Context) (*BotIdentity, error)
}

// SlackbotHandler는 봇 상태 관련 핸들러입니다.
type SlackbotHandler struct {
	bot Identifier
}

// NewSlackbotHandler는 새 핸들러를 생성합니다.
func NewSlackbotHandler(bot Identifier) *SlackbotHandler {
	return &SlackbotHandler{bot: bot}
}

// HandleShowIdentity는 'GET /api/bot' 요청을 처리합니다.
func (h *SlackbotHandler) HandleShowIdentity(c *fiber.Ctx) error {
	if h.bot == nil {
		return response.Error(c, fiber.StatusServiceUnavailable, ErrNoToken.Error())
	}
	identity, err := h.bot.Identify(c.UserContext())
	if err != nil {
		log.Warnf("봇 정보 조회 실패: %v", err)
		return response.Error(c, fiber.StatusBadGateway, "Slack 봇 정보를 확인하지 못했습니다.")
	}
	return response.Success(c, "ok", identity)
}

package channel

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"weeklypulse/internal/response"
)

// ChannelHandler는 채널 관련 핸들러입니다.
type ChannelHandler struct {
	service *Service
}

// NewChannelHandler는 새 핸들러를 생성합니다.
func NewChannelHandler(service *Service) *ChannelHandler {
	return &ChannelHandler{service: service}
}

// HandleSearchChannels는 'GET /api/channels/search?q=&limit=' 요청을 처리합니다.
func (h *ChannelHandler) HandleSearchChannels(c *fiber.Ctx) error {
	query := c.Query("q")
	limit := c.QueryInt("limit", 0)

	channels, err := h.service.SearchChannels(c.UserContext(), query, limit)
	if err != nil {
		log.Errorf("채널 검색 실패 (q: %s): %v", query, err)
		return response.Error(c, fiber.StatusInternalServerError, "채널 검색 중 오류가 발생했습니다.")
	}
	return response.Success(c, "ok", channels)
}

// HandleSyncChannels는 'POST /api/channels/sync' 요청을 처리합니다. (수동 동기화)
func (h *ChannelHandler) HandleSyncChannels(c *fiber.Ctx) error {
	count, err := h.service.SyncFromSlack(c.UserContext())
	if err != nil {
		log.Errorf("채널 동기화 실패: %v", err)
		return response.Error(c, fiber.StatusBadGateway, "Slack 채널 동기화에 실패했습니다.")
	}
	return response.Success(c, "채널 동기화 완료", fiber.Map{"synced": count})
}

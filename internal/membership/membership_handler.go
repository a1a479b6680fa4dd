package membership

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"weeklypulse/internal/response"
)

// MembershipHandler는 봇 초대 여부 확인 핸들러입니다.
type MembershipHandler struct {
	checker Checker
}

// NewMembershipHandler는 새 핸들러를 생성합니다.
func NewMembershipHandler(checker Checker) *MembershipHandler {
	return &MembershipHandler{checker: checker}
}

// HandleCheck는 'GET /api/channels/:channelId/bot-membership' 요청을 처리합니다.
// Slack 호출이 실패하면 200과 함께 ok=false를 반환합니다. (not_member와 구분)
func (h *MembershipHandler) HandleCheck(c *fiber.Ctx) error {
	channelID := c.Params("channelId")
	if channelID == "" {
		return response.Error(c, fiber.StatusBadRequest, "channelId가 필요합니다.")
	}

	result, err := h.checker.CheckMembership(c.UserContext(), channelID)
	if err != nil {
		log.Warnf("봇 초대 여부 확인 실패 (채널: %s): %v", channelID, err)
		return response.Success(c, "봇 초대 여부를 확인하지 못했습니다.", Result{OK: false})
	}
	return response.Success(c, "ok", result)
}

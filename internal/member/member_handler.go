package member

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"weeklypulse/internal/response"
)

// MemberHandler는 멤버 관련 핸들러입니다.
type MemberHandler struct {
	service *Service
}

// NewMemberHandler는 새 핸들러를 생성합니다.
func NewMemberHandler(service *Service) *MemberHandler {
	return &MemberHandler{service: service}
}

// HandleListMembers는 'GET /api/members' 요청을 처리합니다.
func (h *MemberHandler) HandleListMembers(c *fiber.Ctx) error {
	members, err := h.service.ListMembersWithChannelIdentity(c.UserContext())
	if err != nil {
		log.Errorf("멤버 목록 조회 실패: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "멤버 목록을 불러오지 못했습니다.")
	}
	return response.Success(c, "ok", members)
}

// HandleLinkIdentities는 'POST /api/members/link-identities' 요청을 처리합니다.
func (h *MemberHandler) HandleLinkIdentities(c *fiber.Ctx) error {
	linked, err := h.service.LinkChannelIdentities(c.UserContext())
	if err != nil {
		log.Errorf("Slack 계정 연결 실패: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Slack 계정 연결 중 오류가 발생했습니다.")
	}
	return response.Success(c, "ok", fiber.Map{"linked": linked})
}

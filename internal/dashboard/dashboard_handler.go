package dashboard

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"weeklypulse/internal/response"
)

// DashboardHandler는 대시보드 관련 핸들러입니다.
type DashboardHandler struct {
	service *Service
}

// NewDashboardHandler는 새 핸들러를 생성합니다.
func NewDashboardHandler(service *Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// HandleGetDashboard는 'GET /api/dashboard' 요청을 처리합니다.
func (h *DashboardHandler) HandleGetDashboard(c *fiber.Ctx) error {
	data, err := h.service.GetDashboardData(c.UserContext())
	if err != nil {
		log.Errorf("대시보드 데이터 조회 실패: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "대시보드 데이터를 불러오지 못했습니다.")
	}
	return response.Success(c, "ok", data)
}

// HandleShowDashboard는 'GET /dashboard' 요청을 처리합니다.
func (h *DashboardHandler) HandleShowDashboard(c *fiber.Ctx) error {
	data, err := h.service.GetDashboardData(c.UserContext())
	if err != nil {
		log.Errorf("대시보드 데이터 조회 실패: %v", err)
		return c.Status(500).SendString("데이터 조회 중 오류 발생")
	}

	// 'dashboard.html' 뷰(View)에 데이터를 전달하여 렌더링
	return c.Render("dashboard", fiber.Map{
		"Title": "WeeklyPulse | 대시보드",
		"Data":  data,
	}, "layout")
}

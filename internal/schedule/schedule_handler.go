package schedule

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"weeklypulse/internal/message"
	"weeklypulse/internal/response"
)

// ScheduleHandler는 주간 산출물 스케줄 관련 핸들러입니다.
type ScheduleHandler struct {
	service  *Service
	validate *validator.Validate
}

// NewScheduleHandler는 새 핸들러를 생성합니다.
func NewScheduleHandler(service *Service) *ScheduleHandler {
	return &ScheduleHandler{
		service:  service,
		validate: NewValidator(),
	}
}

// NewValidator는 ScheduleTime 구조체 검증이 등록된 validator를 만듭니다.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(scheduleTimeStructLevel, ScheduleTime{})
	return v
}

// 비어 있는 ScheduleTime은 "기본값 사용"이므로 통과시킵니다.
func scheduleTimeStructLevel(sl validator.StructLevel) {
	t := sl.Current().Interface().(ScheduleTime)
	if t.IsZero() {
		return
	}
	if !t.DayOfWeek.Valid() {
		sl.ReportError(t.DayOfWeek, "day_of_week", "DayOfWeek", "weekday", "")
	}
	if t.Hour < 0 || t.Hour > 23 {
		sl.ReportError(t.Hour, "hour", "Hour", "hour", "")
	}
	if t.Minute < 0 || t.Minute > 59 || t.Minute%MinuteStep != 0 {
		sl.ReportError(t.Minute, "minute", "Minute", "minute_step", "")
	}
}

type testSendRequest struct {
	Email string `json:"email" validate:"required,email"`
	Phase string `json:"phase" validate:"omitempty,oneof=thread reminder final"`
}

// HandleListSchedules는 'GET /api/schedules' 요청을 처리합니다.
func (h *ScheduleHandler) HandleListSchedules(c *fiber.Ctx) error {
	schedules, err := h.service.List(c.UserContext())
	if err != nil {
		log.Errorf("스케줄 목록 조회 실패: %v", err)
		return writeError(c, err)
	}
	return response.Success(c, "ok", schedules)
}

// HandleGetSchedule은 'GET /api/schedules/:id' 요청을 처리합니다.
func (h *ScheduleHandler) HandleGetSchedule(c *fiber.Ctx) error {
	ws, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "ok", ws)
}

// HandleCreateSchedule은 'POST /api/schedules' 요청을 처리합니다.
func (h *ScheduleHandler) HandleCreateSchedule(c *fiber.Ctx) error {
	var req ScheduleInput
	if err := c.BodyParser(&req); err != nil {
		log.Warnf("스케줄 생성 요청 파싱 실패: %v", err)
		return response.Error(c, fiber.StatusBadRequest, "스케줄 입력이 잘못되었습니다.")
	}
	if err := h.validate.Struct(req); err != nil {
		return response.ValidationError(c, err)
	}

	ws, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		log.Errorf("스케줄 생성 실패: %v", err)
		return writeError(c, err)
	}
	return response.SuccessWithCode(c, fiber.StatusCreated, "스케줄이 생성되었습니다.", ws)
}

// HandleUpdateSchedule은 'PATCH /api/schedules/:id' 요청을 처리합니다. (부분 수정)
func (h *ScheduleHandler) HandleUpdateSchedule(c *fiber.Ctx) error {
	id := c.Params("id")

	var patch SchedulePatch
	if err := c.BodyParser(&patch); err != nil {
		log.Warnf("스케줄 수정 요청 파싱 실패: %v", err)
		return response.Error(c, fiber.StatusBadRequest, "스케줄 입력이 잘못되었습니다.")
	}
	if err := h.validate.Struct(patch); err != nil {
		return response.ValidationError(c, err)
	}

	ws, err := h.service.Update(c.UserContext(), id, patch)
	if err != nil {
		log.Errorf("스케줄 수정 실패 (ID: %s): %v", id, err)
		return writeError(c, err)
	}
	return response.Success(c, "스케줄이 수정되었습니다.", ws)
}

// HandleDeleteSchedule은 'DELETE /api/schedules/:id' 요청을 처리합니다.
func (h *ScheduleHandler) HandleDeleteSchedule(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		log.Errorf("스케줄 삭제 실패 (ID: %s): %v", id, err)
		return writeError(c, err)
	}
	return response.Success(c, "스케줄이 삭제되었습니다.", nil)
}

// HandleListPresets는 'GET /api/presets' 요청을 처리합니다.
func (h *ScheduleHandler) HandleListPresets(c *fiber.Ctx) error {
	return response.Success(c, "ok", Presets())
}

// HandlePreview는 'GET /api/schedules/:id/preview' 요청을 처리합니다.
func (h *ScheduleHandler) HandlePreview(c *fiber.Ctx) error {
	preview, err := h.service.Preview(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "ok", preview)
}

// HandlePreviewDraft는 'POST /api/schedules/preview' 요청을 처리합니다. (저장 전 초안)
func (h *ScheduleHandler) HandlePreviewDraft(c *fiber.Ctx) error {
	var req ScheduleInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "스케줄 입력이 잘못되었습니다.")
	}
	if err := h.validate.Struct(req); err != nil {
		return response.ValidationError(c, err)
	}
	preview, err := h.service.PreviewSchedule(c.UserContext(), req.ToSchedule())
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "ok", preview)
}

// HandleShowPreviewPage는 'GET /schedules/:id/preview' 요청을 HTML로 렌더링합니다.
func (h *ScheduleHandler) HandleShowPreviewPage(c *fiber.Ctx) error {
	id := c.Params("id")
	ws, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return c.Status(statusFor(err)).SendString(err.Error())
	}
	preview, err := h.service.PreviewSchedule(c.UserContext(), ws)
	if err != nil {
		return c.Status(statusFor(err)).SendString(err.Error())
	}
	return c.Render("preview", fiber.Map{
		"Title":    ws.Name + " | 메시지 미리보기",
		"Schedule": ws,
		"Preview":  preview,
	}, "layout")
}

// HandleTestSend는 'POST /api/schedules/:id/test-send' 요청을 처리합니다.
func (h *ScheduleHandler) HandleTestSend(c *fiber.Ctx) error {
	id := c.Params("id")
	var req testSendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "테스트 발송 입력이 잘못되었습니다.")
	}
	if err := h.validate.Struct(req); err != nil {
		return response.ValidationError(c, err)
	}
	phase := message.Phase(req.Phase)
	if phase == "" {
		phase = message.PhaseThread
	}

	if err := h.service.TestSend(c.UserContext(), id, phase, req.Email); err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "테스트 발송 성공: "+req.Email+"님에게 DM을 발송했습니다.", nil)
}

func statusFor(err error) int {
	var fe *FieldError
	switch {
	case errors.As(err, &fe):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidScheduleTime), errors.Is(err, ErrUnknownPreset):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrScheduleNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, err error) error {
	code := statusFor(err)

	var fe *FieldError
	if errors.As(err, &fe) {
		return response.ErrorWithDetails(c, code, err.Error(), map[string]string{"field": fe.Field})
	}
	var re *RepositoryError
	if errors.As(err, &re) {
		return response.Error(c, code, re.Error())
	}
	if code == fiber.StatusBadRequest {
		return response.Error(c, code, err.Error())
	}
	return response.Error(c, code, GenericRepositoryMessage)
}

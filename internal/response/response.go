package response

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Envelope는 모든 JSON 응답의 공통 형태입니다.
type Envelope struct {
	Code    int               `json:"code"`
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Success (200)
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusOK, message, data)
}

// SuccessWithCode는 201 등 상태 코드를 지정합니다.
func SuccessWithCode(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(Envelope{
		Code:    code,
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error
func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(Envelope{
		Code:    code,
		Status:  "error",
		Message: message,
	})
}

// ErrorWithDetails는 필드별 에러를 함께 보냅니다.
func ErrorWithDetails(c *fiber.Ctx, code int, message string, details map[string]string) error {
	return c.Status(code).JSON(Envelope{
		Code:    code,
		Status:  "error",
		Message: message,
		Errors:  details,
	})
}

// ValidationError는 validator.v10 에러를 필드별 태그로 변환합니다.
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Error(c, fiber.StatusBadRequest, "입력 값이 올바르지 않습니다.")
	}

	details := make(map[string]string, len(ve))
	for _, fe := range ve {
		details[fe.Namespace()] = fe.Tag()
	}
	return ErrorWithDetails(c, fiber.StatusBadRequest, "입력 값 검증에 실패했습니다.", details)
}

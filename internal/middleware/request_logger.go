package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RequestIDHeader
const RequestIDHeader = "X-Request-ID"

// RequestLogger는 요청마다 request id를 부여하고 처리 결과를 로그로 남깁니다.
// 클라이언트가 보낸 X-Request-ID가 있으면 그대로 사용합니다.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals("request_id", requestID)
		c.Set(RequestIDHeader, requestID)

		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// 에러 핸들러가 아직 상태 코드를 쓰기 전
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		entry := log.WithFields(log.Fields{
			"request_id": requestID,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"duration":   time.Since(start).String(),
		})
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("요청 처리 실패")
		case status >= fiber.StatusBadRequest:
			entry.Warn("요청 처리 (클라이언트 오류)")
		default:
			entry.Info("요청 처리")
		}
		return err
	}
}

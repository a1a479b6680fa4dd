package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"weeklypulse/internal/response"
)

// SearchRateLimiter는 채널 검색 호출량을 IP 기준으로 제한합니다.
// storage가 nil이면 인메모리 카운터를 사용합니다. (인스턴스가 여러 개면 MySQL 스토리지 사용)
func SearchRateLimiter(limit int, storage fiber.Storage) fiber.Handler {
	if limit <= 0 {
		limit = 60
	}
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: 1 * time.Minute,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "channel-search:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, "채널 검색 요청이 너무 많습니다. 잠시 후 다시 시도해주세요.")
		},
	})
}

package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestRequestLoggerSetsRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger())
	app.Get("/ping", func(c *fiber.Ctx) error {
		if c.Locals("request_id") == nil {
			t.Error("request_id not set")
		}
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Fatal("missing request id header")
	}

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "given-id")
	resp, _ = app.Test(req)
	if got := resp.Header.Get(RequestIDHeader); got != "given-id" {
		t.Fatalf("request id = %q", got)
	}
}

func TestSearchRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Get("/search", SearchRateLimiter(2, nil), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/search", nil))
		if err != nil {
			t.Fatal(err)
		}
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != fiber.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

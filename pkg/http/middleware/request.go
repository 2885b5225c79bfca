package middleware

import (
	"github.com/go-arcade/guestline/pkg/id"
	"github.com/gofiber/fiber/v2"
)

const RequestIdKey = "request_id"

// RequestMiddleware set request id
func RequestMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestId := c.Get(fiber.HeaderXRequestID)
		if requestId == "" {
			requestId = id.GetUUID()
		}
		c.Set(fiber.HeaderXRequestID, requestId)
		c.Locals(RequestIdKey, requestId)
		return c.Next()
	}
}

package middleware

import (
	"strings"
	"time"

	"github.com/go-arcade/guestline/pkg/http"
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// AccessLogMiddleware logs one structured line per request.
func AccessLogMiddleware(httpConfig http.Http) fiber.Handler {
	// tips: 这里的路径是不需要记录日志的路径，url为端口后的全部路径
	excludedPaths := []string{
		"/health",
		"/metrics",
	}

	if !httpConfig.AccessLog {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, rule := range excludedPaths {
			if strings.HasPrefix(path, rule) {
				return c.Next()
			}
		}

		start := time.Now()
		err := c.Next()

		log.Infow("HTTP request",
			"request_id", c.Locals(RequestIdKey),
			"method", c.Method(),
			"path", path,
			"status", c.Response().StatusCode(),
			"ip", c.IP(),
			"user_agent", c.Get(fiber.HeaderUserAgent),
			"latency", time.Since(start).String(),
		)
		return err
	}
}

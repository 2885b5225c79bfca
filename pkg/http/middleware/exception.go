package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/go-arcade/guestline/pkg/http"
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// ExceptionMiddleware 异常中间件
// 捕获 panic 错误，返回 500 状态码和错误信息
func ExceptionMiddleware(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("panic recovered",
				"request_id", c.Locals(RequestIdKey),
				"path", c.Path(),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			err = http.WithRepErr(c, fiber.StatusInternalServerError, http.InternalError, http.InternalError.Msg)
		}
	}()

	return c.Next()
}

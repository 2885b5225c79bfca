package middleware

import (
	"errors"
	"strings"

	"github.com/go-arcade/guestline/pkg/http"
	"github.com/go-arcade/guestline/pkg/http/auth/jwt"
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
)

// UserIdKey holds the verified caller id in fiber locals
const UserIdKey = "user_id"

// AuthorizationMiddleware 认证中间件
// secretKey: 用于验证 JWT 的密钥
func AuthorizationMiddleware(secretKey string) fiber.Handler {
	key := []byte(secretKey)
	if len(key) == 0 {
		log.Warn("http.auth.secretKey is empty, authenticated routes reject every request")
	}
	return func(c *fiber.Ctx) error {
		aToken := c.Get(fiber.HeaderAuthorization)
		if aToken == "" {
			return http.WithRepErr(c, fiber.StatusUnauthorized, http.TokenBeEmpty, http.TokenBeEmpty.Msg)
		}

		// 按空格分割
		parts := strings.SplitN(aToken, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return http.WithRepErr(c, fiber.StatusUnauthorized, http.TokenFormatIncorrect, http.TokenFormatIncorrect.Msg)
		}

		claims, err := jwt.ParseToken(parts[1], key)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return http.WithRepErr(c, fiber.StatusUnauthorized, http.TokenExpired, http.TokenExpired.Msg)
			}
			log.Warnw("parse token failed", "path", c.Path(), "error", err)
			return http.WithRepErr(c, fiber.StatusUnauthorized, http.InvalidToken, http.InvalidToken.Msg)
		}

		c.Locals(UserIdKey, claims.UserId)
		return c.Next()
	}
}

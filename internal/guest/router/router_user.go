package router

import (
	"github.com/go-arcade/guestline/internal/guest/model"
	httpx "github.com/go-arcade/guestline/pkg/http"
	"github.com/go-arcade/guestline/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) userRouter(r fiber.Router, auth fiber.Handler) {
	userGroup := r.Group("/user", auth)
	{
		userGroup.Get("/:userId/superadmin", rt.isSuperAdmin)
	}
}

// isSuperAdmin answers for the caller itself; asking about anyone else
// requires the caller to be a super admin
func (rt *Router) isSuperAdmin(c *fiber.Ctx) error {
	userId := c.Params("userId")
	if userId == "" {
		return httpx.WithRepErr(c, fiber.StatusBadRequest, httpx.BadRequest, "userId is required")
	}
	caller, _ := c.Locals(middleware.UserIdKey).(string)
	auth := rt.Services.Authorization
	if caller != userId && !auth.IsSuperAdmin(c.UserContext(), caller) {
		return httpx.WithRepErr(c, fiber.StatusForbidden, httpx.PermissionDenied, httpx.PermissionDenied.Msg)
	}
	return httpx.WithRepJSON(c, &model.SuperAdminResp{
		UserId:     userId,
		SuperAdmin: auth.IsSuperAdmin(c.UserContext(), userId),
	})
}

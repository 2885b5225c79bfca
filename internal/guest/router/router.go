package router

import (
	"github.com/go-arcade/guestline/internal/guest/service"
	httpx "github.com/go-arcade/guestline/pkg/http"
	"github.com/go-arcade/guestline/pkg/http/middleware"
	"github.com/go-arcade/guestline/pkg/metrics"
	"github.com/go-arcade/guestline/pkg/shutdown"
	"github.com/go-arcade/guestline/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

/**
 * @file: router.go
 * @description: setup router
 *  		     guest api router
 */

const apiPrefix = "/api/v1"

type Router struct {
	Http     httpx.Http
	Services *service.Services
	Metrics  *metrics.Server
	Shutdown *shutdown.Manager
}

func NewRouter(httpConf httpx.Http, services *service.Services, metricsServer *metrics.Server, sd *shutdown.Manager) *Router {
	return &Router{
		Http:     httpConf,
		Services: services,
		Metrics:  metricsServer,
		Shutdown: sd,
	}
}

// Router mounts every route on app
func (rt *Router) Router(app *fiber.App) *fiber.App {
	app.Use(middleware.RequestMiddleware())

	// panic recover
	app.Use(middleware.ExceptionMiddleware)

	if rt.Http.AccessLog {
		app.Use(middleware.AccessLogMiddleware(rt.Http))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		// load balancers stop routing here once draining starts
		if rt.Shutdown != nil && rt.Shutdown.IsShuttingDown() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
		}
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	if rt.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(rt.Metrics.Handler()))
	}

	// callers of admin routes are identified by a bearer token
	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey)

	api := app.Group(apiPrefix)
	{
		rt.guestRouter(api, auth)
		rt.userRouter(api, auth)
	}

	return app
}

// bind parses the body into req and validates it. On false the error
// response has already been written.
func (rt *Router) bind(c *fiber.Ctx, req any) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, httpx.WithRepErr(c, fiber.StatusBadRequest, httpx.RequestParameterParsingFailed, err.Error())
	}
	if err := rt.Services.Validate.Struct(req); err != nil {
		return false, httpx.WithRepErr(c, fiber.StatusBadRequest, httpx.BadRequest, err.Error())
	}
	return true, nil
}

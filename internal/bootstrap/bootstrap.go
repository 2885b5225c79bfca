package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-arcade/guestline/internal/guest/config"
	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/go-arcade/guestline/internal/guest/router"
	"github.com/go-arcade/guestline/pkg/database"
	httpx "github.com/go-arcade/guestline/pkg/http"
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/go-arcade/guestline/pkg/metrics"
	"github.com/go-arcade/guestline/pkg/shutdown"
	"github.com/gofiber/fiber/v2"
)

type App struct {
	HttpApp *fiber.App
	Metrics *metrics.Server
	Logger  *log.Logger
	DB      database.Manager
	AppConf *config.AppConfig
	Drain   *shutdown.Manager
}

// InitAppFunc init app function type
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	httpApp *fiber.App,
	metricsServer *metrics.Server,
	logger *log.Logger,
	db database.Manager,
	appConf *config.AppConfig,
	drain *shutdown.Manager,
) (*App, func(), error) {
	rt.Router(httpApp)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Stop(ctx); err != nil {
			log.Errorw("failed to stop metrics server", "error", err)
		}
	}

	app := &App{
		HttpApp: httpApp,
		Metrics: metricsServer,
		Logger:  logger,
		DB:      db,
		AppConf: appConf,
		Drain:   drain,
	}
	return app, cleanup, nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	// tables must be registered before the database manager migrates
	model.RegisterModels()

	// Wire build App
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	appConf := app.AppConf

	if err := app.Metrics.Start(); err != nil {
		log.Errorw("metrics server failed to start", "error", err)
	}

	shutdownHttp := httpx.Serve(appConf.Http, app.HttpApp)

	// set signal listener (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// wait for exit signal
	sig := <-quit
	log.Infof("Received signal: %v, shutting down gracefully...", sig)

	// /health reports 503 from here on
	app.Drain.Shutdown()

	// close HTTP server first so no request outlives its stores
	shutdownHttp()

	// close metrics, database and redis
	cleanup()

	log.Info("Server shutdown complete")
	_ = log.Sync()
}

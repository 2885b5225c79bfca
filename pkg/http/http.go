package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-arcade/guestline/pkg/log"
	"github.com/go-arcade/guestline/pkg/safe"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: http.go
 * @description: fiber server construction and lifecycle
 */

type Http struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	AccessLog       bool   `mapstructure:"accessLog"`
	BodyLimit       int    `mapstructure:"bodyLimit"`
	ReadTimeout     int    `mapstructure:"readTimeout"`
	WriteTimeout    int    `mapstructure:"writeTimeout"`
	IdleTimeout     int    `mapstructure:"idleTimeout"`
	ShutdownTimeout int    `mapstructure:"shutdownTimeout"`
	Auth            Auth   `mapstructure:"auth"`
}

type Auth struct {
	SecretKey string `mapstructure:"secretKey"`
	// AccessExpire is the lifetime of issued access tokens in minutes
	AccessExpire int `mapstructure:"accessExpire"`
}

// SetDefaults fills zero values with the server defaults.
func (h *Http) SetDefaults() {
	if h.Host == "" {
		h.Host = "0.0.0.0"
	}
	if h.Port == 0 {
		h.Port = 8080
	}
	if h.BodyLimit <= 0 {
		h.BodyLimit = 1 << 20
	}
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 10
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 10
	}
	if h.IdleTimeout <= 0 {
		h.IdleTimeout = 60
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 30
	}
	if h.Auth.AccessExpire <= 0 {
		h.Auth.AccessExpire = 60
	}
}

func (h Http) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// NewFiberApp creates the fiber app; handler errors are rendered as Response bodies.
func NewFiberApp(cfg Http) *fiber.App {
	cfg.SetDefaults()
	return fiber.New(fiber.Config{
		AppName:               "guestline",
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimit,
		ReadTimeout:           time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(cfg.IdleTimeout) * time.Second,
		ErrorHandler:          ErrorHandler,
	})
}

// ErrorHandler maps errors escaping handlers to a Response with a matching HTTP status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return c.Status(fe.Code).JSON(NotFound)
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
			return c.Status(fe.Code).JSON(BadRequest)
		}
		return c.Status(fe.Code).JSON(Response{Code: fe.Code, Msg: fe.Message})
	}
	log.Errorw("unhandled request error", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(InternalError)
}

// Serve starts listening in the background and returns a shutdown hook.
func Serve(cfg Http, app *fiber.App) func() {
	cfg.SetDefaults()
	addr := cfg.Addr()
	safe.Go("http-listener", func() {
		log.Infow("HTTP listener started", "address", addr)
		if err := app.Listen(addr); err != nil {
			log.Errorw("HTTP listener failed", "address", addr, "error", err)
		}
	})

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Errorw("HTTP server shutdown error", "error", err)
			return
		}
		log.Info("HTTP server shut down gracefully")
	}
}

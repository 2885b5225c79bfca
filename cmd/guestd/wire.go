//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-arcade/guestline/internal/bootstrap"
	"github.com/go-arcade/guestline/internal/guest/config"
	"github.com/go-arcade/guestline/internal/guest/repo"
	"github.com/go-arcade/guestline/internal/guest/router"
	"github.com/go-arcade/guestline/internal/guest/service"
	"github.com/go-arcade/guestline/internal/pkg/notify"
	"github.com/go-arcade/guestline/pkg/cache"
	"github.com/go-arcade/guestline/pkg/database"
	"github.com/go-arcade/guestline/pkg/http"
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/go-arcade/guestline/pkg/metrics"
	"github.com/go-arcade/guestline/pkg/shutdown"
	"github.com/google/wire"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// 配置层
		config.ProviderSet,
		// 日志
		log.ProviderSet,
		// 存储层
		database.ProviderSet,
		cache.ProviderSet,
		// 指标
		metrics.ProviderSet,
		shutdown.ProviderSet,
		// 邮件
		notify.ProviderSet,
		// 仓储层
		repo.ProviderSet,
		// 服务层
		service.ProviderSet,
		// 路由层
		http.ProviderSet,
		router.ProviderSet,
		// 应用层
		bootstrap.NewApp,
	))
}

// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"github.com/go-arcade/guestline/internal/pkg/notify"
	"github.com/go-arcade/guestline/pkg/cache"
	"github.com/go-arcade/guestline/pkg/database"
	"github.com/go-arcade/guestline/pkg/http"
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/go-arcade/guestline/pkg/metrics"
	"github.com/google/wire"
)

// ProviderSet 提供配置层相关的依赖
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideHttpConfig,
	ProvideLogConfig,
	ProvideDatabaseConfig,
	ProvideRedisConfig,
	ProvideMetricsConfig,
	ProvideGuestPolicy,
	ProvideEmailConfig,
)

// ProvideConf 提供应用配置
func ProvideConf(configPath string) *AppConfig {
	c := NewConf(configPath)
	return &c
}

// ProvideHttpConfig 提供 HTTP 配置
func ProvideHttpConfig(appConf *AppConfig) http.Http {
	httpConfig := appConf.Http
	httpConfig.SetDefaults()
	return httpConfig
}

// ProvideLogConfig 提供日志配置
func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

// ProvideDatabaseConfig 提供数据库配置
func ProvideDatabaseConfig(appConf *AppConfig) database.Database {
	return appConf.Database
}

// ProvideRedisConfig 提供 Redis 配置
func ProvideRedisConfig(appConf *AppConfig) cache.Redis {
	return appConf.Redis
}

// ProvideMetricsConfig 提供 Metrics 配置
func ProvideMetricsConfig(appConf *AppConfig) metrics.MetricsConfig {
	return appConf.Metrics
}

// ProvideGuestPolicy 提供访客策略配置
func ProvideGuestPolicy(appConf *AppConfig) GuestPolicy {
	policy := appConf.Guest
	policy.SetDefaults()
	return policy
}

// ProvideEmailConfig 提供邮件配置
func ProvideEmailConfig(appConf *AppConfig) notify.EmailConfig {
	return appConf.Email
}

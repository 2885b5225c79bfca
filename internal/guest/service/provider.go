package service

import (
	"github.com/go-arcade/guestline/internal/guest/config"
	"github.com/go-arcade/guestline/internal/guest/repo"
	"github.com/go-arcade/guestline/internal/pkg/notify"
	"github.com/go-arcade/guestline/pkg/cache"
	"github.com/go-arcade/guestline/pkg/metrics"
	"github.com/google/wire"
)

// ProviderSet 提供服务层相关的依赖
var ProviderSet = wire.NewSet(ProvideServices)

// ProvideServices 提供统一的 Services 实例
func ProvideServices(
	repos *repo.Repositories,
	c cache.ICache,
	sender notify.IVerificationSender,
	policy config.GuestPolicy,
	m *metrics.GuestMetrics,
) *Services {
	return NewServices(repos, c, sender, policy, m)
}

package metrics

import (
	"github.com/google/wire"
)

// ProviderSet is a Wire provider set for metrics
var ProviderSet = wire.NewSet(
	NewMetricsServer,
	ProvideGuestMetrics,
)

// NewMetricsServer creates a new metrics server from config
func NewMetricsServer(config MetricsConfig) *Server {
	return NewServer(config)
}

// ProvideGuestMetrics registers the workflow collectors on the server registry
func ProvideGuestMetrics(server *Server) (*GuestMetrics, error) {
	return NewGuestMetrics(server.GetRegistry())
}

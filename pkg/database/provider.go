package database

import (
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	ProvideManager,
	ProvideIDatabase,
)

// ProvideManager opens the pool and closes it on cleanup.
func ProvideManager(conf Database, logger *log.Logger) (Manager, func(), error) {
	m, err := NewManager(conf)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := m.Close(); err != nil {
			logger.Log.Errorw("failed to close database", "error", err)
		}
	}
	return m, cleanup, nil
}

func ProvideIDatabase(m Manager) IDatabase {
	return m
}

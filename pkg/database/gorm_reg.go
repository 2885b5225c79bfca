package database

import (
	"sync"

	"gorm.io/gorm"
)

var (
	registryMu       sync.Mutex
	registeredModels []any
)

// RegisterModels registers the given models for Gorm auto migration.
func RegisterModels(models ...any) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registeredModels = append(registeredModels, models...)
}

// AutoMigrate migrates every registered model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(GetRegisteredModels()...)
}

// GetRegisteredModels returns the registered models for Gorm.
func GetRegisteredModels() []any {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]any, len(registeredModels))
	copy(out, registeredModels)
	return out
}

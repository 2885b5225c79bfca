package model

import (
	"time"

	"github.com/go-arcade/guestline/pkg/database"
)

/**
 * @file: model.go
 * @description: base model and schema registration
 */

type BaseModel struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// RegisterModels registers every table of the service for AutoMigrate.
func RegisterModels() {
	database.RegisterModels(
		&GuestUser{},
		&UserGroupMember{},
		&Invitation{},
		&VerificationCode{},
		&LicenseAssignment{},
		&LicenseInventory{},
	)
}

package model

import "time"

/**
 * @file: model_license.go
 * @description: license inventory and per-user assignments
 */

// LicenseAssignment binds one seat to one user; user_id is unique so a
// second assignment for the same user fails at the store.
type LicenseAssignment struct {
	BaseModel
	AssignmentId string    `gorm:"column:assignment_id;size:32;not null;uniqueIndex" json:"assignmentId"`
	UserId       string    `gorm:"column:user_id;size:64;not null;uniqueIndex:uk_license_user" json:"userId"`
	TenantId     string    `gorm:"column:tenant_id;size:64;not null" json:"tenantId"`
	LicenseType  string    `gorm:"column:license_type;size:64;not null" json:"licenseType"`
	AssignedAt   time.Time `gorm:"column:assigned_at;not null" json:"assignedAt"`
}

func (LicenseAssignment) TableName() string {
	return "t_license_assignment"
}

type LicenseInventory struct {
	BaseModel
	TenantId    string `gorm:"column:tenant_id;size:64;not null;uniqueIndex:uk_tenant_license,priority:1" json:"tenantId"`
	LicenseType string `gorm:"column:license_type;size:64;not null;uniqueIndex:uk_tenant_license,priority:2" json:"licenseType"`
	Total       int    `gorm:"column:total;not null" json:"total"`
	Available   int    `gorm:"column:available;not null" json:"available"`
}

func (LicenseInventory) TableName() string {
	return "t_license_inventory"
}

package model

import "time"

/**
 * @file: model_verification_code.go
 * @description: email verification codes
 */

type VerificationCode struct {
	BaseModel
	CodeId     string     `gorm:"column:code_id;size:32;not null;uniqueIndex" json:"codeId"`
	UserId     string     `gorm:"column:user_id;size:64;not null;index:idx_user_active,priority:1" json:"userId"`
	Code       string     `gorm:"column:code;size:32;not null" json:"-"`
	IssuedAt   time.Time  `gorm:"column:issued_at;not null" json:"issuedAt"`
	ExpiresAt  time.Time  `gorm:"column:expires_at;not null" json:"expiresAt"`
	ConsumedAt *time.Time `gorm:"column:consumed_at;index:idx_user_active,priority:2" json:"consumedAt"`
}

func (VerificationCode) TableName() string {
	return "t_verification_code"
}

// IsActive reports an unconsumed, unexpired code.
func (c *VerificationCode) IsActive(now time.Time) bool {
	return c.ConsumedAt == nil && now.Before(c.ExpiresAt)
}

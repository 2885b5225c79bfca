package model

import "slices"

/**
 * @file: model_guest_user.go
 * @description: guest user model
 */

type UserType string

const (
	UserTypeGuest  UserType = "guest"
	UserTypeMember UserType = "member"
)

// GuestUser is a tenant scoped account. Version is bumped on every
// verification write and used as the compare-and-set token.
type GuestUser struct {
	BaseModel
	UserId                     string   `gorm:"column:user_id;size:64;not null;uniqueIndex:uk_user_id" json:"userId"`
	TenantId                   string   `gorm:"column:tenant_id;size:64;not null;uniqueIndex:uk_tenant_email,priority:1;uniqueIndex:uk_tenant_username,priority:1" json:"tenantId"`
	Email                      string   `gorm:"column:email;size:255;not null;uniqueIndex:uk_tenant_email,priority:2;index:idx_email" json:"email"`
	Username                   string   `gorm:"column:username;size:128;not null;uniqueIndex:uk_tenant_username,priority:2" json:"username"`
	FirstName                  string   `gorm:"column:first_name;size:128" json:"firstName"`
	LastName                   string   `gorm:"column:last_name;size:128" json:"lastName"`
	Password                   string   `gorm:"column:password;size:255" json:"-"`
	UserType                   UserType `gorm:"column:user_type;size:16;not null;default:guest" json:"userType"`
	LicenseType                *string  `gorm:"column:license_type;size:64" json:"licenseType"`
	EmailVerified              bool     `gorm:"column:email_verified;not null;default:false" json:"emailVerified"`
	IsLocked                   bool     `gorm:"column:is_locked;not null;default:false" json:"isLocked"`
	FailedVerificationAttempts int      `gorm:"column:failed_verification_attempts;not null;default:0" json:"failedVerificationAttempts"`
	Version                    int64    `gorm:"column:version;not null;default:0" json:"-"`
	GroupIds                   []string `gorm:"-" json:"groupIds"`
}

func (GuestUser) TableName() string {
	return "t_guest_user"
}

func (u *GuestUser) IsGuest() bool {
	return u.UserType == UserTypeGuest
}

func (u *GuestUser) InGroup(groupId string) bool {
	return slices.Contains(u.GroupIds, groupId)
}

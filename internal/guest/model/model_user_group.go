package model

/**
 * @file: model_user_group.go
 * @description: user group membership
 */

// SuperAdminGroupId is the reserved group granting cross-tenant administration.
const SuperAdminGroupId = "superadmin"

type UserGroupMember struct {
	BaseModel
	UserId  string `gorm:"column:user_id;size:64;not null;uniqueIndex:uk_user_group,priority:1" json:"userId"`
	GroupId string `gorm:"column:group_id;size:64;not null;uniqueIndex:uk_user_group,priority:2;index:idx_group" json:"groupId"`
}

func (UserGroupMember) TableName() string {
	return "t_user_group_member"
}

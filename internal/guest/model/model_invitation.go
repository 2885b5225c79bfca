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

package model

import (
	"time"

	"github.com/go-arcade/guestline/pkg/statemachine"
)

// Invitation 租户邀请表
type Invitation struct {
	BaseModel
	InvitationId string                        `gorm:"column:invitation_id;size:32;not null;uniqueIndex" json:"invitationId"` // 邀请唯一标识
	TenantId     string                        `gorm:"column:tenant_id;size:64;not null;index:idx_tenant_email,priority:1" json:"tenantId"`
	Email        string                        `gorm:"column:email;size:255;not null;index:idx_tenant_email,priority:2" json:"email"` // 被邀请人邮箱
	Token        string                        `gorm:"column:token;size:64;not null" json:"-"`                                        // 邀请令牌
	InvitedBy    string                        `gorm:"column:invited_by;size:64" json:"invitedBy"`                                    // 邀请人用户ID
	Status       statemachine.InvitationStatus `gorm:"column:status;size:16;not null" json:"status"`
	ExpiresAt    time.Time                     `gorm:"column:expires_at;not null" json:"expiresAt"`
}

func (Invitation) TableName() string {
	return "t_invitation"
}

const (
	InvitationStatusPending  = statemachine.InvitationPending
	InvitationStatusAccepted = statemachine.InvitationAccepted
	InvitationStatusExpired  = statemachine.InvitationExpired
	InvitationStatusRevoked  = statemachine.InvitationRevoked
)

// IsUsable reports whether the invitation still admits a registration at now.
func (i *Invitation) IsUsable(now time.Time) bool {
	return i.Status == InvitationStatusPending && now.Before(i.ExpiresAt)
}

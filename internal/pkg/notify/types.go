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

package notify

import (
	"context"
	"time"
)

// DriverType selects how guest mails leave the service
type DriverType string

const (
	DriverSMTP    DriverType = "smtp"
	DriverWebhook DriverType = "webhook"
	DriverLog     DriverType = "log"
)

// VerificationMail carries a verification code to a prospective guest
type VerificationMail struct {
	Email       string
	FirstName   string
	Code        string
	RedirectUrl string
	ExpiresAt   time.Time
}

// InvitationMail carries an invitation token to an invited address
type InvitationMail struct {
	Email       string
	TenantId    string
	Token       string
	RedirectUrl string
	ExpiresAt   time.Time
}

// IVerificationSender is the outbound email collaborator of the guest workflows.
// Errors wrapped with retry.Permanent must not be retried.
type IVerificationSender interface {
	SendVerificationEmail(ctx context.Context, mail VerificationMail) error
	SendInvitationEmail(ctx context.Context, mail InvitationMail) error
}

// SMTPConfig 邮件服务器配置
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// WebhookConfig 邮件网关配置
type WebhookConfig struct {
	URL     string `mapstructure:"url"`
	Token   string `mapstructure:"token"`
	Timeout int    `mapstructure:"timeout"`
}

// EmailConfig 邮件发送配置
type EmailConfig struct {
	Driver  DriverType    `mapstructure:"driver"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

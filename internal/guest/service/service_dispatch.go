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

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arcade/guestline/internal/guest/config"
	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/go-arcade/guestline/internal/guest/repo"
	"github.com/go-arcade/guestline/internal/pkg/notify"
	"github.com/go-arcade/guestline/pkg/id"
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/go-arcade/guestline/pkg/metrics"
	"github.com/go-arcade/guestline/pkg/retry"
)

type VerificationDispatcher struct {
	codes   repo.IVerificationCodeRepository
	sender  notify.IVerificationSender
	policy  config.GuestPolicy
	metrics *metrics.GuestMetrics
	now     func() time.Time
}

func NewVerificationDispatcher(
	codes repo.IVerificationCodeRepository,
	sender notify.IVerificationSender,
	policy config.GuestPolicy,
	m *metrics.GuestMetrics,
) *VerificationDispatcher {
	return &VerificationDispatcher{
		codes:   codes,
		sender:  sender,
		policy:  policy,
		metrics: m,
		now:     time.Now,
	}
}

// DispatchVerification issues a fresh code for userId, replacing any active
// one, and mails it. Failures are *DispatchError.
func (d *VerificationDispatcher) DispatchVerification(ctx context.Context, userId, email, firstName, redirectUrl string) error {
	code, err := id.NumericCode(d.policy.CodeLength)
	if err != nil {
		d.metrics.IncDispatch(string(DispatchStagePersist))
		return &DispatchError{UserId: userId, Stage: DispatchStagePersist, Err: fmt.Errorf("generate code: %w", err)}
	}

	now := d.now()
	vc := &model.VerificationCode{
		CodeId:    id.GetXid(),
		UserId:    userId,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(d.policy.CodeExpiry),
	}
	if err := d.codes.Issue(ctx, vc); err != nil {
		d.metrics.IncDispatch(string(DispatchStagePersist))
		log.Errorw("failed to persist verification code", "userId", userId, "error", err)
		return &DispatchError{UserId: userId, Stage: DispatchStagePersist, Err: err}
	}

	mail := notify.VerificationMail{
		Email:       email,
		FirstName:   firstName,
		Code:        code,
		RedirectUrl: redirectUrl,
		ExpiresAt:   vc.ExpiresAt,
	}
	opts := append(sendRetryOptions(d.policy, "send verification email"), retry.WithOnRetry(func(attempt int, err error) {
		d.metrics.IncDispatch("retry")
		log.Warnw("verification email not sent, retrying", "userId", userId, "attempt", attempt, "error", err)
	}))
	err = retry.Do(ctx, func(ctx context.Context) error {
		return d.sender.SendVerificationEmail(ctx, mail)
	}, opts...)
	if err != nil {
		d.metrics.IncDispatch(string(DispatchStageSend))
		log.Errorw("failed to send verification email", "userId", userId, "codeId", vc.CodeId, "error", err)
		return &DispatchError{UserId: userId, Stage: DispatchStageSend, Err: err}
	}

	d.metrics.IncDispatch("sent")
	log.Infow("verification code sent", "userId", userId, "codeId", vc.CodeId, "expiresAt", vc.ExpiresAt)
	return nil
}

func sendRetryOptions(policy config.GuestPolicy, name string) []retry.Option {
	return []retry.Option{
		retry.WithMaxAttempts(policy.SendRetries),
		retry.WithBackoff(retry.Exponential(policy.SendBackoff, 10*policy.SendBackoff)),
		retry.WithJitter(retry.FullJitter),
		retry.WithName(name),
	}
}

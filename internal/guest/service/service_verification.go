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
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/go-arcade/guestline/internal/guest/config"
	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/go-arcade/guestline/internal/guest/repo"
	"github.com/go-arcade/guestline/pkg/cache"
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/go-arcade/guestline/pkg/metrics"
	"github.com/go-arcade/guestline/pkg/retry"
	"github.com/go-arcade/guestline/pkg/statemachine"
)

const (
	resendThrottleKeyPrefix = "guestline:verification:resend:"
	// attempts at the read-modify-write before giving up on a contended user
	verifyCASAttempts = 5
)

type VerificationService struct {
	users      repo.IGuestUserRepository
	codes      repo.IVerificationCodeRepository
	tx         repo.ITransactor
	dispatcher *VerificationDispatcher
	throttle   cache.ICache
	policy     config.GuestPolicy
	metrics    *metrics.GuestMetrics
	machine    *statemachine.StateMachine[statemachine.VerificationState]
	now        func() time.Time
}

func NewVerificationService(
	users repo.IGuestUserRepository,
	codes repo.IVerificationCodeRepository,
	tx repo.ITransactor,
	dispatcher *VerificationDispatcher,
	throttle cache.ICache,
	policy config.GuestPolicy,
	m *metrics.GuestMetrics,
) *VerificationService {
	return &VerificationService{
		users:      users,
		codes:      codes,
		tx:         tx,
		dispatcher: dispatcher,
		throttle:   throttle,
		policy:     policy,
		metrics:    m,
		machine:    statemachine.NewVerificationStateMachine(),
		now:        time.Now,
	}
}

// VerifyGuest checks submittedCode against the active code of the guest owning email
func (s *VerificationService) VerifyGuest(ctx context.Context, email, submittedCode string) VerifyGuestResponseCode {
	return s.VerifyTenantGuest(ctx, "", email, submittedCode)
}

// VerifyTenantGuest is VerifyGuest restricted to one tenant; an empty tenantId searches all tenants
func (s *VerificationService) VerifyTenantGuest(ctx context.Context, tenantId, email, submittedCode string) VerifyGuestResponseCode {
	start := time.Now()
	email = normalizeEmail(email)

	var result VerifyGuestResponseCode
	err := retry.Do(ctx, func(ctx context.Context) error {
		r, err := s.verifyOnce(ctx, tenantId, email, submittedCode)
		if err != nil {
			return err
		}
		result = r
		return nil
	},
		retry.WithMaxAttempts(verifyCASAttempts),
		retry.WithBackoff(retry.Exponential(5*time.Millisecond, 50*time.Millisecond)),
		retry.WithJitter(retry.FullJitter),
		retry.WithRetryIf(func(err error) bool { return errors.Is(err, repo.ErrConcurrentUpdate) }),
		retry.WithName("verify guest"),
	)
	if err != nil {
		log.Errorw("guest verification failed", "email", email, "tenantId", tenantId, "error", err)
		result = VerifyFailed
	}

	s.metrics.ObserveVerify(result.String(), start)
	return result
}

// verifyOnce runs one read-evaluate-write round. repo.ErrConcurrentUpdate
// means another request changed the user or consumed the code first.
func (s *VerificationService) verifyOnce(ctx context.Context, tenantId, email, submittedCode string) (VerifyGuestResponseCode, error) {
	users, err := s.users.ListByEmail(ctx, tenantId, email)
	if err != nil {
		return VerifyFailed, err
	}
	switch len(users) {
	case 0:
		return VerifySuccessNoUser, nil
	case 1:
		return s.verifyUser(ctx, users[0], submittedCode)
	}
	return s.verifyShared(ctx, users, submittedCode)
}

func (s *VerificationService) verifyUser(ctx context.Context, user *model.GuestUser, submittedCode string) (VerifyGuestResponseCode, error) {
	if code, done := verifyGate(user); done {
		return code, nil
	}

	active, err := s.activeCode(ctx, user.UserId)
	if err != nil {
		return VerifyFailed, err
	}
	if active == nil {
		return VerifyEmailVerificationNeeded, nil
	}

	state := statemachine.VerificationStateOf(user.EmailVerified, user.IsLocked)
	if subtle.ConstantTimeCompare([]byte(active.Code), []byte(submittedCode)) != 1 {
		return s.reject(ctx, user, state)
	}
	return s.accept(ctx, user, active, state)
}

// verifyShared handles an email held by accounts in several tenants. The
// account whose active code matches is verified. A miss is counted against
// none of them because the code's owner is unknown.
func (s *VerificationService) verifyShared(ctx context.Context, users []*model.GuestUser, submittedCode string) (VerifyGuestResponseCode, error) {
	awaiting := 0
	for _, user := range users {
		state := statemachine.VerificationStateOf(user.EmailVerified, user.IsLocked)
		if !user.IsGuest() || !s.machine.Can(state, statemachine.EventCodeAccepted) {
			continue
		}
		active, err := s.activeCode(ctx, user.UserId)
		if err != nil {
			return VerifyFailed, err
		}
		if active == nil {
			continue
		}
		awaiting++
		if subtle.ConstantTimeCompare([]byte(active.Code), []byte(submittedCode)) == 1 {
			return s.accept(ctx, user, active, state)
		}
	}
	if awaiting > 0 {
		log.Infow("verification code matched no account sharing the email", "accounts", len(users), "awaiting", awaiting)
		return VerifyInvalidCode, nil
	}

	for _, user := range users {
		if user.IsGuest() && user.EmailVerified && !user.IsLocked {
			return VerifySuccess, nil
		}
	}
	if code, done := verifyGate(users[0]); done {
		return code, nil
	}
	return VerifyEmailVerificationNeeded, nil
}

// verifyGate decides accounts that cannot take a code
func verifyGate(user *model.GuestUser) (VerifyGuestResponseCode, bool) {
	switch {
	case user.IsLocked:
		return VerifyUserIsLocked, true
	case !user.IsGuest():
		return VerifyInvalidNotGuest, true
	case user.EmailVerified:
		return VerifySuccess, true
	}
	return VerifyFailed, false
}

// activeCode returns the user's outstanding code, nil when none is usable
func (s *VerificationService) activeCode(ctx context.Context, userId string) (*model.VerificationCode, error) {
	active, err := s.codes.GetActive(ctx, userId)
	if err != nil || active == nil || !active.IsActive(s.now()) {
		return nil, err
	}
	return active, nil
}

func (s *VerificationService) accept(ctx context.Context, user *model.GuestUser, active *model.VerificationCode, state statemachine.VerificationState) (VerifyGuestResponseCode, error) {
	next, err := s.machine.Next(state, statemachine.EventCodeAccepted)
	if err != nil {
		return VerifyFailed, err
	}
	user.EmailVerified = next == statemachine.VerificationVerified
	user.FailedVerificationAttempts = 0
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		return s.codes.Consume(ctx, active.CodeId)
	})
	if err != nil {
		return VerifyFailed, err
	}
	log.Infow("guest email verified", "userId", user.UserId, "tenantId", user.TenantId)
	return VerifySuccess, nil
}

func (s *VerificationService) reject(ctx context.Context, user *model.GuestUser, state statemachine.VerificationState) (VerifyGuestResponseCode, error) {
	user.FailedVerificationAttempts++
	event := statemachine.EventCodeRejected
	if user.FailedVerificationAttempts >= s.policy.MaxVerificationAttempts {
		event = statemachine.EventAttemptsExhausted
	}
	next, err := s.machine.Next(state, event)
	if err != nil {
		return VerifyFailed, err
	}
	user.IsLocked = next == statemachine.VerificationLocked

	if err := s.users.Update(ctx, user); err != nil {
		return VerifyFailed, err
	}
	if user.IsLocked {
		log.Warnw("guest locked after failed verifications",
			"userId", user.UserId,
			"attempts", user.FailedVerificationAttempts,
		)
		return VerifyUserIsLocked, nil
	}
	log.Infow("invalid verification code", "userId", user.UserId, "attempts", user.FailedVerificationAttempts)
	return VerifyInvalidCode, nil
}

// ResendVerification reissues a code to every unverified, unlocked guest
// account holding email. Requests for the same account inside the resend
// interval are throttled.
func (s *VerificationService) ResendVerification(ctx context.Context, email, redirectUrl string) ResendVerificationResponseCode {
	email = normalizeEmail(email)
	users, err := s.users.ListByEmail(ctx, "", email)
	if err != nil {
		log.Errorw("failed to load user for resend", "email", email, "error", err)
		return ResendFailed
	}
	if len(users) == 0 {
		return ResendNoUser
	}

	var awaiting []*model.GuestUser
	for _, user := range users {
		state := statemachine.VerificationStateOf(user.EmailVerified, user.IsLocked)
		if user.IsGuest() && !s.machine.IsTerminal(state) {
			awaiting = append(awaiting, user)
		}
	}
	if len(awaiting) == 0 {
		switch user := users[0]; {
		case user.IsLocked:
			return ResendUserIsLocked
		case !user.IsGuest():
			return ResendInvalidNotGuest
		default:
			return ResendAlreadyVerified
		}
	}

	result := ResendThrottled
	for _, user := range awaiting {
		switch s.resendTo(ctx, user, redirectUrl) {
		case ResendFailed:
			result = ResendFailed
		case ResendSuccess:
			if result == ResendThrottled {
				result = ResendSuccess
			}
		}
	}
	return result
}

func (s *VerificationService) resendTo(ctx context.Context, user *model.GuestUser, redirectUrl string) ResendVerificationResponseCode {
	key := resendThrottleKeyPrefix + user.UserId
	held := false
	if s.throttle != nil {
		ok, err := s.throttle.SetNX(ctx, key, 1, s.policy.ResendInterval).Result()
		switch {
		case err != nil:
			log.Warnw("resend throttle unavailable, continuing", "userId", user.UserId, "error", err)
		case !ok:
			return ResendThrottled
		default:
			held = true
		}
	}

	if err := s.dispatcher.DispatchVerification(ctx, user.UserId, user.Email, user.FirstName, redirectUrl); err != nil {
		if held {
			// nothing was delivered, the guest may ask again right away
			if err := s.throttle.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
				log.Warnw("failed to release resend throttle", "userId", user.UserId, "error", err)
			}
		}
		return ResendFailed
	}
	return ResendSuccess
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

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
	"unicode"

	"github.com/go-arcade/guestline/internal/guest/config"
	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/go-arcade/guestline/internal/guest/repo"
	"github.com/go-arcade/guestline/pkg/event"
	"github.com/go-arcade/guestline/pkg/id"
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/go-arcade/guestline/pkg/metrics"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past 72 bytes
const maxPasswordBytes = 72

type ProvisionService struct {
	users       repo.IGuestUserRepository
	invitations repo.IInvitationRepository
	tx          repo.ITransactor
	license     *LicenseService
	dispatcher  *VerificationDispatcher
	bus         *event.EventBus
	validate    *validator.Validate
	policy      config.GuestPolicy
	metrics     *metrics.GuestMetrics
	now         func() time.Time
}

func NewProvisionService(
	users repo.IGuestUserRepository,
	invitations repo.IInvitationRepository,
	tx repo.ITransactor,
	license *LicenseService,
	dispatcher *VerificationDispatcher,
	bus *event.EventBus,
	validate *validator.Validate,
	policy config.GuestPolicy,
	m *metrics.GuestMetrics,
) *ProvisionService {
	return &ProvisionService{
		users:       users,
		invitations: invitations,
		tx:          tx,
		license:     license,
		dispatcher:  dispatcher,
		bus:         bus,
		validate:    validate,
		policy:      policy,
		metrics:     m,
		now:         time.Now,
	}
}

// ProvisionGuest registers an invited guest. Checks run in a fixed order and
// the first failing one decides the result. The user row and its license
// commit together or not at all.
func (s *ProvisionService) ProvisionGuest(ctx context.Context, req *model.ProvisionGuestReq) ProvisionResult {
	start := time.Now()
	res := s.provision(ctx, req)
	s.metrics.ObserveProvision(res.Code.String(), start)
	return res
}

func (s *ProvisionService) provision(ctx context.Context, req *model.ProvisionGuestReq) ProvisionResult {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return ProvisionResult{Code: ProvisionFirstOrLastNameIsNull}
	}

	email := normalizeEmail(req.Email)
	if !IsValidEmail(s.validate, email) {
		return ProvisionResult{Code: ProvisionInvalidEmail}
	}

	if req.Password == "" || req.PasswordConfirmation == "" || req.Password != req.PasswordConfirmation {
		return ProvisionResult{Code: ProvisionPasswordConfirmationError}
	}
	if !CheckPasswordPolicy(req.Password, s.policy.PasswordMinLength) {
		return ProvisionResult{Code: ProvisionInvalidPassword}
	}

	inv, err := s.invitations.GetPending(ctx, req.TenantId, email)
	if err != nil {
		log.Errorw("failed to load invitation", "tenantId", req.TenantId, "email", email, "error", err)
		return ProvisionResult{Code: ProvisionFailed}
	}
	if inv == nil || !inv.IsUsable(s.now()) {
		return ProvisionResult{Code: ProvisionUserNotInvited}
	}
	if req.InvitationToken != "" && subtle.ConstantTimeCompare([]byte(inv.Token), []byte(req.InvitationToken)) != 1 {
		log.Warnw("invitation token mismatch", "tenantId", req.TenantId, "invitationId", inv.InvitationId)
		return ProvisionResult{Code: ProvisionUserNotInvited}
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		// guests without a chosen handle sign in with their email
		username = email
	}
	existing, err := s.users.GetByEmailOrUsername(ctx, req.TenantId, email, username)
	if err != nil {
		log.Errorw("failed to check user uniqueness", "tenantId", req.TenantId, "error", err)
		return ProvisionResult{Code: ProvisionFailed}
	}
	if existing != nil {
		return ProvisionResult{Code: ProvisionUserExists}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorw("failed to hash password", "error", err)
		return ProvisionResult{Code: ProvisionFailed}
	}
	user := &model.GuestUser{
		UserId:        id.GetUUID(),
		TenantId:      req.TenantId,
		Email:         email,
		Username:      username,
		FirstName:     firstName,
		LastName:      lastName,
		Password:      string(hash),
		UserType:      model.UserTypeGuest,
		EmailVerified: !s.policy.RequireEmailVerification,
	}
	assigned := false
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		if _, err := s.license.AssignLicense(ctx, user.UserId, s.policy.DefaultLicenseType); err != nil {
			return err
		}
		assigned = true
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateUser) {
			// lost the race against a concurrent registration
			return ProvisionResult{Code: ProvisionUserExists}
		}
		var lae *LicenseAssignmentError
		if !errors.As(err, &lae) {
			log.Errorw("failed to create guest user", "tenantId", req.TenantId, "error", err)
		}
		if assigned {
			// the commit itself failed, its outcome is unknown
			s.rollback(ctx, user.UserId)
		}
		return ProvisionResult{Code: ProvisionFailed}
	}

	provisioned := &GuestProvisionedEvent{
		UserId:       user.UserId,
		TenantId:     user.TenantId,
		Email:        email,
		InvitationId: inv.InvitationId,
	}

	if !s.policy.RequireEmailVerification {
		s.publish(ctx, provisioned)
		log.Infow("guest provisioned", "userId", user.UserId, "tenantId", user.TenantId)
		return ProvisionResult{Code: ProvisionSuccess, UserId: user.UserId}
	}

	if err := s.dispatcher.DispatchVerification(ctx, user.UserId, email, firstName, req.RedirectUrl); err != nil {
		// account stays licensed; the guest can ask for another code
		var de *DispatchError
		if errors.As(err, &de) {
			log.Errorw("guest provisioned but verification dispatch failed",
				"userId", user.UserId,
				"stage", de.Stage,
				"canRetrySend", de.CanRetrySend(),
			)
		}
		return ProvisionResult{Code: ProvisionFailed, UserId: user.UserId}
	}

	s.publish(ctx, provisioned)
	log.Infow("guest provisioned, verification pending", "userId", user.UserId, "tenantId", user.TenantId)
	return ProvisionResult{Code: ProvisionSucessEmailVerificationNeeded, UserId: user.UserId}
}

// rollback removes whatever a failed commit may have left behind. It runs
// detached from the request so a cancelled caller cannot leave a
// half-provisioned account.
func (s *ProvisionService) rollback(ctx context.Context, userId string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.license.ReleaseLicense(ctx, userId); err != nil {
		log.Errorw("rollback: release license failed", "userId", userId, "error", err)
	}
	if err := s.users.Delete(ctx, userId); err != nil {
		log.Errorw("rollback: delete user failed", "userId", userId, "error", err)
		return
	}
	log.Warnw("guest provisioning rolled back", "userId", userId)
}

func (s *ProvisionService) publish(ctx context.Context, ev event.Event) {
	if s.bus == nil {
		return
	}
	if failed := s.bus.Publish(ctx, ev); failed > 0 {
		log.Warnw("provisioned event handlers failed", "event", ev.EventName(), "failed", failed)
	}
}

// IsValidEmail reports whether email is a well-formed address
func IsValidEmail(v *validator.Validate, email string) bool {
	return email != "" && v.Var(email, "required,email") == nil
}

// CheckPasswordPolicy requires minLength characters with an upper case
// letter, a lower case letter and a digit
func CheckPasswordPolicy(password string, minLength int) bool {
	if len([]rune(password)) < minLength || len(password) > maxPasswordBytes {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

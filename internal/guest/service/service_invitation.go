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
	"errors"
	"fmt"
	"time"

	"github.com/go-arcade/guestline/internal/guest/config"
	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/go-arcade/guestline/internal/guest/repo"
	"github.com/go-arcade/guestline/internal/pkg/notify"
	"github.com/go-arcade/guestline/pkg/event"
	"github.com/go-arcade/guestline/pkg/id"
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/go-arcade/guestline/pkg/retry"
	"github.com/go-arcade/guestline/pkg/statemachine"
	"github.com/go-playground/validator/v10"
)

type InvitationService struct {
	users       repo.IGuestUserRepository
	invitations repo.IInvitationRepository
	auth        *AuthorizationService
	sender      notify.IVerificationSender
	validate    *validator.Validate
	policy      config.GuestPolicy
	machine     *statemachine.StateMachine[statemachine.InvitationStatus]
	now         func() time.Time
}

func NewInvitationService(
	users repo.IGuestUserRepository,
	invitations repo.IInvitationRepository,
	auth *AuthorizationService,
	sender notify.IVerificationSender,
	validate *validator.Validate,
	policy config.GuestPolicy,
) *InvitationService {
	return &InvitationService{
		users:       users,
		invitations: invitations,
		auth:        auth,
		sender:      sender,
		validate:    validate,
		policy:      policy,
		machine:     statemachine.NewInvitationStateMachine(),
		now:         time.Now,
	}
}

// CreateGuest invites email into tenantId on behalf of a super admin
func (s *InvitationService) CreateGuest(ctx context.Context, req *model.CreateGuestReq) CreateGuestResponseCode {
	if !s.auth.IsSuperAdmin(ctx, req.ActorUserId) {
		log.Warnw("guest invitation denied", "actorUserId", req.ActorUserId, "tenantId", req.TenantId)
		return CreateGuestNotAuthorized
	}

	email := normalizeEmail(req.Email)
	if !IsValidEmail(s.validate, email) {
		return CreateGuestInvalidEmail
	}

	existing, err := s.users.FindByEmail(ctx, req.TenantId, email)
	if err != nil {
		log.Errorw("failed to look up invitee", "tenantId", req.TenantId, "error", err)
		return CreateGuestFailed
	}
	if existing != nil {
		return CreateGuestUserExists
	}

	now := s.now()
	pending, err := s.invitations.GetPending(ctx, req.TenantId, email)
	if err != nil {
		log.Errorw("failed to load pending invitation", "tenantId", req.TenantId, "error", err)
		return CreateGuestFailed
	}
	if pending != nil {
		if pending.IsUsable(now) {
			return CreateGuestAlreadyInvited
		}
		// stale pending row, retire it before issuing a new one
		if err := s.transition(ctx, pending, statemachine.EventInvitationExpired); err != nil {
			log.Warnw("failed to expire stale invitation", "invitationId", pending.InvitationId, "error", err)
		}
	}

	inv := &model.Invitation{
		InvitationId: id.GetUlid(),
		TenantId:     req.TenantId,
		Email:        email,
		Token:        id.GetUUIDWithoutDashes(),
		InvitedBy:    req.ActorUserId,
		Status:       model.InvitationStatusPending,
		ExpiresAt:    now.Add(s.policy.InvitationExpiry),
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		log.Errorw("failed to create invitation", "tenantId", req.TenantId, "error", err)
		return CreateGuestFailed
	}

	mail := notify.InvitationMail{
		Email:       email,
		TenantId:    req.TenantId,
		Token:       inv.Token,
		RedirectUrl: req.RedirectUrl,
		ExpiresAt:   inv.ExpiresAt,
	}
	err = retry.Do(ctx, func(ctx context.Context) error {
		return s.sender.SendInvitationEmail(ctx, mail)
	}, sendRetryOptions(s.policy, "send invitation email")...)
	if err != nil {
		log.Errorw("failed to send invitation email", "invitationId", inv.InvitationId, "error", err)
		// revoke so the admin can invite again
		if err := s.transition(context.WithoutCancel(ctx), inv, statemachine.EventInvitationRevoked); err != nil {
			log.Errorw("failed to revoke unsent invitation", "invitationId", inv.InvitationId, "error", err)
		}
		return CreateGuestFailed
	}

	log.Infow("guest invited",
		"invitationId", inv.InvitationId,
		"tenantId", req.TenantId,
		"invitedBy", req.ActorUserId,
	)
	return CreateGuestSuccess
}

func (s *InvitationService) transition(ctx context.Context, inv *model.Invitation, ev statemachine.Event) error {
	next, err := s.machine.Next(inv.Status, ev)
	if err != nil {
		return err
	}
	if err := s.invitations.UpdateStatus(ctx, inv.InvitationId, inv.Status, next); err != nil {
		return err
	}
	inv.Status = next
	return nil
}

// Handle marks the invitation used by a provisioned guest as accepted
func (s *InvitationService) Handle(ctx context.Context, ev event.Event) error {
	provisioned, ok := ev.(*GuestProvisionedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", ev)
	}
	if provisioned.InvitationId == "" {
		return nil
	}
	inv := &model.Invitation{InvitationId: provisioned.InvitationId, Status: model.InvitationStatusPending}
	err := s.transition(ctx, inv, statemachine.EventInvitationAccepted)
	if errors.Is(err, repo.ErrConcurrentUpdate) {
		log.Debugw("invitation already left pending", "invitationId", provisioned.InvitationId)
		return nil
	}
	if err != nil {
		return fmt.Errorf("accept invitation %s: %w", provisioned.InvitationId, err)
	}
	log.Infow("invitation accepted", "invitationId", provisioned.InvitationId, "userId", provisioned.UserId)
	return nil
}

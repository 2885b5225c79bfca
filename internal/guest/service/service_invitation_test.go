package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminId = "admin-1"

func newInviteHarness() *harness {
	h := newHarness()
	h.store.putUser(model.GuestUser{
		UserId:   adminId,
		TenantId: tenantT,
		Email:    "root@x.com",
		UserType: model.UserTypeMember,
		GroupIds: []string{model.SuperAdminGroupId},
	})
	return h
}

func inviteReq(email string) *model.CreateGuestReq {
	return &model.CreateGuestReq{ActorUserId: adminId, TenantId: tenantT, Email: email, RedirectUrl: "https://app/join"}
}

func TestCreateGuest(t *testing.T) {
	ctx := context.Background()
	h := newInviteHarness()

	assert.Equal(t, CreateGuestSuccess, h.svc.Invitation.CreateGuest(ctx, inviteReq(" New@X.com")))

	inv, err := h.store.repositories().Invitations.GetPending(ctx, tenantT, "new@x.com")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, adminId, inv.InvitedBy)
	assert.NotEmpty(t, inv.Token)
	assert.True(t, inv.IsUsable(time.Now()))
	assert.WithinDuration(t, time.Now().Add(testPolicy().InvitationExpiry), inv.ExpiresAt, time.Minute)

	require.Len(t, h.sender.invitations, 1)
	assert.Equal(t, inv.Token, h.sender.invitations[0].Token)
	assert.Equal(t, "new@x.com", h.sender.invitations[0].Email)

	assert.Equal(t, CreateGuestAlreadyInvited, h.svc.Invitation.CreateGuest(ctx, inviteReq("new@x.com")))
}

func TestCreateGuest_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("not authorized", func(t *testing.T) {
		h := newInviteHarness()
		h.store.putUser(model.GuestUser{UserId: "plain", TenantId: tenantT, Email: "p@x.com"})
		req := inviteReq("new@x.com")
		req.ActorUserId = "plain"
		assert.Equal(t, CreateGuestNotAuthorized, h.svc.Invitation.CreateGuest(ctx, req))

		req.ActorUserId = "ghost"
		assert.Equal(t, CreateGuestNotAuthorized, h.svc.Invitation.CreateGuest(ctx, req))
		assert.Zero(t, h.store.invitationCount())
	})

	t.Run("invalid email", func(t *testing.T) {
		h := newInviteHarness()
		assert.Equal(t, CreateGuestInvalidEmail, h.svc.Invitation.CreateGuest(ctx, inviteReq("nope")))
	})

	t.Run("user exists", func(t *testing.T) {
		h := newInviteHarness()
		h.store.putUser(model.GuestUser{UserId: "u1", TenantId: tenantT, Email: "a@x.com"})
		assert.Equal(t, CreateGuestUserExists, h.svc.Invitation.CreateGuest(ctx, inviteReq("a@x.com")))
	})

	t.Run("send failure revokes", func(t *testing.T) {
		h := newInviteHarness()
		h.sender.err = errors.New("smtp down")
		assert.Equal(t, CreateGuestFailed, h.svc.Invitation.CreateGuest(ctx, inviteReq("a@x.com")))

		pending, err := h.store.repositories().Invitations.GetPending(ctx, tenantT, "a@x.com")
		require.NoError(t, err)
		assert.Nil(t, pending)

		h.sender.err = nil
		assert.Equal(t, CreateGuestSuccess, h.svc.Invitation.CreateGuest(ctx, inviteReq("a@x.com")))
	})
}

func TestCreateGuest_ExpiredPendingIsReplaced(t *testing.T) {
	ctx := context.Background()
	h := newInviteHarness()
	h.store.putInvitation(model.Invitation{
		InvitationId: "stale",
		TenantId:     tenantT,
		Email:        "a@x.com",
		Status:       model.InvitationStatusPending,
		ExpiresAt:    time.Now().Add(-time.Hour),
	})

	assert.Equal(t, CreateGuestSuccess, h.svc.Invitation.CreateGuest(ctx, inviteReq("a@x.com")))

	stale, _ := h.store.invitation("stale")
	assert.Equal(t, model.InvitationStatusExpired, stale.Status)
	assert.Equal(t, 2, h.store.invitationCount())
}

func TestInvitationAcceptor(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.invite(tenantT, "a@x.com")

	ev := &GuestProvisionedEvent{UserId: "u1", TenantId: tenantT, Email: "a@x.com", InvitationId: "inv-a@x.com"}
	require.NoError(t, h.svc.Invitation.Handle(ctx, ev))
	inv, _ := h.store.invitation("inv-a@x.com")
	assert.Equal(t, model.InvitationStatusAccepted, inv.Status)

	// a second delivery is harmless
	require.NoError(t, h.svc.Invitation.Handle(ctx, ev))
	assert.Zero(t, h.svc.Bus.Publish(ctx, ev))
}

func TestResultNames(t *testing.T) {
	assert.Equal(t, "SucessEmailVerificationNeeded", ProvisionSucessEmailVerificationNeeded.String())
	assert.Equal(t, "UserNotInvited", ProvisionUserNotInvited.String())
	assert.Equal(t, "SuccessNoUser", VerifySuccessNoUser.String())
	assert.Equal(t, "EmailVerificationNeeded", VerifyEmailVerificationNeeded.String())
	assert.Equal(t, "AlreadyInvited", CreateGuestAlreadyInvited.String())
	assert.Equal(t, "Throttled", ResendThrottled.String())
	assert.Equal(t, "Unknown", ProvisionGuestUserReturnCode(99).String())
}

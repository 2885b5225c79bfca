package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/go-arcade/guestline/internal/guest/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignLicense(t *testing.T) {
	tests := []struct {
		name       string
		seats      int
		preassign  bool
		reserveErr error
		userId     string
		wantReason LicenseFailureReason
		wantErr    error
	}{
		{name: "assigned", seats: 2, userId: "u1"},
		{name: "no seats", seats: 0, userId: "u1", wantReason: LicenseNoSeats, wantErr: repo.ErrNoSeats},
		{name: "double assignment", seats: 2, preassign: true, userId: "u1", wantReason: LicenseAlreadyAssigned, wantErr: repo.ErrAlreadyAssigned},
		{name: "store unavailable", seats: 2, reserveErr: errStoreDown, userId: "u1", wantReason: LicenseStoreUnavailable, wantErr: errStoreDown},
		{name: "unknown user", seats: 2, userId: "ghost", wantReason: LicenseUserNotFound, wantErr: repo.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			ctx := context.Background()
			h.store.putUser(model.GuestUser{UserId: "u1", TenantId: tenantT, Email: "a@x.com"})
			h.store.setSeats(tenantT, "guest", tt.seats)
			if tt.preassign {
				_, err := h.svc.License.AssignLicense(ctx, "u1", "guest")
				require.NoError(t, err)
			}
			h.store.reserveErr = tt.reserveErr

			a, err := h.svc.License.AssignLicense(ctx, tt.userId, "guest")
			if tt.wantReason == "" {
				require.NoError(t, err)
				assert.Equal(t, "u1", a.UserId)
				assert.Equal(t, tenantT, a.TenantId)
				assert.Equal(t, 1, h.store.seats(tenantT, "guest"))
				u, _ := h.store.user("u1")
				require.NotNil(t, u.LicenseType)
				assert.Equal(t, "guest", *u.LicenseType)
				return
			}

			require.Error(t, err)
			assert.Nil(t, a)
			var lae *LicenseAssignmentError
			require.True(t, errors.As(err, &lae))
			assert.Equal(t, tt.userId, lae.UserId)
			assert.Equal(t, tt.wantReason, lae.Reason)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAssignLicense_DoubleAssignmentKeepsInventory(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.store.putUser(model.GuestUser{UserId: "u1", TenantId: tenantT})
	h.store.setSeats(tenantT, "guest", 3)

	_, err := h.svc.License.AssignLicense(ctx, "u1", "guest")
	require.NoError(t, err)
	_, err = h.svc.License.AssignLicense(ctx, "u1", "guest")
	require.Error(t, err)

	assert.Equal(t, 2, h.store.seats(tenantT, "guest"))
}

func TestAssignLicense_HolderOfLastSeatIsAlreadyAssigned(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.store.putUser(model.GuestUser{UserId: "u1", TenantId: tenantT})
	h.store.setSeats(tenantT, "guest", 1)

	_, err := h.svc.License.AssignLicense(ctx, "u1", "guest")
	require.NoError(t, err)
	require.Zero(t, h.store.seats(tenantT, "guest"))

	_, err = h.svc.License.AssignLicense(ctx, "u1", "guest")
	var lae *LicenseAssignmentError
	require.True(t, errors.As(err, &lae))
	assert.Equal(t, LicenseAlreadyAssigned, lae.Reason)
}

func TestReleaseLicense_Idempotent(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.store.putUser(model.GuestUser{UserId: "u1", TenantId: tenantT})
	h.store.setSeats(tenantT, "guest", 1)

	// releasing an unlicensed user is a no-op
	require.NoError(t, h.svc.License.ReleaseLicense(ctx, "u1"))
	assert.Equal(t, 1, h.store.seats(tenantT, "guest"))

	_, err := h.svc.License.AssignLicense(ctx, "u1", "guest")
	require.NoError(t, err)
	assert.Zero(t, h.store.seats(tenantT, "guest"))

	require.NoError(t, h.svc.License.ReleaseLicense(ctx, "u1"))
	require.NoError(t, h.svc.License.ReleaseLicense(ctx, "u1"))
	assert.Equal(t, 1, h.store.seats(tenantT, "guest"))

	u, _ := h.store.user("u1")
	assert.Nil(t, u.LicenseType)
}

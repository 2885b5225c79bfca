package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedGuest stores an unverified guest with an active code and returns the code
func (h *harness) seedGuest(t *testing.T, userId, email string) string {
	t.Helper()
	return h.seedTenantGuest(t, tenantT, userId, email)
}

func (h *harness) seedTenantGuest(t *testing.T, tenantId, userId, email string) string {
	t.Helper()
	h.store.putUser(model.GuestUser{UserId: userId, TenantId: tenantId, Email: email, Username: userId, FirstName: "Ada"})
	require.NoError(t, h.svc.Dispatcher.DispatchVerification(context.Background(), userId, email, "Ada", ""))
	return h.sender.lastCode()
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func TestVerifyGuest_Outcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("no user", func(t *testing.T) {
		h := newHarness()
		assert.Equal(t, VerifySuccessNoUser, h.svc.Verification.VerifyGuest(ctx, "ghost@x.com", "123456"))
	})

	t.Run("locked", func(t *testing.T) {
		h := newHarness()
		h.store.putUser(model.GuestUser{UserId: "u1", TenantId: tenantT, Email: "a@x.com", IsLocked: true})
		assert.Equal(t, VerifyUserIsLocked, h.svc.Verification.VerifyGuest(ctx, "a@x.com", "123456"))
	})

	t.Run("not a guest", func(t *testing.T) {
		h := newHarness()
		h.store.putUser(model.GuestUser{UserId: "u1", TenantId: tenantT, Email: "a@x.com", UserType: model.UserTypeMember})
		assert.Equal(t, VerifyInvalidNotGuest, h.svc.Verification.VerifyGuest(ctx, "a@x.com", "123456"))
	})

	t.Run("already verified", func(t *testing.T) {
		h := newHarness()
		h.store.putUser(model.GuestUser{UserId: "u1", TenantId: tenantT, Email: "a@x.com", EmailVerified: true})
		assert.Equal(t, VerifySuccess, h.svc.Verification.VerifyGuest(ctx, "a@x.com", "anything"))
	})

	t.Run("no active code", func(t *testing.T) {
		h := newHarness()
		h.store.putUser(model.GuestUser{UserId: "u1", TenantId: tenantT, Email: "a@x.com"})
		assert.Equal(t, VerifyEmailVerificationNeeded, h.svc.Verification.VerifyGuest(ctx, "a@x.com", "123456"))
	})

	t.Run("expired code", func(t *testing.T) {
		h := newHarness()
		code := h.seedGuest(t, "u1", "a@x.com")
		h.svc.Verification.now = func() time.Time { return time.Now().Add(time.Hour) }
		assert.Equal(t, VerifyEmailVerificationNeeded, h.svc.Verification.VerifyGuest(ctx, "a@x.com", code))
	})

	t.Run("store failure", func(t *testing.T) {
		h := newHarness()
		h.store.getErr = errStoreDown
		assert.Equal(t, VerifyFailed, h.svc.Verification.VerifyGuest(ctx, "a@x.com", "123456"))
	})
}

func TestVerifyGuest_WrongCodeCountsAndLocks(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	code := h.seedGuest(t, "u1", "a@x.com")
	max := testPolicy().MaxVerificationAttempts

	for i := 1; i < max; i++ {
		assert.Equal(t, VerifyInvalidCode, h.svc.Verification.VerifyGuest(ctx, "a@x.com", wrongCode(code)))
		u, _ := h.store.user("u1")
		assert.Equal(t, i, u.FailedVerificationAttempts)
		assert.False(t, u.IsLocked)
	}

	assert.Equal(t, VerifyUserIsLocked, h.svc.Verification.VerifyGuest(ctx, "a@x.com", wrongCode(code)))
	u, _ := h.store.user("u1")
	assert.True(t, u.IsLocked)
	assert.Equal(t, max, u.FailedVerificationAttempts)

	// locked regardless of code correctness
	assert.Equal(t, VerifyUserIsLocked, h.svc.Verification.VerifyGuest(ctx, "a@x.com", code))
	assert.Equal(t, VerifyUserIsLocked, h.svc.Verification.VerifyGuest(ctx, "a@x.com", wrongCode(code)))
	u, _ = h.store.user("u1")
	assert.False(t, u.EmailVerified)
	assert.Zero(t, h.store.consumedCount("u1"))
}

func TestVerifyGuest_CaseSensitiveAndResetsAttempts(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.store.putUser(model.GuestUser{UserId: "u1", TenantId: tenantT, Email: "a@x.com"})
	h.store.mu.Lock()
	h.store.codes["c1"] = model.VerificationCode{
		CodeId: "c1", UserId: "u1", Code: "AbC123",
		IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Minute),
	}
	h.store.mu.Unlock()

	assert.Equal(t, VerifyInvalidCode, h.svc.Verification.VerifyGuest(ctx, "a@x.com", "abc123"))
	u, _ := h.store.user("u1")
	assert.Equal(t, 1, u.FailedVerificationAttempts)

	assert.Equal(t, VerifySuccess, h.svc.Verification.VerifyGuest(ctx, "a@x.com", "AbC123"))
	u, _ = h.store.user("u1")
	assert.True(t, u.EmailVerified)
	assert.Zero(t, u.FailedVerificationAttempts)
}

func TestVerifyGuest_OnlyLatestCodeIsActive(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	first := h.seedGuest(t, "u1", "a@x.com")
	require.NoError(t, h.svc.Dispatcher.DispatchVerification(ctx, "u1", "a@x.com", "Ada", ""))
	second := h.sender.lastCode()

	if first != second {
		assert.Equal(t, VerifyInvalidCode, h.svc.Verification.VerifyGuest(ctx, "a@x.com", first))
	}
	assert.Equal(t, VerifySuccess, h.svc.Verification.VerifyGuest(ctx, "a@x.com", second))
}

func TestVerifyTenantGuest(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	code := h.seedGuest(t, "u1", "a@x.com")

	assert.Equal(t, VerifySuccessNoUser, h.svc.Verification.VerifyTenantGuest(ctx, "other", "a@x.com", code))
	assert.Equal(t, VerifySuccess, h.svc.Verification.VerifyTenantGuest(ctx, tenantT, "a@x.com", code))
}

func TestVerifyGuest_EmailSharedAcrossTenants(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	// "a" sorts first, so a naive lookup would always pick tenant-a's account
	codeA := h.seedTenantGuest(t, "tenant-a", "a", "a@x.com")
	codeB := h.seedTenantGuest(t, "tenant-b", "b", "a@x.com")
	if codeA == codeB {
		t.Skip("both accounts drew the same code")
	}

	assert.Equal(t, VerifySuccess, h.svc.Verification.VerifyGuest(ctx, "a@x.com", codeB))
	for i := 0; i < testPolicy().MaxVerificationAttempts; i++ {
		h.svc.Verification.VerifyGuest(ctx, "a@x.com", codeB)
	}

	a, _ := h.store.user("a")
	assert.False(t, a.IsLocked)
	assert.False(t, a.EmailVerified)
	assert.Zero(t, a.FailedVerificationAttempts)
	b, _ := h.store.user("b")
	assert.True(t, b.EmailVerified)
	assert.Equal(t, 1, h.store.consumedCount("b"))

	// the remaining account still verifies with its own code
	assert.Equal(t, VerifySuccess, h.svc.Verification.VerifyGuest(ctx, "a@x.com", codeA))
	a, _ = h.store.user("a")
	assert.True(t, a.EmailVerified)
}

func TestVerifyGuest_SharedEmailMissCountsAgainstNobody(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	codeA := h.seedTenantGuest(t, "tenant-a", "a", "a@x.com")
	codeB := h.seedTenantGuest(t, "tenant-b", "b", "a@x.com")
	miss := wrongCode(codeA)
	if miss == codeB {
		miss = "222222"
	}

	for i := 0; i < testPolicy().MaxVerificationAttempts+1; i++ {
		assert.Equal(t, VerifyInvalidCode, h.svc.Verification.VerifyGuest(ctx, "a@x.com", miss))
	}
	for _, userId := range []string{"a", "b"} {
		u, _ := h.store.user(userId)
		assert.False(t, u.IsLocked, userId)
		assert.Zero(t, u.FailedVerificationAttempts, userId)
	}

	// scoping to a tenant restores attempt counting
	assert.Equal(t, VerifyInvalidCode, h.svc.Verification.VerifyTenantGuest(ctx, "tenant-a", "a@x.com", miss))
	a, _ := h.store.user("a")
	assert.Equal(t, 1, a.FailedVerificationAttempts)
}

func TestVerifyGuest_ConcurrentCorrectCode(t *testing.T) {
	h := newHarness()
	code := h.seedGuest(t, "u1", "a@x.com")

	const workers = 8
	results := make([]VerifyGuestResponseCode, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = h.svc.Verification.VerifyGuest(context.Background(), "a@x.com", code)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, VerifySuccess, r)
	}
	u, _ := h.store.user("u1")
	assert.True(t, u.EmailVerified)
	assert.Equal(t, int64(1), u.Version, "exactly one writer wins")
	assert.Equal(t, 1, h.store.consumedCount("u1"))
}

func TestVerifyGuest_ConcurrentWrongCodesAreAllCounted(t *testing.T) {
	policy := testPolicy()
	policy.MaxVerificationAttempts = 100
	h := newHarnessWithPolicy(policy)
	code := h.seedGuest(t, "u1", "a@x.com")

	const workers = 4
	var wg sync.WaitGroup
	results := make([]VerifyGuestResponseCode, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = h.svc.Verification.VerifyGuest(context.Background(), "a@x.com", wrongCode(code))
		}(i)
	}
	wg.Wait()

	u, _ := h.store.user("u1")
	counted := 0
	for _, r := range results {
		if r == VerifyInvalidCode {
			counted++
		}
	}
	// every rejection that was reported is persisted, none is lost to a race
	assert.Equal(t, counted, u.FailedVerificationAttempts)
	assert.Positive(t, counted)
}

func TestResendVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("throttled within interval", func(t *testing.T) {
		h := newHarness()
		h.store.putUser(model.GuestUser{UserId: "u1", TenantId: tenantT, Email: "a@x.com", FirstName: "Ada"})

		assert.Equal(t, ResendSuccess, h.svc.Verification.ResendVerification(ctx, "a@x.com", ""))
		assert.Equal(t, ResendThrottled, h.svc.Verification.ResendVerification(ctx, "a@x.com", ""))
		assert.Equal(t, 1, h.sender.sentVerifications())

		_, ok := h.store.activeCode("u1")
		assert.True(t, ok)
	})

	t.Run("states", func(t *testing.T) {
		h := newHarness()
		h.store.putUser(model.GuestUser{UserId: "v", TenantId: tenantT, Email: "v@x.com", EmailVerified: true})
		h.store.putUser(model.GuestUser{UserId: "l", TenantId: tenantT, Email: "l@x.com", IsLocked: true})
		h.store.putUser(model.GuestUser{UserId: "m", TenantId: tenantT, Email: "m@x.com", UserType: model.UserTypeMember})

		assert.Equal(t, ResendNoUser, h.svc.Verification.ResendVerification(ctx, "ghost@x.com", ""))
		assert.Equal(t, ResendAlreadyVerified, h.svc.Verification.ResendVerification(ctx, "v@x.com", ""))
		assert.Equal(t, ResendUserIsLocked, h.svc.Verification.ResendVerification(ctx, "l@x.com", ""))
		assert.Equal(t, ResendInvalidNotGuest, h.svc.Verification.ResendVerification(ctx, "m@x.com", ""))
		assert.Zero(t, h.sender.calls)
	})

	t.Run("send failure", func(t *testing.T) {
		h := newHarness()
		h.store.putUser(model.GuestUser{UserId: "u1", TenantId: tenantT, Email: "a@x.com"})
		h.sender.err = errStoreDown
		assert.Equal(t, ResendFailed, h.svc.Verification.ResendVerification(ctx, "a@x.com", ""))
	})

	t.Run("failed send does not throttle the retry", func(t *testing.T) {
		h := newHarness()
		h.store.putUser(model.GuestUser{UserId: "u1", TenantId: tenantT, Email: "a@x.com"})
		h.sender.err = errStoreDown
		require.Equal(t, ResendFailed, h.svc.Verification.ResendVerification(ctx, "a@x.com", ""))

		h.sender.err = nil
		assert.Equal(t, ResendSuccess, h.svc.Verification.ResendVerification(ctx, "a@x.com", ""))
		assert.Equal(t, 1, h.sender.sentVerifications())
		assert.Equal(t, ResendThrottled, h.svc.Verification.ResendVerification(ctx, "a@x.com", ""))
	})

	t.Run("email shared across tenants", func(t *testing.T) {
		h := newHarness()
		h.store.putUser(model.GuestUser{UserId: "a", TenantId: "tenant-a", Email: "a@x.com"})
		h.store.putUser(model.GuestUser{UserId: "b", TenantId: "tenant-b", Email: "a@x.com"})
		h.store.putUser(model.GuestUser{UserId: "c", TenantId: "tenant-c", Email: "a@x.com", EmailVerified: true})

		assert.Equal(t, ResendSuccess, h.svc.Verification.ResendVerification(ctx, "a@x.com", ""))
		assert.Equal(t, 2, h.sender.sentVerifications())
		for _, userId := range []string{"a", "b"} {
			_, ok := h.store.activeCode(userId)
			assert.True(t, ok, userId)
		}
		_, ok := h.store.activeCode("c")
		assert.False(t, ok)
	})
}

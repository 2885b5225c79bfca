package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-arcade/guestline/internal/guest/config"
	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/go-arcade/guestline/internal/guest/repo"
	"github.com/go-arcade/guestline/internal/pkg/notify"
	"github.com/go-arcade/guestline/pkg/statemachine"
	"github.com/redis/go-redis/v9"
)

var errStoreDown = errors.New("store unreachable")

// memStore backs every guest repository in memory. InTx serializes
// transactions and restores the previous state when fn fails.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users       map[string]model.GuestUser
	groups      map[string][]string
	invitations []model.Invitation
	codes       map[string]model.VerificationCode
	inventory   map[string]int
	assignments map[string]model.LicenseAssignment

	createCalls  atomic.Int32
	reserveCalls atomic.Int32
	deleteCalls  atomic.Int32

	// injected failures
	getErr     error
	createErr  error
	reserveErr error
	issueErr   error
	deleteErr  error
	// commitErr fails InTx after fn succeeded and keeps its writes
	commitErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]model.GuestUser),
		groups:      make(map[string][]string),
		codes:       make(map[string]model.VerificationCode),
		inventory:   make(map[string]int),
		assignments: make(map[string]model.LicenseAssignment),
	}
}

func (s *memStore) repositories() *repo.Repositories {
	return &repo.Repositories{
		Users:       &memUsers{s},
		Invitations: &memInvitations{s},
		Licenses:    &memLicenses{s},
		Codes:       &memCodes{s},
		Tx:          s,
	}
}

func inventoryKey(tenantId, licenseType string) string {
	return tenantId + "/" + licenseType
}

func (s *memStore) setSeats(tenantId, licenseType string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory[inventoryKey(tenantId, licenseType)] = n
}

func (s *memStore) seats(tenantId, licenseType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventory[inventoryKey(tenantId, licenseType)]
}

func (s *memStore) putUser(u model.GuestUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.UserType == "" {
		u.UserType = model.UserTypeGuest
	}
	s.users[u.UserId] = u
	s.groups[u.UserId] = append([]string(nil), u.GroupIds...)
}

func (s *memStore) user(userId string) (model.GuestUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userId]
	return u, ok
}

func (s *memStore) userByEmail(email string) (model.GuestUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return model.GuestUser{}, false
}

func (s *memStore) userCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *memStore) putInvitation(inv model.Invitation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invitations = append(s.invitations, inv)
}

func (s *memStore) invitation(invitationId string) (model.Invitation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invitations {
		if inv.InvitationId == invitationId {
			return inv, true
		}
	}
	return model.Invitation{}, false
}

func (s *memStore) invitationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invitations)
}

func (s *memStore) activeCode(userId string) (model.VerificationCode, bool) {
	c, err := (&memCodes{s}).GetActive(context.Background(), userId)
	if err != nil || c == nil {
		return model.VerificationCode{}, false
	}
	return *c, true
}

func (s *memStore) consumedCount(userId string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.codes {
		if c.UserId == userId && c.ConsumedAt != nil {
			n++
		}
	}
	return n
}

func (s *memStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	users := maps.Clone(s.users)
	codes := maps.Clone(s.codes)
	inventory := maps.Clone(s.inventory)
	assignments := maps.Clone(s.assignments)
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.users, s.codes, s.inventory, s.assignments = users, codes, inventory, assignments
		s.mu.Unlock()
		return err
	}
	return s.commitErr
}

type memUsers struct{ s *memStore }

func (r *memUsers) withGroups(u model.GuestUser) *model.GuestUser {
	u.GroupIds = append([]string(nil), r.s.groups[u.UserId]...)
	return &u
}

func (r *memUsers) GetByEmailOrUsername(_ context.Context, tenantId, email, username string) (*model.GuestUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.getErr != nil {
		return nil, r.s.getErr
	}
	for _, u := range r.s.users {
		if u.TenantId == tenantId && (u.Email == email || u.Username == username) {
			return r.withGroups(u), nil
		}
	}
	return nil, nil
}

func (r *memUsers) FindByEmail(_ context.Context, tenantId, email string) (*model.GuestUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.getErr != nil {
		return nil, r.s.getErr
	}
	ids := make([]string, 0, len(r.s.users))
	for id := range r.s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		u := r.s.users[id]
		if u.Email == email && (tenantId == "" || u.TenantId == tenantId) {
			return r.withGroups(u), nil
		}
	}
	return nil, nil
}

func (r *memUsers) ListByEmail(_ context.Context, tenantId, email string) ([]*model.GuestUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.getErr != nil {
		return nil, r.s.getErr
	}
	ids := make([]string, 0, len(r.s.users))
	for id := range r.s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*model.GuestUser
	for _, id := range ids {
		u := r.s.users[id]
		if u.Email == email && (tenantId == "" || u.TenantId == tenantId) {
			out = append(out, &u)
		}
	}
	return out, nil
}

func (r *memUsers) Get(_ context.Context, userId string) (*model.GuestUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.getErr != nil {
		return nil, r.s.getErr
	}
	u, ok := r.s.users[userId]
	if !ok {
		return nil, nil
	}
	return r.withGroups(u), nil
}

func (r *memUsers) Create(_ context.Context, u *model.GuestUser) error {
	r.s.createCalls.Add(1)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createErr != nil {
		return r.s.createErr
	}
	for _, existing := range r.s.users {
		if existing.TenantId == u.TenantId && (existing.Email == u.Email || existing.Username == u.Username) {
			return repo.ErrDuplicateUser
		}
	}
	u.CreatedAt = time.Now()
	r.s.users[u.UserId] = *u
	return nil
}

func (r *memUsers) Delete(_ context.Context, userId string) error {
	r.s.deleteCalls.Add(1)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.deleteErr != nil {
		return r.s.deleteErr
	}
	delete(r.s.users, userId)
	delete(r.s.groups, userId)
	return nil
}

func (r *memUsers) Update(_ context.Context, u *model.GuestUser) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.users[u.UserId]
	if !ok || stored.Version != u.Version {
		return repo.ErrConcurrentUpdate
	}
	stored.EmailVerified = u.EmailVerified
	stored.IsLocked = u.IsLocked
	stored.FailedVerificationAttempts = u.FailedVerificationAttempts
	stored.Version++
	r.s.users[u.UserId] = stored
	u.Version++
	return nil
}

func (r *memUsers) AddGroup(_ context.Context, userId, groupId string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.groups[userId] = append(r.s.groups[userId], groupId)
	return nil
}

type memInvitations struct{ s *memStore }

func (r *memInvitations) GetPending(_ context.Context, tenantId, email string) (*model.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.invitations) - 1; i >= 0; i-- {
		inv := r.s.invitations[i]
		if inv.TenantId == tenantId && inv.Email == email && inv.Status == model.InvitationStatusPending {
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *memInvitations) Create(_ context.Context, inv *model.Invitation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.invitations = append(r.s.invitations, *inv)
	return nil
}

func (r *memInvitations) UpdateStatus(_ context.Context, invitationId string, from, to statemachine.InvitationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, inv := range r.s.invitations {
		if inv.InvitationId == invitationId && inv.Status == from {
			r.s.invitations[i].Status = to
			return nil
		}
	}
	return repo.ErrConcurrentUpdate
}

type memLicenses struct{ s *memStore }

func (r *memLicenses) Reserve(_ context.Context, userId, licenseType string) (*model.LicenseAssignment, error) {
	r.s.reserveCalls.Add(1)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.reserveErr != nil {
		return nil, r.s.reserveErr
	}
	u, ok := r.s.users[userId]
	if !ok {
		return nil, repo.ErrUserNotFound
	}
	if _, held := r.s.assignments[userId]; held {
		return nil, repo.ErrAlreadyAssigned
	}
	key := inventoryKey(u.TenantId, licenseType)
	if r.s.inventory[key] <= 0 {
		return nil, repo.ErrNoSeats
	}
	r.s.inventory[key]--
	a := model.LicenseAssignment{
		AssignmentId: fmt.Sprintf("a-%s", userId),
		UserId:       userId,
		TenantId:     u.TenantId,
		LicenseType:  licenseType,
		AssignedAt:   time.Now(),
	}
	r.s.assignments[userId] = a
	lt := licenseType
	u.LicenseType = &lt
	r.s.users[userId] = u
	return &a, nil
}

func (r *memLicenses) Release(_ context.Context, userId string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assignments[userId]
	if !ok {
		return false, nil
	}
	delete(r.s.assignments, userId)
	r.s.inventory[inventoryKey(a.TenantId, a.LicenseType)]++
	if u, ok := r.s.users[userId]; ok {
		u.LicenseType = nil
		r.s.users[userId] = u
	}
	return true, nil
}

func (r *memLicenses) GetAssignment(_ context.Context, userId string) (*model.LicenseAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assignments[userId]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

type memCodes struct{ s *memStore }

func (r *memCodes) Issue(_ context.Context, code *model.VerificationCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.issueErr != nil {
		return r.s.issueErr
	}
	for id, c := range r.s.codes {
		if c.UserId == code.UserId && c.ConsumedAt == nil && c.ExpiresAt.After(code.IssuedAt) {
			c.ExpiresAt = code.IssuedAt
			r.s.codes[id] = c
		}
	}
	r.s.codes[code.CodeId] = *code
	return nil
}

func (r *memCodes) GetActive(_ context.Context, userId string) (*model.VerificationCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	var latest *model.VerificationCode
	for _, c := range r.s.codes {
		if c.UserId != userId || c.ConsumedAt != nil || !c.ExpiresAt.After(now) {
			continue
		}
		if latest == nil || c.IssuedAt.After(latest.IssuedAt) {
			latest = &c
		}
	}
	return latest, nil
}

func (r *memCodes) Consume(_ context.Context, codeId string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.codes[codeId]
	if !ok || c.ConsumedAt != nil {
		return repo.ErrConcurrentUpdate
	}
	now := time.Now()
	c.ConsumedAt = &now
	r.s.codes[codeId] = c
	return nil
}

// fakeSender records outgoing mail and fails the first failures sends
type fakeSender struct {
	mu            sync.Mutex
	verifications []notify.VerificationMail
	invitations   []notify.InvitationMail
	failures      int
	err           error
	calls         int
}

func (f *fakeSender) SendVerificationEmail(_ context.Context, mail notify.VerificationMail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures > 0 || f.err != nil {
		if f.failures > 0 {
			f.failures--
		}
		if f.err != nil {
			return f.err
		}
		return errors.New("smtp unavailable")
	}
	f.verifications = append(f.verifications, mail)
	return nil
}

func (f *fakeSender) SendInvitationEmail(_ context.Context, mail notify.InvitationMail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.invitations = append(f.invitations, mail)
	return nil
}

func (f *fakeSender) lastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.verifications) == 0 {
		return ""
	}
	return f.verifications[len(f.verifications)-1].Code
}

func (f *fakeSender) sentVerifications() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.verifications)
}

// memCache is an in-memory cache.ICache
type memCache struct {
	mu   sync.Mutex
	data map[string]string
	gets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (m *memCache) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	cmd := redis.NewStringCmd(ctx, "get", key)
	val, ok := m.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (m *memCache) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	cmd.SetVal("OK")
	return cmd
}

func (m *memCache) SetNX(ctx context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd := redis.NewBoolCmd(ctx, "setnx", key, value)
	if _, ok := m.data[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	m.data[key] = fmt.Sprint(value)
	cmd.SetVal(true)
	return cmd
}

func (m *memCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	cmd := redis.NewIntCmd(ctx, "del", keys)
	cmd.SetVal(n)
	return cmd
}

func (m *memCache) TTL(ctx context.Context, key string) *redis.DurationCmd {
	cmd := redis.NewDurationCmd(ctx, time.Second, "ttl", key)
	cmd.SetVal(time.Minute)
	return cmd
}

func testPolicy() config.GuestPolicy {
	p := config.DefaultGuestPolicy()
	p.SendBackoff = time.Millisecond
	p.MaxVerificationAttempts = 3
	return p
}

type harness struct {
	store  *memStore
	sender *fakeSender
	cache  *memCache
	svc    *Services
}

func newHarness() *harness {
	return newHarnessWithPolicy(testPolicy())
}

func newHarnessWithPolicy(policy config.GuestPolicy) *harness {
	h := &harness{store: newMemStore(), sender: &fakeSender{}, cache: newMemCache()}
	h.svc = NewServices(h.store.repositories(), h.cache, h.sender, policy, nil)
	return h
}

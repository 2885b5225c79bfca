package service

import (
	"github.com/go-arcade/guestline/internal/guest/config"
	"github.com/go-arcade/guestline/internal/guest/repo"
	"github.com/go-arcade/guestline/internal/pkg/notify"
	"github.com/go-arcade/guestline/pkg/cache"
	"github.com/go-arcade/guestline/pkg/event"
	"github.com/go-arcade/guestline/pkg/metrics"
	"github.com/go-playground/validator/v10"
)

// Services 统一管理所有 service
type Services struct {
	License       *LicenseService
	Authorization *AuthorizationService
	Dispatcher    *VerificationDispatcher
	Verification  *VerificationService
	Provision     *ProvisionService
	Invitation    *InvitationService
	Bus           *event.EventBus
	Validate      *validator.Validate
}

// NewServices 初始化所有 service
func NewServices(
	repos *repo.Repositories,
	c cache.ICache,
	sender notify.IVerificationSender,
	policy config.GuestPolicy,
	m *metrics.GuestMetrics,
) *Services {
	policy.SetDefaults()
	validate := validator.New(validator.WithRequiredStructEnabled())
	bus := event.NewEventBus()

	license := NewLicenseService(repos.Licenses, m)
	auth := NewAuthorizationService(repos.Users, c, policy.GroupCacheTTL)
	dispatcher := NewVerificationDispatcher(repos.Codes, sender, policy, m)
	verification := NewVerificationService(repos.Users, repos.Codes, repos.Tx, dispatcher, c, policy, m)
	provision := NewProvisionService(repos.Users, repos.Invitations, repos.Tx, license, dispatcher, bus, validate, policy, m)
	invitation := NewInvitationService(repos.Users, repos.Invitations, auth, sender, validate, policy)

	// 访客创建成功后标记邀请已接受
	bus.RegisterHandler(EventGuestProvisioned, invitation)

	return &Services{
		License:       license,
		Authorization: auth,
		Dispatcher:    dispatcher,
		Verification:  verification,
		Provision:     provision,
		Invitation:    invitation,
		Bus:           bus,
		Validate:      validate,
	}
}

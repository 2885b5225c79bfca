package repo

import (
	"github.com/go-arcade/guestline/pkg/database"
	"github.com/google/wire"
)

// ProviderSet 提供仓储层相关的依赖
var ProviderSet = wire.NewSet(
	ProvideRepositories,
	wire.FieldsOf(new(*Repositories), "Users", "Invitations", "Licenses", "Codes", "Tx"),
)

// Repositories groups the guest stores
type Repositories struct {
	Users       IGuestUserRepository
	Invitations IInvitationRepository
	Licenses    ILicenseRepository
	Codes       IVerificationCodeRepository
	Tx          ITransactor
}

// ProvideRepositories 提供统一的仓储实例
func ProvideRepositories(db database.IDatabase) *Repositories {
	return &Repositories{
		Users:       NewGuestUserRepo(db),
		Invitations: NewInvitationRepo(db),
		Licenses:    NewLicenseRepo(db),
		Codes:       NewVerificationCodeRepo(db),
		Tx:          NewGormTransactor(db),
	}
}

package model

/**
 * @file: model_dto.go
 * @description: request bodies of the guest api
 */

type ProvisionGuestReq struct {
	Email                string `json:"email" validate:"max=255"`
	Username             string `json:"username" validate:"max=128"`
	FirstName            string `json:"firstName" validate:"max=128"`
	LastName             string `json:"lastName" validate:"max=128"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
	TenantId             string `json:"tenantId" validate:"required,max=64"`
	InvitationToken      string `json:"invitationToken"`
	RedirectUrl          string `json:"redirectUrl" validate:"omitempty,url"`
}

type VerifyGuestReq struct {
	Email    string `json:"email" validate:"required"`
	Code     string `json:"code" validate:"required"`
	TenantId string `json:"tenantId" validate:"omitempty,max=64"`
}

type ResendVerificationReq struct {
	Email       string `json:"email" validate:"required"`
	RedirectUrl string `json:"redirectUrl" validate:"omitempty,url"`
}

type CreateGuestReq struct {
	// ActorUserId comes from the verified access token, never from the body
	ActorUserId string `json:"-"`
	TenantId    string `json:"tenantId" validate:"required,max=64"`
	Email       string `json:"email" validate:"required"`
	RedirectUrl string `json:"redirectUrl" validate:"omitempty,url"`
}

type ProvisionResp struct {
	Code   string `json:"code"`
	UserId string `json:"userId,omitempty"`
}

type SuperAdminResp struct {
	UserId     string `json:"userId"`
	SuperAdmin bool   `json:"superAdmin"`
}

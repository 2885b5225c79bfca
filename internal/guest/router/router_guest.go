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

package router

import (
	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/go-arcade/guestline/internal/guest/service"
	httpx "github.com/go-arcade/guestline/pkg/http"
	"github.com/go-arcade/guestline/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) guestRouter(r fiber.Router, auth fiber.Handler) {
	guestGroup := r.Group("/guest")
	{
		guestGroup.Post("/provision", rt.provisionGuest)
		guestGroup.Post("/verify", rt.verifyGuest)
		guestGroup.Post("/resend", rt.resendVerification)
		guestGroup.Post("/invite", auth, rt.createGuest)
	}
}

type outcome struct {
	status int
	rep    *httpx.Response
}

var provisionOutcomes = map[service.ProvisionGuestUserReturnCode]outcome{
	service.ProvisionSuccess:                       {fiber.StatusCreated, httpx.Success},
	service.ProvisionSucessEmailVerificationNeeded: {fiber.StatusAccepted, httpx.EmailVerificationSent},
	service.ProvisionFirstOrLastNameIsNull:         {fiber.StatusBadRequest, httpx.FirstOrLastNameIsNull},
	service.ProvisionInvalidEmail:                  {fiber.StatusBadRequest, httpx.InvalidEmail},
	service.ProvisionPasswordConfirmationError:     {fiber.StatusBadRequest, httpx.PasswordConfirmationError},
	service.ProvisionInvalidPassword:               {fiber.StatusBadRequest, httpx.InvalidPassword},
	service.ProvisionUserNotInvited:                {fiber.StatusForbidden, httpx.UserNotInvited},
	service.ProvisionUserExists:                    {fiber.StatusConflict, httpx.UserAlreadyExist},
}

var verifyOutcomes = map[service.VerifyGuestResponseCode]outcome{
	service.VerifySuccess:                 {fiber.StatusOK, httpx.Success},
	service.VerifySuccessNoUser:           {fiber.StatusOK, httpx.SuccessNoUser},
	service.VerifyUserIsLocked:            {fiber.StatusLocked, httpx.UserIsLocked},
	service.VerifyInvalidNotGuest:         {fiber.StatusBadRequest, httpx.InvalidNotGuest},
	service.VerifyEmailVerificationNeeded: {fiber.StatusGone, httpx.EmailVerificationNeeded},
	service.VerifyInvalidCode:             {fiber.StatusBadRequest, httpx.InvalidCode},
}

var resendOutcomes = map[service.ResendVerificationResponseCode]outcome{
	service.ResendSuccess:         {fiber.StatusAccepted, httpx.EmailVerificationSent},
	service.ResendNoUser:          {fiber.StatusOK, httpx.SuccessNoUser},
	service.ResendAlreadyVerified: {fiber.StatusOK, httpx.Success},
	service.ResendUserIsLocked:    {fiber.StatusLocked, httpx.UserIsLocked},
	service.ResendInvalidNotGuest: {fiber.StatusBadRequest, httpx.InvalidNotGuest},
	service.ResendThrottled:       {fiber.StatusTooManyRequests, httpx.ResendThrottled},
}

var createGuestOutcomes = map[service.CreateGuestResponseCode]outcome{
	service.CreateGuestSuccess:        {fiber.StatusCreated, httpx.Success},
	service.CreateGuestNotAuthorized:  {fiber.StatusForbidden, httpx.PermissionDenied},
	service.CreateGuestInvalidEmail:   {fiber.StatusBadRequest, httpx.InvalidEmail},
	service.CreateGuestUserExists:     {fiber.StatusConflict, httpx.UserAlreadyExist},
	service.CreateGuestAlreadyInvited: {fiber.StatusConflict, httpx.AlreadyInvited},
}

// reply writes the mapped outcome; unmapped codes are generic failures
func reply(c *fiber.Ctx, o outcome, ok bool, code string, detail any) error {
	if !ok {
		return httpx.WithRepErr(c, fiber.StatusInternalServerError, httpx.Failed, code)
	}
	if o.status >= fiber.StatusBadRequest {
		return httpx.WithRepErr(c, o.status, o.rep, o.rep.Msg)
	}
	c.Status(o.status)
	if detail != nil {
		return httpx.WithRepDetail(c, o.rep, detail)
	}
	return httpx.WithRep(c, o.rep)
}

func (rt *Router) provisionGuest(c *fiber.Ctx) error {
	var req model.ProvisionGuestReq
	if ok, err := rt.bind(c, &req); !ok {
		return err
	}

	res := rt.Services.Provision.ProvisionGuest(c.UserContext(), &req)
	o, ok := provisionOutcomes[res.Code]
	return reply(c, o, ok, res.Code.String(), &model.ProvisionResp{Code: res.Code.String(), UserId: res.UserId})
}

func (rt *Router) verifyGuest(c *fiber.Ctx) error {
	var req model.VerifyGuestReq
	if ok, err := rt.bind(c, &req); !ok {
		return err
	}

	code := rt.Services.Verification.VerifyTenantGuest(c.UserContext(), req.TenantId, req.Email, req.Code)
	o, ok := verifyOutcomes[code]
	return reply(c, o, ok, code.String(), nil)
}

func (rt *Router) resendVerification(c *fiber.Ctx) error {
	var req model.ResendVerificationReq
	if ok, err := rt.bind(c, &req); !ok {
		return err
	}

	code := rt.Services.Verification.ResendVerification(c.UserContext(), req.Email, req.RedirectUrl)
	o, ok := resendOutcomes[code]
	return reply(c, o, ok, code.String(), nil)
}

func (rt *Router) createGuest(c *fiber.Ctx) error {
	var req model.CreateGuestReq
	if ok, err := rt.bind(c, &req); !ok {
		return err
	}
	req.ActorUserId, _ = c.Locals(middleware.UserIdKey).(string)

	code := rt.Services.Invitation.CreateGuest(c.UserContext(), &req)
	o, ok := createGuestOutcomes[code]
	return reply(c, o, ok, code.String(), nil)
}

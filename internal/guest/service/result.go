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

// ProvisionGuestUserReturnCode is the outcome of ProvisionGuest
type ProvisionGuestUserReturnCode int

const (
	ProvisionSuccess ProvisionGuestUserReturnCode = iota
	ProvisionSucessEmailVerificationNeeded
	ProvisionFirstOrLastNameIsNull
	ProvisionInvalidEmail
	ProvisionPasswordConfirmationError
	ProvisionInvalidPassword
	ProvisionUserNotInvited
	ProvisionUserExists
	ProvisionFailed
)

var provisionNames = map[ProvisionGuestUserReturnCode]string{
	ProvisionSuccess:                       "Success",
	ProvisionSucessEmailVerificationNeeded: "SucessEmailVerificationNeeded",
	ProvisionFirstOrLastNameIsNull:         "FirstOrLastNameIsNull",
	ProvisionInvalidEmail:                  "InvalidEmail",
	ProvisionPasswordConfirmationError:     "PasswordConfirmationError",
	ProvisionInvalidPassword:               "InvalidPassword",
	ProvisionUserNotInvited:                "UserNotInvited",
	ProvisionUserExists:                    "UserExists",
	ProvisionFailed:                        "Failed",
}

func (c ProvisionGuestUserReturnCode) String() string {
	if name, ok := provisionNames[c]; ok {
		return name
	}
	return "Unknown"
}

// VerifyGuestResponseCode is the outcome of VerifyGuest
type VerifyGuestResponseCode int

const (
	VerifySuccess VerifyGuestResponseCode = iota
	VerifySuccessNoUser
	VerifyUserIsLocked
	VerifyInvalidNotGuest
	VerifyEmailVerificationNeeded
	VerifyInvalidCode
	VerifyFailed
)

var verifyNames = map[VerifyGuestResponseCode]string{
	VerifySuccess:                 "Success",
	VerifySuccessNoUser:           "SuccessNoUser",
	VerifyUserIsLocked:            "UserIsLocked",
	VerifyInvalidNotGuest:         "InvalidNotGuest",
	VerifyEmailVerificationNeeded: "EmailVerificationNeeded",
	VerifyInvalidCode:             "InvalidCode",
	VerifyFailed:                  "Failed",
}

func (c VerifyGuestResponseCode) String() string {
	if name, ok := verifyNames[c]; ok {
		return name
	}
	return "Unknown"
}

// CreateGuestResponseCode is the outcome of CreateGuest
type CreateGuestResponseCode int

const (
	CreateGuestSuccess CreateGuestResponseCode = iota
	CreateGuestNotAuthorized
	CreateGuestInvalidEmail
	CreateGuestUserExists
	CreateGuestAlreadyInvited
	CreateGuestFailed
)

var createGuestNames = map[CreateGuestResponseCode]string{
	CreateGuestSuccess:        "Success",
	CreateGuestNotAuthorized:  "NotAuthorized",
	CreateGuestInvalidEmail:   "InvalidEmail",
	CreateGuestUserExists:     "UserExists",
	CreateGuestAlreadyInvited: "AlreadyInvited",
	CreateGuestFailed:         "Failed",
}

func (c CreateGuestResponseCode) String() string {
	if name, ok := createGuestNames[c]; ok {
		return name
	}
	return "Unknown"
}

// ResendVerificationResponseCode is the outcome of ResendVerification
type ResendVerificationResponseCode int

const (
	ResendSuccess ResendVerificationResponseCode = iota
	ResendNoUser
	ResendAlreadyVerified
	ResendUserIsLocked
	ResendInvalidNotGuest
	ResendThrottled
	ResendFailed
)

var resendNames = map[ResendVerificationResponseCode]string{
	ResendSuccess:         "Success",
	ResendNoUser:          "SuccessNoUser",
	ResendAlreadyVerified: "AlreadyVerified",
	ResendUserIsLocked:    "UserIsLocked",
	ResendInvalidNotGuest: "InvalidNotGuest",
	ResendThrottled:       "Throttled",
	ResendFailed:          "Failed",
}

func (c ResendVerificationResponseCode) String() string {
	if name, ok := resendNames[c]; ok {
		return name
	}
	return "Unknown"
}

// ProvisionResult carries the code and, once created, the new user's id
type ProvisionResult struct {
	Code   ProvisionGuestUserReturnCode
	UserId string
}

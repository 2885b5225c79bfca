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

package http

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")
	InternalError                 = failed(5000, "Internal error, please contact the administrator")

	// BadRequest 400
	BadRequest = failed(4000, "Bad request")
	NotFound   = failed(4004, "Not found")

	// Unauthorized 401
	TokenBeEmpty         = failed(4010, "Token is empty")
	TokenFormatIncorrect = failed(4011, "Token format is incorrect")
	InvalidToken         = failed(4012, "Invalid token")
	TokenExpired         = failed(4013, "Token has expired")

	// Forbidden 403
	Forbidden        = failed(4030, "Forbidden")
	PermissionDenied = failed(4031, "Permission denied")

	// guest provisioning
	FirstOrLastNameIsNull     = failed(4101, "First name and last name are required")
	InvalidEmail              = failed(4102, "Invalid email")
	PasswordConfirmationError = failed(4103, "Password and confirmation do not match")
	InvalidPassword           = failed(4104, "Password does not meet the complexity policy")
	UserNotInvited            = failed(4105, "User is not invited")
	UserAlreadyExist          = failed(4042, "User already exists")
	AlreadyInvited            = failed(4106, "User is already invited")

	// guest verification
	UserIsLocked            = failed(4201, "User is locked")
	InvalidNotGuest         = failed(4202, "User is not a guest")
	EmailVerificationNeeded = failed(4203, "Email verification needed")
	InvalidCode             = failed(4204, "Invalid verification code")
	ResendThrottled         = failed(4205, "Verification email was sent recently")
)

var (
	Success               = success(200, "Request Success")
	EmailVerificationSent = success(202, "Verification email sent")
	SuccessNoUser         = success(204, "No such user")
)

// failed 构造函数
func failed(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

// success 构造函数
func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

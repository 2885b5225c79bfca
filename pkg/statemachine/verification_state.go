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

package statemachine

// VerificationState is the email verification lifecycle of a guest account.
type VerificationState string

const (
	VerificationPending  VerificationState = "PENDING_VERIFICATION"
	VerificationVerified VerificationState = "VERIFIED"
	VerificationLocked   VerificationState = "LOCKED"
)

const (
	EventCodeAccepted      Event = "code_accepted"
	EventCodeRejected      Event = "code_rejected"
	EventAttemptsExhausted Event = "attempts_exhausted"
)

// VerificationStateOf derives the state from the persisted account flags.
// A locked account is Locked even if it was verified before.
func VerificationStateOf(emailVerified, isLocked bool) VerificationState {
	switch {
	case isLocked:
		return VerificationLocked
	case emailVerified:
		return VerificationVerified
	default:
		return VerificationPending
	}
}

// NewVerificationStateMachine builds the verification transition table.
//
//	PENDING --code_accepted--> VERIFIED
//	PENDING --code_rejected--> PENDING
//	PENDING --attempts_exhausted--> LOCKED
func NewVerificationStateMachine() *StateMachine[VerificationState] {
	return New[VerificationState]().
		On(VerificationPending, EventCodeAccepted, VerificationVerified).
		On(VerificationPending, EventCodeRejected, VerificationPending).
		On(VerificationPending, EventAttemptsExhausted, VerificationLocked).
		Terminal(VerificationVerified, VerificationLocked)
}

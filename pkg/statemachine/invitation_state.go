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

// InvitationStatus is the lifecycle of a tenant invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "Pending"
	InvitationAccepted InvitationStatus = "Accepted"
	InvitationExpired  InvitationStatus = "Expired"
	InvitationRevoked  InvitationStatus = "Revoked"
)

const (
	EventInvitationAccepted Event = "accept"
	EventInvitationExpired  Event = "expire"
	EventInvitationRevoked  Event = "revoke"
)

// NewInvitationStateMachine builds the invitation transition table.
// Only pending invitations move; every other status is terminal.
func NewInvitationStateMachine() *StateMachine[InvitationStatus] {
	return New[InvitationStatus]().
		On(InvitationPending, EventInvitationAccepted, InvitationAccepted).
		On(InvitationPending, EventInvitationExpired, InvitationExpired).
		On(InvitationPending, EventInvitationRevoked, InvitationRevoked).
		Terminal(InvitationAccepted, InvitationExpired, InvitationRevoked)
}

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

import "testing"

func TestVerificationStateOf(t *testing.T) {
	tests := []struct {
		verified bool
		locked   bool
		expected VerificationState
	}{
		{false, false, VerificationPending},
		{true, false, VerificationVerified},
		{false, true, VerificationLocked},
		{true, true, VerificationLocked},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			if got := VerificationStateOf(tt.verified, tt.locked); got != tt.expected {
				t.Errorf("VerificationStateOf(%v, %v) = %v, want %v", tt.verified, tt.locked, got, tt.expected)
			}
		})
	}
}

func TestVerificationStateMachine_Transitions(t *testing.T) {
	sm := NewVerificationStateMachine()

	tests := []struct {
		from    VerificationState
		event   Event
		to      VerificationState
		wantErr bool
	}{
		{VerificationPending, EventCodeAccepted, VerificationVerified, false},
		{VerificationPending, EventCodeRejected, VerificationPending, false},
		{VerificationPending, EventAttemptsExhausted, VerificationLocked, false},
		{VerificationVerified, EventCodeRejected, "", true},
		{VerificationLocked, EventCodeAccepted, "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.event), func(t *testing.T) {
			to, err := sm.Next(tt.from, tt.event)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Next() error = %v, wantErr %v", err, tt.wantErr)
			}
			if to != tt.to {
				t.Errorf("Next() = %v, want %v", to, tt.to)
			}
		})
	}

	if !sm.IsTerminal(VerificationVerified) || !sm.IsTerminal(VerificationLocked) || sm.IsTerminal(VerificationPending) {
		t.Error("only VERIFIED and LOCKED are terminal")
	}
}

func TestInvitationStateMachine(t *testing.T) {
	sm := NewInvitationStateMachine()
	for _, event := range []Event{EventInvitationAccepted, EventInvitationExpired, EventInvitationRevoked} {
		if !sm.Can(InvitationPending, event) {
			t.Errorf("pending invitation should accept %q", event)
		}
		if sm.Can(InvitationAccepted, event) {
			t.Errorf("accepted invitation should not accept %q", event)
		}
	}
}

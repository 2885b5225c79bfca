package service

import "fmt"

/**
 * @file: errors.go
 * @description: typed failures surfaced by the license and dispatch steps
 */

type LicenseFailureReason string

const (
	LicenseNoSeats          LicenseFailureReason = "no_seats"
	LicenseAlreadyAssigned  LicenseFailureReason = "already_assigned"
	LicenseUserNotFound     LicenseFailureReason = "user_not_found"
	LicenseStoreUnavailable LicenseFailureReason = "store_unavailable"
)

// LicenseAssignmentError reports a failed AssignLicense for UserId
type LicenseAssignmentError struct {
	UserId string
	Reason LicenseFailureReason
	Err    error
}

func (e *LicenseAssignmentError) Error() string {
	return fmt.Sprintf("license assignment failed for user %s (%s): %v", e.UserId, e.Reason, e.Err)
}

func (e *LicenseAssignmentError) Unwrap() error {
	return e.Err
}

type DispatchStage string

const (
	// DispatchStagePersist means the code may not exist; account state is unknown
	DispatchStagePersist DispatchStage = "persist"
	// DispatchStageSend means the code is stored but the mail did not leave; resending is safe
	DispatchStageSend DispatchStage = "send"
)

// DispatchError reports a failed DispatchVerification for UserId
type DispatchError struct {
	UserId string
	Stage  DispatchStage
	Err    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("verification dispatch failed for user %s at %s: %v", e.UserId, e.Stage, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// CanRetrySend reports whether the user can simply request another code
func (e *DispatchError) CanRetrySend() bool {
	return e.Stage == DispatchStageSend
}

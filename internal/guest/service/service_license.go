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

import (
	"context"
	"errors"

	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/go-arcade/guestline/internal/guest/repo"
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/go-arcade/guestline/pkg/metrics"
)

type LicenseService struct {
	licenses repo.ILicenseRepository
	metrics  *metrics.GuestMetrics
}

func NewLicenseService(licenses repo.ILicenseRepository, m *metrics.GuestMetrics) *LicenseService {
	return &LicenseService{licenses: licenses, metrics: m}
}

// AssignLicense reserves one seat of licenseType and binds it to userId.
// Every failure is a *LicenseAssignmentError.
func (s *LicenseService) AssignLicense(ctx context.Context, userId, licenseType string) (*model.LicenseAssignment, error) {
	assignment, err := s.licenses.Reserve(ctx, userId, licenseType)
	if err == nil {
		s.metrics.IncLicense("assigned")
		log.Infow("license assigned", "userId", userId, "licenseType", licenseType)
		return assignment, nil
	}

	lae := &LicenseAssignmentError{UserId: userId, Err: err}
	switch {
	case errors.Is(err, repo.ErrNoSeats):
		lae.Reason = LicenseNoSeats
		log.Warnw("no license seats left", "userId", userId, "licenseType", licenseType)
	case errors.Is(err, repo.ErrAlreadyAssigned):
		lae.Reason = LicenseAlreadyAssigned
		log.Errorw("double license assignment rejected", "userId", userId, "licenseType", licenseType)
	case errors.Is(err, repo.ErrUserNotFound):
		lae.Reason = LicenseUserNotFound
		log.Errorw("license requested for unknown user", "userId", userId)
	default:
		lae.Reason = LicenseStoreUnavailable
		log.Errorw("license store failed", "userId", userId, "error", err)
	}
	s.metrics.IncLicense(string(lae.Reason))
	return nil, lae
}

// ReleaseLicense returns the user's seat; releasing an unlicensed user is a no-op
func (s *LicenseService) ReleaseLicense(ctx context.Context, userId string) error {
	released, err := s.licenses.Release(ctx, userId)
	if err != nil {
		log.Errorw("failed to release license", "userId", userId, "error", err)
		return err
	}
	if released {
		s.metrics.IncLicense("released")
		log.Infow("license released", "userId", userId)
	}
	return nil
}

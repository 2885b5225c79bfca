package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/go-arcade/guestline/pkg/database"
	"github.com/go-arcade/guestline/pkg/id"
	"gorm.io/gorm"
)

type ILicenseRepository interface {
	// Reserve takes one seat from the user's tenant inventory and binds it to the user
	Reserve(ctx context.Context, userId, licenseType string) (*model.LicenseAssignment, error)
	// Release returns the user's seat; false when the user held none
	Release(ctx context.Context, userId string) (bool, error)
	GetAssignment(ctx context.Context, userId string) (*model.LicenseAssignment, error)
}

type LicenseRepo struct {
	db database.IDatabase
}

func NewLicenseRepo(db database.IDatabase) ILicenseRepository {
	return &LicenseRepo{db: db}
}

func (r *LicenseRepo) Reserve(ctx context.Context, userId, licenseType string) (*model.LicenseAssignment, error) {
	var assignment *model.LicenseAssignment
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var tenantId string
		res := tx.Model(&model.GuestUser{}).Where("user_id = ?", userId).Limit(1).Pluck("tenant_id", &tenantId)
		if res.Error != nil {
			return fmt.Errorf("resolve tenant of %s: %w", userId, res.Error)
		}
		if tenantId == "" {
			return ErrUserNotFound
		}

		var held int64
		if err := tx.Model(&model.LicenseAssignment{}).Where("user_id = ?", userId).Count(&held).Error; err != nil {
			return fmt.Errorf("check assignment of %s: %w", userId, err)
		}
		if held > 0 {
			return ErrAlreadyAssigned
		}

		if err := takeSeat(tx, tenantId, licenseType); err != nil {
			return err
		}
		a := &model.LicenseAssignment{
			AssignmentId: id.ShortId(),
			UserId:       userId,
			TenantId:     tenantId,
			LicenseType:  licenseType,
			AssignedAt:   time.Now(),
		}
		if err := bindAssignment(tx, a); err != nil {
			return err
		}

		if err := tx.Model(&model.GuestUser{}).Where("user_id = ?", userId).
			Update("license_type", licenseType).Error; err != nil {
			return fmt.Errorf("set license type of %s: %w", userId, err)
		}
		assignment = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

func (r *LicenseRepo) Release(ctx context.Context, userId string) (bool, error) {
	released := false
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var a model.LicenseAssignment
		if err := tx.Where("user_id = ?", userId).First(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("load assignment of %s: %w", userId, err)
		}

		del := tx.Where("user_id = ?", userId).Delete(&model.LicenseAssignment{})
		if del.Error != nil {
			return fmt.Errorf("delete assignment of %s: %w", userId, del.Error)
		}
		if del.RowsAffected == 0 {
			// released concurrently
			return nil
		}

		if err := returnSeat(tx, a.TenantId, a.LicenseType); err != nil {
			return err
		}
		if err := tx.Model(&model.GuestUser{}).Where("user_id = ?", userId).
			Update("license_type", nil).Error; err != nil {
			return fmt.Errorf("clear license type of %s: %w", userId, err)
		}
		released = true
		return nil
	})
	return released, err
}

// takeSeat decrements the inventory only while a seat is left
func takeSeat(tx *gorm.DB, tenantId, licenseType string) error {
	dec := tx.Model(&model.LicenseInventory{}).
		Where("tenant_id = ? AND license_type = ? AND available > 0", tenantId, licenseType).
		Update("available", gorm.Expr("available - 1"))
	if dec.Error != nil {
		return fmt.Errorf("reserve seat: %w", dec.Error)
	}
	if dec.RowsAffected == 0 {
		return ErrNoSeats
	}
	return nil
}

// bindAssignment inserts a; the unique user index turns a concurrent second
// assignment into ErrAlreadyAssigned
func bindAssignment(tx *gorm.DB, a *model.LicenseAssignment) error {
	if err := tx.Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyAssigned
		}
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

func returnSeat(tx *gorm.DB, tenantId, licenseType string) error {
	if err := tx.Model(&model.LicenseInventory{}).
		Where("tenant_id = ? AND license_type = ?", tenantId, licenseType).
		Update("available", gorm.Expr("available + 1")).Error; err != nil {
		return fmt.Errorf("return seat: %w", err)
	}
	return nil
}

func (r *LicenseRepo) GetAssignment(ctx context.Context, userId string) (*model.LicenseAssignment, error) {
	a, err := first[model.LicenseAssignment](readConn(ctx, r.db).Where("user_id = ?", userId))
	if err != nil {
		return nil, fmt.Errorf("get assignment of %s: %w", userId, err)
	}
	return a, nil
}

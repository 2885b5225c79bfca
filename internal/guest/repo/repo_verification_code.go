package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/go-arcade/guestline/pkg/database"
	"gorm.io/gorm"
)

type IVerificationCodeRepository interface {
	// Issue stores code and expires every other active code of the user
	Issue(ctx context.Context, code *model.VerificationCode) error
	GetActive(ctx context.Context, userId string) (*model.VerificationCode, error)
	// Consume marks the code consumed; ErrConcurrentUpdate if it already was
	Consume(ctx context.Context, codeId string) error
}

type VerificationCodeRepo struct {
	db database.IDatabase
}

func NewVerificationCodeRepo(db database.IDatabase) IVerificationCodeRepository {
	return &VerificationCodeRepo{db: db}
}

func (r *VerificationCodeRepo) Issue(ctx context.Context, code *model.VerificationCode) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.VerificationCode{}).
			Where("user_id = ? AND consumed_at IS NULL AND expires_at > ?", code.UserId, code.IssuedAt).
			Update("expires_at", code.IssuedAt).Error
		if err != nil {
			return fmt.Errorf("invalidate active codes of %s: %w", code.UserId, err)
		}
		if err := tx.Create(code).Error; err != nil {
			return fmt.Errorf("issue code for %s: %w", code.UserId, err)
		}
		return nil
	})
}

func (r *VerificationCodeRepo) GetActive(ctx context.Context, userId string) (*model.VerificationCode, error) {
	code, err := first[model.VerificationCode](conn(ctx, r.db).
		Where("user_id = ? AND consumed_at IS NULL AND expires_at > ?", userId, time.Now()).
		Order("issued_at DESC"))
	if err != nil {
		return nil, fmt.Errorf("get active code of %s: %w", userId, err)
	}
	return code, nil
}

func (r *VerificationCodeRepo) Consume(ctx context.Context, codeId string) error {
	res := conn(ctx, r.db).Model(&model.VerificationCode{}).
		Where("code_id = ? AND consumed_at IS NULL", codeId).
		Update("consumed_at", time.Now())
	if res.Error != nil {
		return fmt.Errorf("consume code %s: %w", codeId, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}
	return nil
}

package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/go-arcade/guestline/pkg/database"
	"gorm.io/gorm"
)

type IGuestUserRepository interface {
	GetByEmailOrUsername(ctx context.Context, tenantId, email, username string) (*model.GuestUser, error)
	// FindByEmail matches in tenantId, or across tenants when tenantId is empty
	FindByEmail(ctx context.Context, tenantId, email string) (*model.GuestUser, error)
	// ListByEmail returns every account holding email, ordered by id, without group ids
	ListByEmail(ctx context.Context, tenantId, email string) ([]*model.GuestUser, error)
	Get(ctx context.Context, userId string) (*model.GuestUser, error)
	Create(ctx context.Context, u *model.GuestUser) error
	Delete(ctx context.Context, userId string) error
	// Update writes the verification fields when u.Version still matches and bumps it
	Update(ctx context.Context, u *model.GuestUser) error
	AddGroup(ctx context.Context, userId, groupId string) error
}

type GuestUserRepo struct {
	db database.IDatabase
}

func NewGuestUserRepo(db database.IDatabase) IGuestUserRepository {
	return &GuestUserRepo{db: db}
}

func (r *GuestUserRepo) GetByEmailOrUsername(ctx context.Context, tenantId, email, username string) (*model.GuestUser, error) {
	// read from the primary so the uniqueness check sees committed writes
	u, err := first[model.GuestUser](conn(ctx, r.db).
		Where("tenant_id = ? AND (email = ? OR username = ?)", tenantId, email, username))
	if err != nil {
		return nil, fmt.Errorf("get user by email or username: %w", err)
	}
	return u, nil
}

func (r *GuestUserRepo) FindByEmail(ctx context.Context, tenantId, email string) (*model.GuestUser, error) {
	q := conn(ctx, r.db).Where("email = ?", email)
	if tenantId != "" {
		q = q.Where("tenant_id = ?", tenantId)
	}
	u, err := first[model.GuestUser](q.Order("id"))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if u == nil {
		return nil, nil
	}
	if u.GroupIds, err = r.groupIds(ctx, u.UserId); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *GuestUserRepo) ListByEmail(ctx context.Context, tenantId, email string) ([]*model.GuestUser, error) {
	q := conn(ctx, r.db).Where("email = ?", email)
	if tenantId != "" {
		q = q.Where("tenant_id = ?", tenantId)
	}
	var users []*model.GuestUser
	if err := q.Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users by email: %w", err)
	}
	return users, nil
}

func (r *GuestUserRepo) Get(ctx context.Context, userId string) (*model.GuestUser, error) {
	u, err := first[model.GuestUser](readConn(ctx, r.db).Where("user_id = ?", userId))
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userId, err)
	}
	if u == nil {
		return nil, nil
	}
	if u.GroupIds, err = r.groupIds(ctx, userId); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *GuestUserRepo) groupIds(ctx context.Context, userId string) ([]string, error) {
	var ids []string
	err := readConn(ctx, r.db).Model(&model.UserGroupMember{}).
		Where("user_id = ?", userId).
		Order("group_id").
		Pluck("group_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load groups of %s: %w", userId, err)
	}
	return ids, nil
}

func (r *GuestUserRepo) Create(ctx context.Context, u *model.GuestUser) error {
	if err := conn(ctx, r.db).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *GuestUserRepo) Delete(ctx context.Context, userId string) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userId).Delete(&model.UserGroupMember{}).Error; err != nil {
			return fmt.Errorf("delete groups of %s: %w", userId, err)
		}
		if err := tx.Where("user_id = ?", userId).Delete(&model.GuestUser{}).Error; err != nil {
			return fmt.Errorf("delete user %s: %w", userId, err)
		}
		return nil
	})
}

func (r *GuestUserRepo) Update(ctx context.Context, u *model.GuestUser) error {
	res := conn(ctx, r.db).Model(&model.GuestUser{}).
		Where("user_id = ? AND version = ?", u.UserId, u.Version).
		Updates(map[string]any{
			"email_verified":               u.EmailVerified,
			"is_locked":                    u.IsLocked,
			"failed_verification_attempts": u.FailedVerificationAttempts,
			"version":                      gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("update user %s: %w", u.UserId, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}
	u.Version++
	return nil
}

func (r *GuestUserRepo) AddGroup(ctx context.Context, userId, groupId string) error {
	err := conn(ctx, r.db).Create(&model.UserGroupMember{UserId: userId, GroupId: groupId}).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("add %s to group %s: %w", userId, groupId, err)
	}
	return nil
}

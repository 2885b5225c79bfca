package repo

import (
	"context"
	"errors"

	"github.com/go-arcade/guestline/pkg/database"
	"gorm.io/gorm"
)

/**
 * @file: repo.go
 * @description: shared errors and transaction propagation for the guest stores
 */

var (
	// ErrDuplicateUser is returned when a unique (tenant, email) or (tenant, username) index rejects a write
	ErrDuplicateUser = errors.New("user already exists")
	// ErrConcurrentUpdate is returned when a conditional write matched no row
	ErrConcurrentUpdate = errors.New("concurrent update detected")
	// ErrNoSeats is returned when the inventory has no available seat
	ErrNoSeats = errors.New("no license seats available")
	// ErrAlreadyAssigned is returned when the user already holds a license
	ErrAlreadyAssigned = errors.New("user already holds a license")
	// ErrUserNotFound is returned by writes addressed to a missing user
	ErrUserNotFound = errors.New("user not found")
)

// ITransactor runs fn in a single store transaction. Repositories called with
// the ctx handed to fn join that transaction.
type ITransactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

type GormTransactor struct {
	db database.IDatabase
}

func NewGormTransactor(db database.IDatabase) ITransactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return conn(ctx, t.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or a fresh session on the primary.
func conn(ctx context.Context, db database.IDatabase) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return database.WriteDB(db.Database().WithContext(ctx))
}

// readConn is conn for lookups that tolerate replica lag.
func readConn(ctx context.Context, db database.IDatabase) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return database.ReadDB(db.Database().WithContext(ctx))
}

// first maps gorm.ErrRecordNotFound to a nil result.
func first[T any](q *gorm.DB) (*T, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

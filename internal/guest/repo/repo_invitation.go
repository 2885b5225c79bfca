package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/go-arcade/guestline/pkg/database"
	"github.com/go-arcade/guestline/pkg/statemachine"
)

type IInvitationRepository interface {
	// GetPending returns the newest pending invitation, expired or not
	GetPending(ctx context.Context, tenantId, email string) (*model.Invitation, error)
	Create(ctx context.Context, inv *model.Invitation) error
	// UpdateStatus moves the invitation only if it is still in from
	UpdateStatus(ctx context.Context, invitationId string, from, to statemachine.InvitationStatus) error
}

type InvitationRepo struct {
	db database.IDatabase
}

func NewInvitationRepo(db database.IDatabase) IInvitationRepository {
	return &InvitationRepo{db: db}
}

func (r *InvitationRepo) GetPending(ctx context.Context, tenantId, email string) (*model.Invitation, error) {
	inv, err := first[model.Invitation](readConn(ctx, r.db).
		Where("tenant_id = ? AND email = ? AND status = ?", tenantId, email, model.InvitationStatusPending).
		Order("id DESC"))
	if err != nil {
		return nil, fmt.Errorf("get pending invitation: %w", err)
	}
	return inv, nil
}

func (r *InvitationRepo) Create(ctx context.Context, inv *model.Invitation) error {
	if err := conn(ctx, r.db).Create(inv).Error; err != nil {
		return fmt.Errorf("create invitation: %w", err)
	}
	return nil
}

func (r *InvitationRepo) UpdateStatus(ctx context.Context, invitationId string, from, to statemachine.InvitationStatus) error {
	res := conn(ctx, r.db).Model(&model.Invitation{}).
		Where("invitation_id = ? AND status = ?", invitationId, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("update invitation %s: %w", invitationId, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}
	return nil
}

package service

import (
	"context"
	"time"

	"github.com/go-arcade/guestline/internal/guest/model"
	"github.com/go-arcade/guestline/internal/guest/repo"
	"github.com/go-arcade/guestline/pkg/cache"
	"github.com/go-arcade/guestline/pkg/log"
)

const groupCacheKeyPrefix = "guestline:user:groups:"

type groupMembership struct {
	Exists   bool     `json:"exists"`
	GroupIds []string `json:"groupIds"`
}

// AuthorizationService answers group membership questions. Membership is
// cached for a short ttl when a cache is configured.
type AuthorizationService struct {
	groups *cache.CachedQuery[groupMembership]
}

func NewAuthorizationService(users repo.IGuestUserRepository, c cache.ICache, ttl time.Duration) *AuthorizationService {
	query := func(ctx context.Context, userId string) (groupMembership, error) {
		u, err := users.Get(ctx, userId)
		if err != nil {
			return groupMembership{}, err
		}
		if u == nil {
			return groupMembership{}, nil
		}
		return groupMembership{Exists: true, GroupIds: u.GroupIds}, nil
	}
	return &AuthorizationService{
		groups: cache.NewCachedQuery(c,
			func(userId string) string { return groupCacheKeyPrefix + userId },
			query,
			cache.WithTTL[groupMembership](ttl),
			cache.WithName[groupMembership]("user_groups"),
		),
	}
}

// IsSuperAdmin never fails: a missing user or an unreadable store answers false
func (s *AuthorizationService) IsSuperAdmin(ctx context.Context, userId string) bool {
	if userId == "" {
		return false
	}
	m, err := s.groups.Get(ctx, userId)
	if err != nil {
		log.Errorw("failed to load user groups", "userId", userId, "error", err)
		return false
	}
	if !m.Exists {
		return false
	}
	u := model.GuestUser{GroupIds: m.GroupIds}
	return u.InGroup(model.SuperAdminGroupId)
}

// InvalidateGroups drops the cached membership of userId
func (s *AuthorizationService) InvalidateGroups(ctx context.Context, userId string) {
	_ = s.groups.Invalidate(ctx, userId)
}

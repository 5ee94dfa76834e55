package access

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/pkg/auth"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

// TokenValidator resolves a session token to an account identity.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.TokenClaims, error)
}

// MembershipDirectory answers tenant questions for an account.
type MembershipDirectory interface {
	PrimaryMembership(ctx context.Context, accountID uuid.UUID) (*model.Membership, error)
}

// Service is the access guard: the single request-time check composing the
// identity resolver, the membership directory and the permission table.
// Every guarded entry point goes through Authorize, so no handler can
// forget a check. The guard never mutates state and is idempotent for an
// unchanged session.
type Service struct {
	tokens      TokenValidator
	memberships MembershipDirectory
	cache       *gocache.Cache
}

const membershipCacheTTL = 30 * time.Second

func NewService(tokens TokenValidator, memberships MembershipDirectory) *Service {
	return &Service{
		tokens:      tokens,
		memberships: memberships,
		cache:       gocache.New(membershipCacheTTL, 2*membershipCacheTTL),
	}
}

// Authorize yields the authorized context for the session, or a rejection:
// 401 when the token does not resolve, 404 no-clinic when the account has
// no tenant, 403 when the role is not in the action's allowed set. An
// empty action skips the permission check (authentication plus tenant
// resolution only).
func (s *Service) Authorize(ctx context.Context, token string, action model.Action) (*model.AccessContext, error) {
	claims, err := s.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.AuthorizeClaims(ctx, claims, action)
}

// AuthorizeClaims runs the membership and permission steps for an already
// resolved identity.
func (s *Service) AuthorizeClaims(ctx context.Context, claims *auth.TokenClaims, action model.Action) (*model.AccessContext, error) {
	membership, err := s.primaryMembership(ctx, claims.AccountID)
	if err != nil {
		return nil, err
	}

	actx := &model.AccessContext{
		AccountID: claims.AccountID,
		ClinicID:  membership.ClinicID,
		Role:      membership.Role,
	}

	if action != "" && !actx.Role.Can(action) {
		return nil, apperrors.NewForbidden("you don't have permission to perform this action")
	}
	return actx, nil
}

// Invalidate drops the cached membership for an account, called after
// staff changes so a demoted role takes effect within a request.
func (s *Service) Invalidate(accountID uuid.UUID) {
	s.cache.Delete(accountID.String())
}

func (s *Service) primaryMembership(ctx context.Context, accountID uuid.UUID) (*model.Membership, error) {
	key := accountID.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.Membership), nil
	}

	membership, err := s.memberships.PrimaryMembership(ctx, accountID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, membership, gocache.DefaultExpiration)
	return membership, nil
}

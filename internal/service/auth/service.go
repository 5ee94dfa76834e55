package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/pkg/auth"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
	"github.com/clinicore/clinic-api/pkg/security"
)

type Service struct {
	accounts    repository.AccountRepository
	hasher      security.PasswordHasher
	jwtSvc      auth.JWTService
	revocations RevocationStore
	tokenExpiry time.Duration
}

func NewService(accounts repository.AccountRepository, hasher security.PasswordHasher,
	jwtSvc auth.JWTService, revocations RevocationStore, tokenExpiry time.Duration) *Service {
	if tokenExpiry == 0 {
		tokenExpiry = 24 * time.Hour
	}
	return &Service{
		accounts:    accounts,
		hasher:      hasher,
		jwtSvc:      jwtSvc,
		revocations: revocations,
		tokenExpiry: tokenExpiry,
	}
}

// Register creates an account. Admin registration also creates the clinic
// and the owner's ADMIN membership in the same transaction; every other
// role only records a default-role hint for onboarding.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.Account, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid password", err)
	}

	account := &model.Account{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		DefaultRole:  req.Role,
	}

	if req.Role == model.RoleAdmin {
		if req.ClinicName == nil || *req.ClinicName == "" {
			return nil, apperrors.NewValidation(map[string]string{
				"clinic_name": "clinic name is required for administrators",
			})
		}

		clinic := &model.Clinic{
			Name:    *req.ClinicName,
			Address: req.ClinicAddress,
			Phone:   req.ClinicPhone,
		}
		if err := s.accounts.CreateWithClinic(ctx, account, clinic); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, apperrors.NewConflict("email is already registered")
			}
			return nil, fmt.Errorf("failed to register admin: %w", err)
		}
		return account, nil
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email is already registered")
		}
		return nil, fmt.Errorf("failed to register account: %w", err)
	}
	return account, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*auth.TokenPair, *model.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		// Indistinguishable from a wrong password on purpose.
		return nil, nil, apperrors.NewUnauthorized(errors.New("invalid credentials"))
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthorized(errors.New("invalid credentials"))
	}

	tokens, err := s.jwtSvc.GenerateTokenPair(account.ID, account.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return tokens, account, nil
}

func (s *Service) Logout(ctx context.Context, claims *auth.TokenClaims) error {
	if claims.TokenID == "" {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.TokenID, s.tokenExpiry)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorized(err)
	}

	account, err := s.accounts.Get(ctx, claims.AccountID)
	if err != nil {
		return nil, apperrors.NewUnauthorized(err)
	}

	tokens, err := s.jwtSvc.GenerateTokenPair(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return tokens, nil
}

// ValidateToken resolves a session token to the underlying identity. Any
// missing, malformed, expired or revoked token fails closed.
func (s *Service) ValidateToken(ctx context.Context, token string) (*auth.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized(err)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.NewUnauthorized(errors.New("token revoked"))
	}
	return claims, nil
}

func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	account, err := s.accounts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("account", err)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *Service) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("account", err)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

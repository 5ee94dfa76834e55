package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/pkg/auth"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
	"github.com/clinicore/clinic-api/pkg/security"
)

type fakeAccountRepo struct {
	byEmail map[string]*model.Account
	byID    map[uuid.UUID]*model.Account
	clinics []*model.Clinic
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		byEmail: map[string]*model.Account{},
		byID:    map[uuid.UUID]*model.Account{},
	}
}

func (f *fakeAccountRepo) Create(_ context.Context, a *model.Account) error {
	if _, exists := f.byEmail[a.Email]; exists {
		return repository.ErrDuplicate
	}
	a.ID = uuid.New()
	f.byEmail[a.Email] = a
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAccountRepo) Get(_ context.Context, id uuid.UUID) (*model.Account, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	if a, ok := f.byEmail[email]; ok {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAccountRepo) CreateWithClinic(ctx context.Context, a *model.Account, c *model.Clinic) error {
	if err := f.Create(ctx, a); err != nil {
		return err
	}
	c.ID = uuid.New()
	c.OwnerID = a.ID
	f.clinics = append(f.clinics, c)
	return nil
}

type fakeRevocations struct {
	revoked map[string]bool
}

func (f *fakeRevocations) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	f.revoked[tokenID] = true
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return f.revoked[tokenID], nil
}

func newFixture() (*Service, *fakeAccountRepo, *fakeRevocations) {
	accounts := newFakeAccountRepo()
	revocations := &fakeRevocations{revoked: map[string]bool{}}
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh",
	})
	svc := NewService(accounts, security.NewBcryptHasher(4), jwtSvc, revocations, time.Hour)
	return svc, accounts, revocations
}

func adminRequest() *model.RegisterRequest {
	name := "Sunrise Clinic"
	return &model.RegisterRequest{
		Name:       "Dr. Admin",
		Email:      "admin@example.com",
		Password:   "secret123",
		Role:       model.RoleAdmin,
		ClinicName: &name,
	}
}

func TestRegisterAdminCreatesClinic(t *testing.T) {
	svc, accounts, _ := newFixture()

	account, err := svc.Register(context.Background(), adminRequest())
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, account.DefaultRole)
	require.Len(t, accounts.clinics, 1)
	assert.Equal(t, account.ID, accounts.clinics[0].OwnerID)
}

func TestRegisterAdminRequiresClinicName(t *testing.T) {
	svc, _, _ := newFixture()

	req := adminRequest()
	req.ClinicName = nil
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestRegisterNonAdminCreatesNoClinic(t *testing.T) {
	svc, accounts, _ := newFixture()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Pat",
		Email:    "pat@example.com",
		Password: "secret123",
		Role:     model.RolePatient,
	})
	require.NoError(t, err)
	assert.Empty(t, accounts.clinics)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.Register(context.Background(), adminRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), adminRequest())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestLoginSuccess(t *testing.T) {
	svc, _, _ := newFixture()
	_, err := svc.Register(context.Background(), adminRequest())
	require.NoError(t, err)

	tokens, account, err := svc.Login(context.Background(), "admin@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, "admin@example.com", account.Email)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newFixture()
	_, err := svc.Register(context.Background(), adminRequest())
	require.NoError(t, err)

	_, _, errUnknown := svc.Login(context.Background(), "nobody@example.com", "secret123")
	_, _, errWrongPass := svc.Login(context.Background(), "admin@example.com", "wrong-pass")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)

	a, _ := apperrors.As(errUnknown)
	b, _ := apperrors.As(errWrongPass)
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Message, b.Message)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _ := newFixture()
	_, err := svc.Register(context.Background(), adminRequest())
	require.NoError(t, err)

	tokens, _, err := svc.Login(context.Background(), "admin@example.com", "secret123")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))

	_, err = svc.ValidateToken(context.Background(), tokens.AccessToken)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestRefreshIssuesNewPair(t *testing.T) {
	svc, _, _ := newFixture()
	_, err := svc.Register(context.Background(), adminRequest())
	require.NoError(t, err)

	tokens, _, err := svc.Login(context.Background(), "admin@example.com", "secret123")
	require.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	_, err = svc.ValidateToken(context.Background(), fresh.AccessToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newFixture()
	_, err := svc.Register(context.Background(), adminRequest())
	require.NoError(t, err)

	tokens, _, err := svc.Login(context.Background(), "admin@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

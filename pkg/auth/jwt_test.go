package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() JWTService {
	return NewJWTService(Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService()
	accountID := uuid.New()

	pair, err := svc.GenerateTokenPair(accountID, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.NotEmpty(t, claims.TokenID)
}

func TestAccessAndRefreshSecretsAreSeparate(t *testing.T) {
	svc := newTestService()

	pair, err := svc.GenerateTokenPair(uuid.New(), "user@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.Error(t, err)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)

	_, err = svc.ValidateRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := newTestService()
	other := NewJWTService(Config{Secret: "different", RefreshSecret: "different"})

	pair, err := svc.GenerateTokenPair(uuid.New(), "user@example.com")
	require.NoError(t, err)

	_, err = other.ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService(Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        -time.Minute,
		RefreshExpiry: time.Hour,
	})

	pair, err := svc.GenerateTokenPair(uuid.New(), "user@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestService()

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestEachTokenHasUniqueID(t *testing.T) {
	svc := newTestService()
	accountID := uuid.New()

	first, err := svc.GenerateTokenPair(accountID, "user@example.com")
	require.NoError(t, err)
	second, err := svc.GenerateTokenPair(accountID, "user@example.com")
	require.NoError(t, err)

	a, err := svc.ValidateToken(first.AccessToken)
	require.NoError(t, err)
	b, err := svc.ValidateToken(second.AccessToken)
	require.NoError(t, err)
	assert.NotEqual(t, a.TokenID, b.TokenID)
}

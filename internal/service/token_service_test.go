package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

func newTestTokenService(clock *mutableClock) *TokenService {
	return NewTokenService(TokenConfig{Secret: "test-secret", TTL: 30 * time.Minute, Issuer: "test"}, clock.Clock(), nil)
}

func TestTokenServiceIssueAndVerify(t *testing.T) {
	clock := &mutableClock{now: fixtureNow}
	svc := newTestTokenService(clock)

	token, expiresAt, err := svc.Issue("admin@example.com", 1, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, expiresAt.Equal(fixtureNow.Add(30*time.Minute)))

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Subject)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.IsAdmin())
}

func TestTokenServiceExpiry(t *testing.T) {
	clock := &mutableClock{now: fixtureNow}
	svc := newTestTokenService(clock)

	token, _, err := svc.Issue("emp@example.com", 2, models.RoleEmployee)
	require.NoError(t, err)

	clock.advance(29 * time.Minute)
	_, err = svc.Verify(token)
	require.NoError(t, err)

	clock.advance(time.Minute + time.Second)
	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestTokenServiceRejectsTampering(t *testing.T) {
	clock := &mutableClock{now: fixtureNow}
	svc := newTestTokenService(clock)
	other := NewTokenService(TokenConfig{Secret: "other-secret"}, clock.Clock(), nil)

	foreign, _, err := other.Issue("emp@example.com", 2, models.RoleEmployee)
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &models.JWTClaims{
		UserID: 1,
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(fixtureNow.Add(time.Hour)),
		},
	})
	none, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong secret": foreign,
		"alg none":     none,
		"malformed":    "not.a.token",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			claims, err := svc.Verify(token)
			assert.Nil(t, claims)
			var appErr *appErrors.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, "invalid token", appErr.Message)
			assert.Equal(t, 401, appErr.Status)
		})
	}
}

func TestTokenServiceRequiresExpiry(t *testing.T) {
	clock := &mutableClock{now: fixtureNow}
	svc := newTestTokenService(clock)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{UserID: 1, Role: models.RoleAdmin})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.Error(t, err)
}

func TestTokenServiceDefaultsTTL(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "s"}, Clock{}, nil)
	assert.Equal(t, 30*time.Minute, svc.TTL())
}

package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartikpareekak-cloud/shopbackend/internal/infrastructure/config"
)

func newTestJWTService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters!!",
		TokenExpiration: expiration,
		Issuer:          "shop-backend-test",
	})
}

func TestGenerateAndValidate(t *testing.T) {
	service := newTestJWTService(time.Hour)
	userID := uuid.New()

	token, err := service.Generate(userID, "asha@example.com", "customer")
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := service.Validate(token.Value)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
	assert.NotEmpty(t, claims.ID)

	parsed, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestValidate_ExpiredToken(t *testing.T) {
	service := newTestJWTService(-time.Minute)
	token, err := service.Generate(uuid.New(), "asha@example.com", "customer")
	require.NoError(t, err)

	_, err = service.Validate(token.Value)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_WrongSecret(t *testing.T) {
	issuing := newTestJWTService(time.Hour)
	token, err := issuing.Generate(uuid.New(), "asha@example.com", "admin")
	require.NoError(t, err)

	validating := NewJWTService(config.JWTConfig{
		Secret:          "a-completely-different-secret-value!",
		TokenExpiration: time.Hour,
		Issuer:          "shop-backend-test",
	})
	_, err = validating.Validate(token.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	service := newTestJWTService(time.Hour)
	_, err := service.Validate("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

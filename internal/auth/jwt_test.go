package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateValidate(t *testing.T) {
	svc := NewJWTService("secret", 1)

	token, err := svc.Generate("user-1", "tenant-1", "owner")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, "owner", claims.Role)
}

func TestValidateRejects(t *testing.T) {
	svc := NewJWTService("secret", 1)
	other := NewJWTService("other", 1)

	token, err := other.Generate("user-1", "", "customer")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTService("secret", 1)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err = expired.Generate("user-1", "", "customer")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

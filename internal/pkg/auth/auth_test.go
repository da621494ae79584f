package auth

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "Storefront"},
		Session:  config.SessionConfig{Secret: strings.Repeat("s", 32), TTL: time.Hour},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func TestPasswordManager_HashAndVerify(t *testing.T) {
	pm := NewPasswordManager(testConfig())

	hash, err := pm.HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.NoError(t, pm.VerifyPassword("secret1", hash))
	assert.Error(t, pm.VerifyPassword("secret2", hash))
}

func TestPasswordManager_LengthRule(t *testing.T) {
	pm := NewPasswordManager(testConfig())

	_, err := pm.HashPassword("12345")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = pm.HashPassword(strings.Repeat("a", MaxPasswordLength+1))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = pm.HashPassword(strings.Repeat("a", MaxPasswordLength))
	assert.NoError(t, err)
}

func TestNewPasswordManagerWithCost_OutOfRangeUsesDefault(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordManagerWithCost(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordManagerWithCost(99).cost)
}

func TestGenerateResetToken(t *testing.T) {
	first, err := GenerateResetToken()
	require.NoError(t, err)
	second, err := GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	_, err = hex.DecodeString(first)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestSessionTokenManager_RoundTrip(t *testing.T) {
	m := NewSessionTokenManager(testConfig())

	token, err := m.Sign("session-123")
	require.NoError(t, err)

	sid, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "session-123", sid)
}

func TestSessionTokenManager_Expired(t *testing.T) {
	m := NewSessionTokenManager(testConfig())
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.Sign("session-123")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSessionTokenManager_RejectsForeignSecret(t *testing.T) {
	m := NewSessionTokenManager(testConfig())
	other := testConfig()
	other.Session.Secret = strings.Repeat("x", 32)

	token, err := NewSessionTokenManager(other).Sign("session-123")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)

	_, err = m.Parse("not-a-token")
	assert.Error(t, err)
}

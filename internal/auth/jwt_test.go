package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			m, err := NewJWTManager("secret", alg, 30*time.Minute)
			require.NoError(t, err)

			token, err := m.GenerateToken(7, "a@b.com")
			require.NoError(t, err)

			claims, err := m.ValidateToken(token)
			require.NoError(t, err)
			id, err := claims.UserID()
			require.NoError(t, err)
			assert.Equal(t, uint(7), id)
			assert.Equal(t, "a@b.com", claims.Email)
			assert.Equal(t, 30*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
		})
	}
}

func TestJWTManager_Expired(t *testing.T) {
	m, err := NewJWTManager("secret", "HS256", time.Minute)
	require.NoError(t, err)

	issued := time.Now().Add(-2 * time.Minute)
	m.now = func() time.Time { return issued }
	token, err := m.GenerateToken(1, "a@b.com")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsForeignTokens(t *testing.T) {
	m, err := NewJWTManager("secret", "HS256", time.Minute)
	require.NoError(t, err)

	other, err := NewJWTManager("other-secret", "HS256", time.Minute)
	require.NoError(t, err)
	wrongKey, err := other.GenerateToken(1, "a@b.com")
	require.NoError(t, err)

	strong, err := NewJWTManager("secret", "HS512", time.Minute)
	require.NoError(t, err)
	wrongAlg, err := strong.GenerateToken(1, "a@b.com")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "not-a-number",
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong key":   wrongKey,
		"wrong alg":   wrongAlg,
		"alg none":    noneToken,
		"bad subject": badSubject,
		"no exp":      noExp,
		"garbage":     "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.ValidateToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewJWTManager_Validation(t *testing.T) {
	_, err := NewJWTManager("secret", "RS256", time.Minute)
	assert.Error(t, err)
	_, err = NewJWTManager("", "HS256", time.Minute)
	assert.Error(t, err)
}

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.GenerateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NotEmpty(t, claims.ID, "token should carry a jti")
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAtTime(), 5*time.Second)
}

func TestJWTUniqueIDs(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	a, err := svc.GenerateToken(1)
	require.NoError(t, err)
	b, err := svc.GenerateToken(1)
	require.NoError(t, err)

	ca, err := svc.ValidateToken(a)
	require.NoError(t, err)
	cb, err := svc.ValidateToken(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestJWTRejects(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	good, err := svc.GenerateToken(7)
	require.NoError(t, err)

	expired := NewJWTService("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateToken(7)
	require.NoError(t, err)

	other, err := NewJWTService("other-secret", time.Hour).GenerateToken(7)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "7",
		ID:        "x",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		ID:        "x",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	nonNumeric, err := badSubject.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"expired", old},
		{"wrong secret", other},
		{"alg none", unsigned},
		{"non-numeric subject", nonNumeric},
		{"tampered", tamper(good)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.Error(t, err)
		})
	}
}

// tamper changes the first character of the signature segment.
func tamper(token string) string {
	i := strings.LastIndex(token, ".") + 1
	c := byte('A')
	if token[i] == 'A' {
		c = 'B'
	}
	return token[:i] + string(c) + token[i+1:]
}

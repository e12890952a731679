package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "super-secret-key-for-dev-only-change-in-prod-minimum-32-chars!!"

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	i, err := NewIssuer(testKey, "InstaClone", "InstaClone", time.Hour)
	require.NoError(t, err)
	return i
}

func TestIssuer_RoundTrip(t *testing.T) {
	t.Parallel()
	i := newTestIssuer(t)

	token, err := i.Issue(42, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := i.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestIssuer_DefaultExpiry(t *testing.T) {
	i, err := NewIssuer(testKey, "InstaClone", "InstaClone", 0)
	require.NoError(t, err)
	assert.Equal(t, 60*time.Minute, i.Expiry())
}

func TestNewIssuer_RequiresKey(t *testing.T) {
	_, err := NewIssuer("", "InstaClone", "InstaClone", time.Hour)
	assert.Error(t, err)
}

func TestIssuer_RejectsInvalidTokens(t *testing.T) {
	t.Parallel()
	base := newTestIssuer(t)

	wrongIssuer, err := NewIssuer(testKey, "SomeoneElse", "InstaClone", time.Hour)
	require.NoError(t, err)
	wrongAudience, err := NewIssuer(testKey, "InstaClone", "OtherClient", time.Hour)
	require.NoError(t, err)
	wrongKey, err := NewIssuer("another-key-that-is-long-enough-for-hs256-use", "InstaClone", "InstaClone", time.Hour)
	require.NoError(t, err)
	past := base.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })

	sign := func(i *Issuer) string {
		tok, signErr := i.Issue(7, "bob")
		require.NoError(t, signErr)
		return tok
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "7", "iss": "InstaClone", "aud": "InstaClone",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "InstaClone", "aud": "InstaClone",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testKey))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7", "iss": "InstaClone", "aud": "InstaClone",
	}).SignedString([]byte(testKey))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong issuer", sign(wrongIssuer)},
		{"wrong audience", sign(wrongAudience)},
		{"foreign key", sign(wrongKey)},
		{"expired", sign(past)},
		{"none algorithm", noneToken},
		{"missing subject", noSubject},
		{"missing expiry", noExpiry},
		{"garbage", "not.a.token"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := base.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

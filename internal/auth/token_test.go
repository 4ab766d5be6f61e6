package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name          string
		authorization string
		tokenHeader   string
		want          string
	}{
		{"bearer", "Bearer abc.def.ghi", "", "abc.def.ghi"},
		{"lowercase bearer", "bearer abc", "", "abc"},
		{"bare authorization", "abc.def.ghi", "", "abc.def.ghi"},
		{"token header", "", "xyz", "xyz"},
		{"authorization wins", "Bearer abc", "xyz", "abc"},
		{"nothing", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractToken(tt.authorization, tt.tokenHeader))
		})
	}
}

func TestUserTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("s3cret", time.Hour)

	tok, err := m.IssueUser("user-1")
	require.NoError(t, err)

	claims, err := m.ParseUser(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.ID)
}

func TestAdminTokenIsNotAUserToken(t *testing.T) {
	m := NewTokenManager("s3cret", time.Hour)

	tok, err := m.IssueAdmin("admin@shop.test")
	require.NoError(t, err)

	_, err = m.ParseUser(tok)
	require.ErrorIs(t, err, ErrNotUserToken)

	claims, err := m.ParseAdmin(tok)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "admin@shop.test", claims.Email)
}

func TestExpiredToken(t *testing.T) {
	m := NewTokenManager("s3cret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := m.IssueUser("user-1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseUser(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecretAndAlgorithm(t *testing.T) {
	issuer := NewTokenManager("one", time.Hour)
	verifier := NewTokenManager("two", time.Hour)

	tok, err := issuer.IssueUser("user-1")
	require.NoError(t, err)
	_, err = verifier.ParseUser(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, UserClaims{
		ID:               "user-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = verifier.ParseUser(none)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = verifier.ParseUser("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWithoutExpiryIsRejected(t *testing.T) {
	m := NewTokenManager("s3cret", time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, UserClaims{ID: "user-1"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = m.ParseUser(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestMissingSecret(t *testing.T) {
	m := NewTokenManager("", time.Hour)
	assert.False(t, m.Configured())

	_, err := m.IssueUser("user-1")
	require.ErrorIs(t, err, ErrMissingSecret)

	_, err = m.ParseAdmin("whatever")
	require.ErrorIs(t, err, ErrMissingSecret)
}

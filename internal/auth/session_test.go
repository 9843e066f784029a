package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GoArmGo/InviteLink/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(secret string) *SessionIssuer {
	return NewSessionIssuer(SessionConfig{
		Secret: secret,
		Issuer: "invitelink",
		TTL:    7 * 24 * time.Hour,
	})
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := newIssuer("super-secret")

	tok, err := s.Issue("alice")
	require.NoError(t, err)

	got, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
}

func TestIssue_SetsIssuerAndExpiry(t *testing.T) {
	t.Parallel()

	s := newIssuer("k")
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	tok, err := s.Issue("bob")
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)

	assert.Equal(t, "invitelink", claims.Issuer)
	assert.Equal(t, "bob", claims.Username)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, fixed.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestIssue_EmptyUsername(t *testing.T) {
	t.Parallel()

	_, err := newIssuer("k").Issue("")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	s := newIssuer("secret")
	issuedAt := time.Now().Add(-8 * 24 * time.Hour)
	s.now = func() time.Time { return issuedAt }

	tok, err := s.Issue("u1")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()

	good, err := newIssuer("right-secret").Issue("u2")
	require.NoError(t, err)

	otherIssuer := NewSessionIssuer(SessionConfig{Secret: "right-secret", Issuer: "someone-else", TTL: time.Hour})
	foreign, err := otherIssuer.Issue("u2")
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "invitelink"},
		Username:         "u2",
	}).SignedString([]byte("right-secret"))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "invitelink",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username: "u2",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong secret", token: mustIssue(t, newIssuer("wrong-secret"), "u2")},
		{name: "wrong issuer", token: foreign},
		{name: "no expiry", token: noExp},
		{name: "none alg", token: noneAlg},
		{name: "tampered payload", token: tampered},
		{name: "malformed", token: "not.a.jwt"},
		{name: "empty", token: ""},
	}

	s := newIssuer("right-secret")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Verify(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidToken), "got %v", err)
		})
	}
}

func mustIssue(t *testing.T, s *SessionIssuer, username string) string {
	t.Helper()
	tok, err := s.Issue(username)
	require.NoError(t, err)
	return tok
}

func TestCookie(t *testing.T) {
	t.Parallel()

	s := NewSessionIssuer(SessionConfig{Secret: "k", Issuer: "i", TTL: 7 * 24 * time.Hour, CookieSecure: true})

	c := s.Cookie("tok")
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 604800, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	expired := s.ExpiredCookie()
	assert.Equal(t, SessionCookieName, expired.Name)
	assert.Empty(t, expired.Value)
	assert.Less(t, expired.MaxAge, 0)
}

func TestTokenFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/token", nil)
	_, ok := TokenFromRequest(r)
	assert.False(t, ok)

	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: ""})
	_, ok = TokenFromRequest(r)
	assert.False(t, ok)

	r = httptest.NewRequest(http.MethodGet, "/token", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "abc"})
	tok, ok := TokenFromRequest(r)
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)
}

package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	s := NewSessions("test-secret")

	token, err := s.Issue("u1", "user", "a@b.com")
	require.NoError(t, err)

	claims := s.Parse(token)
	require.NotNil(t, claims)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.False(t, claims.IsAdmin())
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseRejectsBadInput(t *testing.T) {
	s := NewSessions("test-secret")

	assert.Nil(t, s.Parse(""))
	assert.Nil(t, s.Parse("not-a-jwt"))
	assert.Nil(t, s.Parse("aaaa.bbbb.cccc"))
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewSessions("secret-one").Issue("u1", "user", "a@b.com")
	require.NoError(t, err)

	assert.Nil(t, NewSessions("secret-two").Parse(token))
}

func TestParseRejectsExpired(t *testing.T) {
	s := NewSessions("test-secret")

	claims := Claims{
		UserID: "u1",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	assert.Nil(t, s.Parse(token))
}

func TestParseRejectsUnexpectedAlg(t *testing.T) {
	s := NewSessions("test-secret")

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	assert.Nil(t, s.Parse(token))
}

func TestFromRequestCookie(t *testing.T) {
	s := NewSessions("test-secret")
	token, err := s.Issue("u1", "user", "a@b.com")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: token})

	claims := s.FromRequest(r)
	require.NotNil(t, claims)
	assert.Equal(t, "u1", claims.UserID)
}

func TestFromRequestBearerFallback(t *testing.T) {
	s := NewSessions("test-secret")
	token, err := s.Issue("u2", "admin", "c@d.com")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	claims := s.FromRequest(r)
	require.NotNil(t, claims)
	assert.Equal(t, "u2", claims.UserID)
	assert.True(t, claims.IsAdmin())
}

func TestFromRequestCookieWinsOverHeader(t *testing.T) {
	s := NewSessions("test-secret")
	cookieTok, err := s.Issue("cookie-user", "user", "a@b.com")
	require.NoError(t, err)
	headerTok, err := s.Issue("header-user", "user", "c@d.com")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: cookieTok})
	r.Header.Set("Authorization", "Bearer "+headerTok)

	claims := s.FromRequest(r)
	require.NotNil(t, claims)
	assert.Equal(t, "cookie-user", claims.UserID)
}

func TestFromRequestBadCookieFallsBackToHeader(t *testing.T) {
	s := NewSessions("test-secret")
	headerTok, err := s.Issue("header-user", "user", "c@d.com")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	r.Header.Set("Authorization", "Bearer "+headerTok)

	claims := s.FromRequest(r)
	require.NotNil(t, claims)
	assert.Equal(t, "header-user", claims.UserID)
}

func TestFromRequestEmpty(t *testing.T) {
	s := NewSessions("test-secret")
	assert.Nil(t, s.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)))
}

package security

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie the session token travels in. A bearer header is
// accepted as a fallback for cross-origin clients that can't attach cookies,
// with the cookie winning when both are present.
const CookieName = "token"

const sessionTTL = 7 * 24 * time.Hour

// Claims is the self-contained session payload. The role is carried inside
// the token, so a role change only takes effect once the token expires or
// the user logs in again.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == "admin"
}

// Sessions signs and validates HS256 session tokens.
type Sessions struct {
	secret []byte
}

func NewSessions(secret string) *Sessions {
	return &Sessions{secret: []byte(secret)}
}

// Issue mints a signed token with a 7 day absolute expiry
func (s *Sessions) Issue(userID, role, email string) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Parse validates a raw token and returns its claims, or nil for anything
// malformed, mis-signed or expired. Callers treat nil as anonymous, never
// as an error.
func (s *Sessions) Parse(tokenStr string) *Claims {
	if tokenStr == "" {
		return nil
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}

		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil
	}

	return claims
}

// FromRequest extracts session claims from the token cookie or, failing
// that, the Authorization header. Returns nil when the request carries no
// usable token.
func (s *Sessions) FromRequest(r *http.Request) *Claims {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		if claims := s.Parse(cookie.Value); claims != nil {
			return claims
		}
	}

	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return s.Parse(strings.TrimPrefix(auth, "Bearer "))
	}

	return nil
}

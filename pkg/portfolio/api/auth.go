package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth"
)

// NewAdminAuth returns the HS256 token authority for admin write routes
func NewAdminAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

// IssueAdminToken mints a bearer token accepted by the write routes
func IssueAdminToken(auth *jwtauth.JWTAuth, subject string, ttl time.Duration) (string, error) {
	if auth == nil {
		return "", errors.New("admin auth is not configured")
	}
	claims := map[string]interface{}{
		"sub":  subject,
		"role": "admin",
	}
	jwtauth.SetIssuedNow(claims)
	if ttl > 0 {
		jwtauth.SetExpiryIn(claims, ttl)
	}

	_, token, err := auth.Encode(claims)
	if err != nil {
		return "", err
	}
	return token, nil
}

// requireAdmin verifies the bearer token when auth is configured. A nil auth
// leaves the routes open.
func requireAdmin(auth *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	if auth == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	verify := jwtauth.Verifier(auth)
	return func(next http.Handler) http.Handler {
		return verify(jwtauth.Authenticator(next))
	}
}

package middleware

import (
	"net/http"

	"optionhub-api/internal/apierr"
)

// AuthMiddleware compares a shared secret against the token query parameter
// or the X-Api-Token header. An empty secret disables the check entirely.
type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.secret == "" {
			next(w, r)
			return
		}
		token := r.URL.Query().Get("token")
		if token == "" {
			token = r.Header.Get("X-Api-Token")
		}
		if token != m.secret {
			apierr.Write(w, apierr.ErrInvalidToken)
			return
		}
		next(w, r)
	}
}

package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Gate authenticates requests before they reach a resource handler. It is
// single-shot: no retry, no credential refresh. On failure the wrapped
// handler never runs.
type Gate struct {
	tokens *TokenService
	log    hclog.Logger
}

// NewGate returns a gate verifying credentials with tokens.
func NewGate(tokens *TokenService, log hclog.Logger) *Gate {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Gate{tokens: tokens, log: log.Named("auth")}
}

// Wrap returns a handler that authenticates the request, attaches the
// principal to the request context and then calls next. Missing credentials
// and failed verification both short-circuit with 401.
func (g *Gate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			g.log.Warn("missing bearer credential",
				"method", r.Method,
				"path", r.URL.Path,
			)
			writeUnauthorized(w, "no token provided")
			return
		}

		principal, err := g.tokens.Verify(token)
		if err != nil {
			g.log.Warn("credential verification failed",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
			writeUnauthorized(w, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// bearerToken extracts the token from a standard Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

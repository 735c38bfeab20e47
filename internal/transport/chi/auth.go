package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// publicPaths bypass authentication: probes and the alias vocabulary the
// dashboard loads before a user signs in.
var publicPaths = map[string]struct{}{
	"/health":         {},
	"/metrics":        {},
	"/api/v1/aliases": {},
}

const (
	unauthorized = "Unauthorized"
	apiKeyHeader = "X-API-Key"
	bearerPrefix = "Bearer "
)

// BearerAuthMiddleware returns a middleware that validates API keys sent as
// "Authorization: Bearer <key>" or in the X-API-Key header.
// If apiKeys is empty, authentication is disabled (pass-through).
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	var validKeys [][]byte
	for _, k := range apiKeys {
		if k != "" {
			validKeys = append(validKeys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		// Auth disabled: pass everything through
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, msg := credential(r)
			if msg != "" {
				writeError(w, http.StatusUnauthorized, ErrorResponseCodeUnauthorized, unauthorized, msg)
				return
			}
			if !validKey(validKeys, token) {
				writeError(w, http.StatusUnauthorized, ErrorResponseCodeUnauthorized, unauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// credential extracts the presented key. A non-empty msg explains why none
// could be read.
func credential(r *http.Request) (token, msg string) {
	if key := r.Header.Get(apiKeyHeader); key != "" {
		return key, ""
	}
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(auth, bearerPrefix) {
		return "", "authorization header must use Bearer scheme"
	}
	return auth[len(bearerPrefix):], ""
}

func validKey(keys [][]byte, token string) bool {
	t := []byte(token)
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, t)
	}
	return found == 1
}

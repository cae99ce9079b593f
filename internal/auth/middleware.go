package auth

import (
	"net/http"
	"strings"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/platform/logging"
	"tour-guide-service/internal/ports"

	"github.com/goccy/go-json"
)

// Authenticate requires a valid, unrevoked bearer token and stores the
// Principal in the request context. Failures answer 401.
func Authenticate(tokens *JWTManager, denylist ports.TokenDenylist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				logging.Ctx(r.Context()).Debug().Err(err).Msg("token rejected")
				unauthorized(w, "invalid token")
				return
			}

			if denylist != nil {
				revoked, err := denylist.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					logging.Ctx(r.Context()).Error().Err(err).Msg("token denylist lookup failed")
					writeAuthError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				if revoked {
					unauthorized(w, "token revoked")
					return
				}
			}

			ctx := WithPrincipal(r.Context(), principalFromClaims(claims))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles answers 403 unless the authenticated caller holds one of roles.
// It must run after Authenticate.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}
			if !p.HasAnyRole(roles...) {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer`)
	writeAuthError(w, http.StatusUnauthorized, msg)
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

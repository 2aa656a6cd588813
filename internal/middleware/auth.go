package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	domauth "github.com/bryanwahyu/salvage-vision/internal/domain/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

// OptionalBearerAuth resolves an optional caller identity from the
// Authorization header. A token is only sent to the verifier when it is
// structurally a signed token (three dot-separated segments); absence or any
// verification failure yields an anonymous request, never an error response.
func OptionalBearerAuth(verifier domauth.Verifier, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
			if len(strings.Split(token, ".")) != 3 {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := verifier.Verify(r.Context(), token)
			if err != nil || userID == "" {
				if err != nil {
					log.Debugw("bearer token rejected, continuing anonymous", "err", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the verified caller id, empty for anonymous.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/kirana/pkg/auth"
	"github.com/shashiranjanraj/kirana/pkg/logger"
	"github.com/shashiranjanraj/kirana/pkg/response"
)

// userIDKey is the unexported context key for the authenticated user ID.
type userIDKey struct{}

// RoleAdmin is the role value granting access to admin routes.
const RoleAdmin = 1

// RoleLookup resolves the current role for a user ID from persistence.
// Called once per guarded request; results are never cached.
type RoleLookup func(ctx context.Context, userID string) (int, error)

// UserIDFromCtx returns the authenticated user's ID (ObjectID hex) stored
// by Authenticate.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// WithUserID stores a user ID in ctx. Exported for handler tests.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// Authenticate validates the bearer token in the Authorization header and
// attaches the decoded user ID to the request context. Any failure —
// missing header, bad signature, expired token — answers 401 and never
// invokes the next handler.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		// The storefront client sends the bare token; tolerate a Bearer prefix.
		token := strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))

		if token == "" {
			response.Unauthorized(w, "Authorization token is required")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			logger.WithCtx(r.Context()).Warn("token rejected", "error", err.Error())
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := WithUserID(r.Context(), claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Admin allows only users whose current stored role is RoleAdmin. It must
// run after Authenticate and performs one persistence read per request.
func Admin(lookup RoleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w, "Authorization token is required")
				return
			}

			role, err := lookup(r.Context(), userID)
			if err != nil {
				logger.WithCtx(r.Context()).Error("role lookup failed", "user_id", userID, "error", err.Error())
				response.Unauthorized(w, "Unauthorized Access")
				return
			}
			if role != RoleAdmin {
				response.Forbidden(w, "Unauthorized Access")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

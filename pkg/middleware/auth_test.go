package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kirana/pkg/auth"
	"github.com/shashiranjanraj/kirana/pkg/middleware"
)

func protectedProbe(called *bool, gotUserID *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if id, ok := middleware.UserIDFromCtx(r.Context()); ok {
			*gotUserID = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateMissingToken(t *testing.T) {
	var called bool
	var userID string
	handler := middleware.Authenticate(protectedProbe(&called, &userID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called, "next handler must not run without a token")
}

func TestAuthenticateInvalidToken(t *testing.T) {
	var called bool
	var userID string
	handler := middleware.Authenticate(protectedProbe(&called, &userID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "not-a-valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthenticateValidToken(t *testing.T) {
	token, err := auth.GenerateToken("64f1a2b3c4d5e6f708192a3b")
	require.NoError(t, err)

	var called bool
	var userID string
	handler := middleware.Authenticate(protectedProbe(&called, &userID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, "64f1a2b3c4d5e6f708192a3b", userID)
}

func TestAuthenticateToleratesBearerPrefix(t *testing.T) {
	token, err := auth.GenerateToken("64f1a2b3c4d5e6f708192a3b")
	require.NoError(t, err)

	var called bool
	var userID string
	handler := middleware.Authenticate(protectedProbe(&called, &userID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "64f1a2b3c4d5e6f708192a3b", userID)
}

func adminRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	return req
}

func TestAdminAllowsAdminRole(t *testing.T) {
	var called bool
	guard := middleware.Admin(func(ctx context.Context, userID string) (int, error) {
		return middleware.RoleAdmin, nil
	})
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest("64f1a2b3c4d5e6f708192a3b"))

	assert.True(t, called)
}

func TestAdminRejectsRegularRole(t *testing.T) {
	var called bool
	guard := middleware.Admin(func(ctx context.Context, userID string) (int, error) {
		return 0, nil
	})
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest("64f1a2b3c4d5e6f708192a3b"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called, "next handler must not run for non-admins")
}

func TestAdminRejectsLookupFailure(t *testing.T) {
	guard := middleware.Admin(func(ctx context.Context, userID string) (int, error) {
		return 0, errors.New("user gone")
	})
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest("64f1a2b3c4d5e6f708192a3b"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRequiresAuthenticateFirst(t *testing.T) {
	guard := middleware.Admin(func(ctx context.Context, userID string) (int, error) {
		t.Fatal("lookup must not run without an authenticated user")
		return 0, nil
	})
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest(""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

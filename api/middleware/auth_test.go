package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/tradelink-io/tradelink-backend/pkg/auth"
	"github.com/tradelink-io/tradelink-backend/pkg/config"
	"github.com/tradelink-io/tradelink-backend/pkg/enums"
)

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-test-secret-middleware-test",
		Issuer:            "tradelink-test",
		ExpirationMinutes: 15,
	}
}

func TestAuthMiddleware(t *testing.T) {
	cfg := authTestConfig()
	userID := uuid.New()
	profileID := uuid.New()

	var gotUser, gotRole, gotProfile string
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotProfile = ProfileIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token seeds context", func(t *testing.T) {
		token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
			UserID:    userID,
			Role:      enums.AccountRoleCompany,
			ProfileID: profileID,
		})
		if err != nil {
			t.Fatalf("MintAccessToken: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if gotUser != userID.String() {
			t.Fatalf("user id = %q", gotUser)
		}
		if gotRole != "company" {
			t.Fatalf("role = %q", gotRole)
		}
		if gotProfile != profileID.String() {
			t.Fatalf("profile id = %q", gotProfile)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := cfg
		other.Secret = "a-different-secret-a-different-secret"
		token, err := pkgauth.MintAccessToken(other, time.Now(), pkgauth.AccessTokenPayload{
			UserID:    userID,
			Role:      enums.AccountRoleCompany,
			ProfileID: profileID,
		})
		if err != nil {
			t.Fatalf("MintAccessToken: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole("company", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), "u1", "company", "p1"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("other role forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), "u1", "retailer", "p1"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

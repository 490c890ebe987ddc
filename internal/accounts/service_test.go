package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/tradelink-io/tradelink-backend/pkg/auth"
	"github.com/tradelink-io/tradelink-backend/pkg/config"
	"github.com/tradelink-io/tradelink-backend/pkg/db/models"
	"github.com/tradelink-io/tradelink-backend/pkg/enums"
	pkgerrors "github.com/tradelink-io/tradelink-backend/pkg/errors"
	"github.com/tradelink-io/tradelink-backend/pkg/security"
)

type fakeUsers struct {
	byEmail map[string]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*models.User{}}
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

// WithTx runs fn against a nil DB; the fakes intercept no SQL, so tests that
// exercise registration use the seeded fixture helpers instead.
func (f *fakeUsers) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeProfiles struct {
	companies map[uuid.UUID]*models.Company
	retailers map[uuid.UUID]*models.Retailer
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		companies: map[uuid.UUID]*models.Company{},
		retailers: map[uuid.UUID]*models.Retailer{},
	}
}

func (f *fakeProfiles) FindCompanyByOwner(_ context.Context, owner uuid.UUID) (*models.Company, error) {
	company, ok := f.companies[owner]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return company, nil
}

func (f *fakeProfiles) FindRetailerByOwner(_ context.Context, owner uuid.UUID) (*models.Retailer, error) {
	retailer, ok := f.retailers[owner]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return retailer, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		Issuer:            "tradelink-test",
		ExpirationMinutes: 15,
	}
}

func seedCompanyUser(t *testing.T, users *fakeUsers, profiles *fakeProfiles, email, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         enums.AccountRoleCompany,
		IsActive:     true,
	}
	users.byEmail[email] = user
	profiles.companies[user.ID] = &models.Company{ID: uuid.New(), OwnerUserID: user.ID, Name: "Seeded Co"}
	return user
}

func newAccountsService(t *testing.T, users *fakeUsers, profiles *fakeProfiles) Service {
	t.Helper()
	svc, err := NewService(users, profiles, testJWTConfig(), config.PasswordConfig{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials mint a typed token", func(t *testing.T) {
		users := newFakeUsers()
		profiles := newFakeProfiles()
		user := seedCompanyUser(t, users, profiles, "owner@acme.test", "correct horse battery")
		svc := newAccountsService(t, users, profiles)

		session, err := svc.Login(context.Background(), LoginInput{Email: "Owner@Acme.test", Password: "correct horse battery"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if session.UserID != user.ID {
			t.Fatalf("user id = %s", session.UserID)
		}
		if session.Role != enums.AccountRoleCompany {
			t.Fatalf("role = %s", session.Role)
		}

		claims, err := pkgauth.ParseAccessToken(testJWTConfig(), session.AccessToken)
		if err != nil {
			t.Fatalf("ParseAccessToken: %v", err)
		}
		if claims.ProfileID != session.ProfileID {
			t.Fatalf("profile id = %s, want %s", claims.ProfileID, session.ProfileID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		users := newFakeUsers()
		profiles := newFakeProfiles()
		seedCompanyUser(t, users, profiles, "owner@acme.test", "correct horse battery")
		svc := newAccountsService(t, users, profiles)

		_, err := svc.Login(context.Background(), LoginInput{Email: "owner@acme.test", Password: "wrong"})
		assertCode(t, err, pkgerrors.CodeUnauthorized)
	})

	t.Run("unknown email reports the same failure", func(t *testing.T) {
		svc := newAccountsService(t, newFakeUsers(), newFakeProfiles())
		_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@acme.test", Password: "whatever"})
		assertCode(t, err, pkgerrors.CodeUnauthorized)
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		users := newFakeUsers()
		profiles := newFakeProfiles()
		user := seedCompanyUser(t, users, profiles, "owner@acme.test", "correct horse battery")
		user.IsActive = false
		svc := newAccountsService(t, users, profiles)

		_, err := svc.Login(context.Background(), LoginInput{Email: "owner@acme.test", Password: "correct horse battery"})
		assertCode(t, err, pkgerrors.CodeUnauthorized)
	})
}

func TestRegisterEmailConflict(t *testing.T) {
	users := newFakeUsers()
	profiles := newFakeProfiles()
	seedCompanyUser(t, users, profiles, "owner@acme.test", "correct horse battery")
	svc := newAccountsService(t, users, profiles)

	_, err := svc.RegisterCompany(context.Background(), RegisterCompanyInput{
		Email:       "OWNER@acme.test",
		Password:    "another password!",
		CompanyName: "Duplicate Co",
	})
	assertCode(t, err, pkgerrors.CodeConflict)

	_, err = svc.RegisterRetailer(context.Background(), RegisterRetailerInput{
		Email:        "owner@acme.test",
		Password:     "another password!",
		RetailerName: "Duplicate Shop",
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestTokenExpiry(t *testing.T) {
	cfg := testJWTConfig()
	payload := pkgauth.AccessTokenPayload{
		UserID:    uuid.New(),
		Role:      enums.AccountRoleRetailer,
		ProfileID: uuid.New(),
	}
	issued := time.Now().Add(-time.Hour)
	token, err := pkgauth.MintAccessToken(cfg, issued, payload)
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	if _, err := pkgauth.ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expired token should not parse")
	}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected app error, got %v", err)
	}
	if appErr.Code() != code {
		t.Fatalf("code = %s, want %s", appErr.Code(), code)
	}
}

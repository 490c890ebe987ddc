package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/tradelink-io/tradelink-backend/pkg/auth"
	"github.com/tradelink-io/tradelink-backend/pkg/config"
	"github.com/tradelink-io/tradelink-backend/pkg/db/models"
	"github.com/tradelink-io/tradelink-backend/pkg/enums"
	pkgerrors "github.com/tradelink-io/tradelink-backend/pkg/errors"
	"github.com/tradelink-io/tradelink-backend/pkg/logger"
	"github.com/tradelink-io/tradelink-backend/pkg/security"
)

// Service registers accounts and issues access tokens. Every account owns
// exactly one profile: a company for sellers, a retailer for buyers.
type Service interface {
	RegisterCompany(ctx context.Context, input RegisterCompanyInput) (*Session, error)
	RegisterRetailer(ctx context.Context, input RegisterRetailerInput) (*Session, error)
	Login(ctx context.Context, input LoginInput) (*Session, error)
}

type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type profileFinder interface {
	FindCompanyByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Company, error)
	FindRetailerByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Retailer, error)
}

type service struct {
	users    userStore
	profiles profileFinder
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs the accounts service.
func NewService(users userStore, profiles profileFinder, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile finder required")
	}
	return &service{
		users:    users,
		profiles: profiles,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) RegisterCompany(ctx context.Context, input RegisterCompanyInput) (*Session, error) {
	email := normalizeEmail(input.Email)
	if err := s.checkEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	country := strings.ToUpper(strings.TrimSpace(input.Country))
	if country == "" {
		country = "US"
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         enums.AccountRoleCompany,
		IsActive:     true,
	}
	company := &models.Company{
		Name:      strings.TrimSpace(input.CompanyName),
		LegalName: input.LegalName,
		Website:   input.Website,
		Country:   country,
		IsActive:  true,
	}

	err = s.users.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		company.OwnerUserID = user.ID
		return tx.Create(company).Error
	})
	if err != nil {
		if dump := pkgerrors.Dump(err); dump.PGCode == "23505" {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register company")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "accounts.company.registered")
	}
	return s.mintSession(user, company.ID)
}

func (s *service) RegisterRetailer(ctx context.Context, input RegisterRetailerInput) (*Session, error) {
	email := normalizeEmail(input.Email)
	if err := s.checkEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         enums.AccountRoleRetailer,
		IsActive:     true,
	}
	retailer := &models.Retailer{
		Name:     strings.TrimSpace(input.RetailerName),
		Region:   input.Region,
		IsActive: true,
	}

	err = s.users.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		retailer.OwnerUserID = user.ID
		return tx.Create(retailer).Error
	})
	if err != nil {
		if dump := pkgerrors.Dump(err); dump.PGCode == "23505" {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register retailer")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "accounts.retailer.registered")
	}
	return s.mintSession(user, retailer.ID)
}

// Login verifies credentials and issues a fresh access token. Unknown
// emails and wrong passwords report the same failure.
func (s *service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	profileID, err := s.profileID(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.mintSession(user, profileID)
}

func (s *service) profileID(ctx context.Context, user *models.User) (uuid.UUID, error) {
	switch user.Role {
	case enums.AccountRoleCompany:
		company, err := s.profiles.FindCompanyByOwner(ctx, user.ID)
		if err != nil {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company profile")
		}
		return company.ID, nil
	case enums.AccountRoleRetailer:
		retailer, err := s.profiles.FindRetailerByOwner(ctx, user.ID)
		if err != nil {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load retailer profile")
		}
		return retailer.ID, nil
	default:
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeInternal, "unknown account role")
	}
}

func (s *service) mintSession(user *models.User, profileID uuid.UUID) (*Session, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:    user.ID,
		Role:      user.Role,
		ProfileID: profileID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &Session{
		AccessToken: token,
		UserID:      user.ID,
		Role:        user.Role,
		ProfileID:   profileID,
	}, nil
}

func (s *service) checkEmailFree(ctx context.Context, email string) error {
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if existing, err := s.users.FindByEmail(ctx, email); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	} else if existing != nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

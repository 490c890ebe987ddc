package promotions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tradelink-io/tradelink-backend/internal/catalog"
	"github.com/tradelink-io/tradelink-backend/pkg/db/models"
	"github.com/tradelink-io/tradelink-backend/pkg/enums"
	pkgerrors "github.com/tradelink-io/tradelink-backend/pkg/errors"
	"github.com/tradelink-io/tradelink-backend/pkg/logger"
)

// CreatePromotionInput describes a new discount campaign. A percentage value
// reduces each unit price; a fixed value comes off the order total.
type CreatePromotionInput struct {
	Name      string          `json:"name" validate:"required,min=2,max=160"`
	Kind      string          `json:"kind" validate:"required,oneof=percentage fixed"`
	Value     decimal.Decimal `json:"value" validate:"required"`
	StartDate time.Time       `json:"start_date" validate:"required"`
	EndDate   time.Time       `json:"end_date" validate:"required"`
}

// Service manages promotion campaigns and their product links.
type Service interface {
	Create(ctx context.Context, companyID uuid.UUID, input CreatePromotionInput) (*models.Promotion, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Promotion, error)
	LinkProduct(ctx context.Context, promotionID uuid.UUID, productID string) error
	UnlinkProduct(ctx context.Context, promotionID uuid.UUID, productID string) error
	GetActiveForProduct(ctx context.Context, productID string, now time.Time) ([]models.Promotion, error)
}

type store interface {
	Create(ctx context.Context, promotion *models.Promotion) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Promotion, error)
	LinkProduct(ctx context.Context, promotionID uuid.UUID, productID string) error
	UnlinkProduct(ctx context.Context, promotionID uuid.UUID, productID string) error
	GetActiveForProduct(ctx context.Context, productID string, now time.Time) ([]models.Promotion, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id string) (*catalog.ProductDocument, error)
}

type service struct {
	store    store
	products productFinder
	logg     *logger.Logger
}

// NewService constructs the promotions service. Linking checks the catalog
// store because product ids cross the store boundary with no foreign key.
func NewService(s store, products productFinder, logg *logger.Logger) (Service, error) {
	if s == nil {
		return nil, fmt.Errorf("promotion store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{store: s, products: products, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, companyID uuid.UUID, input CreatePromotionInput) (*models.Promotion, error) {
	kind, err := enums.ParseDiscountKind(input.Kind)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount kind")
	}
	if !input.Value.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "value must be positive")
	}
	if kind == enums.DiscountKindPercentage && input.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage value cannot exceed 100")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date must be after start date")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	promotion := &models.Promotion{
		CompanyID: companyID,
		Name:      name,
		Kind:      kind,
		Value:     input.Value,
		IsActive:  true,
		StartDate: input.StartDate.UTC(),
		EndDate:   input.EndDate.UTC(),
	}
	if err := s.store.Create(ctx, promotion); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promotion")
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"promotion_id": promotion.ID,
			"company_id":   companyID,
		})
		s.logg.Info(ctx, "promotions.created")
	}
	return promotion, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	promotion, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
	}
	return promotion, nil
}

func (s *service) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Promotion, error) {
	out, err := s.store.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promotions")
	}
	return out, nil
}

// LinkProduct attaches a promotion to a catalog product. The product id is
// verified against the catalog store before the link row is written.
func (s *service) LinkProduct(ctx context.Context, promotionID uuid.UUID, productID string) error {
	if _, err := s.Get(ctx, promotionID); err != nil {
		return err
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.store.LinkProduct(ctx, promotionID, productID); err != nil {
		if dump := pkgerrors.Dump(err); dump.PGCode == "23505" {
			return pkgerrors.New(pkgerrors.CodeConflict, "product already linked")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link product")
	}
	return nil
}

func (s *service) UnlinkProduct(ctx context.Context, promotionID uuid.UUID, productID string) error {
	if _, err := s.Get(ctx, promotionID); err != nil {
		return err
	}
	if err := s.store.UnlinkProduct(ctx, promotionID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unlink product")
	}
	return nil
}

func (s *service) GetActiveForProduct(ctx context.Context, productID string, now time.Time) ([]models.Promotion, error) {
	out, err := s.store.GetActiveForProduct(ctx, productID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active promotions")
	}
	return out, nil
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"

	"github.com/tradelink-io/tradelink-backend/pkg/db/models"
	"github.com/tradelink-io/tradelink-backend/pkg/enums"
	pkgerrors "github.com/tradelink-io/tradelink-backend/pkg/errors"
	"github.com/tradelink-io/tradelink-backend/pkg/logger"
	"github.com/tradelink-io/tradelink-backend/pkg/metrics"
	"github.com/tradelink-io/tradelink-backend/pkg/money"
)

// Service exposes the catalog write path and reads over product listings.
// Ownership is enforced by the caller; this service trusts that the acting
// company has already been checked against the document.
type Service interface {
	CreateProduct(ctx context.Context, companyID uuid.UUID, input CreateProductInput) (*ProductDocument, error)
	GetProduct(ctx context.Context, productID string) (*ProductDocument, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDocument, error)
	SearchProducts(ctx context.Context, query SearchQuery) ([]ProductDocument, int64, error)
	UpdateInventory(ctx context.Context, productID string, newAvailable int) (*ProductDocument, error)
	UpdatePricing(ctx context.Context, productID string, input UpdatePricingInput) (*ProductDocument, error)
	DeactivateProduct(ctx context.Context, productID string) (*ProductDocument, error)
}

type productStore interface {
	Insert(ctx context.Context, doc *ProductDocument) error
	FindByID(ctx context.Context, id string) (*ProductDocument, error)
	FindBySlug(ctx context.Context, slug string) (*ProductDocument, error)
	FindBySKU(ctx context.Context, sku string) (*ProductDocument, error)
	UpdateFields(ctx context.Context, id string, fields bson.M) (*ProductDocument, error)
	Search(ctx context.Context, query SearchQuery) ([]ProductDocument, int64, error)
}

type companyLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type service struct {
	store      productStore
	companies  companyLoader
	categories categoryLoader
	logg       *logger.Logger
	metrics    *metrics.PricingMetrics
}

// NewService constructs the catalog service.
func NewService(store productStore, companies companyLoader, categories categoryLoader, logg *logger.Logger, m *metrics.PricingMetrics) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("product store required")
	}
	if companies == nil {
		return nil, fmt.Errorf("company loader required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category loader required")
	}
	return &service{
		store:      store,
		companies:  companies,
		categories: categories,
		logg:       logg,
		metrics:    m,
	}, nil
}

// CreateProduct verifies the relational parents, snapshots the category
// labels into the document, and inserts the listing.
func (s *service) CreateProduct(ctx context.Context, companyID uuid.UUID, input CreateProductInput) (*ProductDocument, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}

	category, err := s.categories.FindByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	sku := strings.TrimSpace(input.SKU)
	if existing, err := s.store.FindBySKU(ctx, sku); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check sku")
	} else if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
	}

	doc, err := buildProductDocument(companyID, category, input)
	if err != nil {
		return nil, err
	}

	if err := s.store.Insert(ctx, doc); err != nil {
		if pkgerrors.IsMongoDuplicateKey(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"product_id": doc.ID,
			"company_id": doc.CompanyID,
			"sku":        doc.SKU,
		})
		s.logg.Info(ctx, "catalog.product.created")
	}
	return doc, nil
}

// GetProduct fetches a listing by id.
func (s *service) GetProduct(ctx context.Context, productID string) (*ProductDocument, error) {
	return s.loadProduct(ctx, productID)
}

// GetProductBySlug fetches an active listing by slug.
func (s *service) GetProductBySlug(ctx context.Context, slug string) (*ProductDocument, error) {
	doc, err := s.store.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return doc, nil
}

// SearchProducts lists active documents matching the query.
func (s *service) SearchProducts(ctx context.Context, query SearchQuery) ([]ProductDocument, int64, error) {
	docs, total, err := s.store.Search(ctx, query)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}
	return docs, total, nil
}

// UpdateInventory overwrites the available count and refreshes the
// last-updated stamp. Crossing the reorder level is reported, not enforced.
// Concurrent updates race last-write-wins on the available field.
func (s *service) UpdateInventory(ctx context.Context, productID string, newAvailable int) (*ProductDocument, error) {
	if newAvailable < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "available quantity must be non-negative")
	}

	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}

	doc, err := s.store.UpdateFields(ctx, productID, bson.M{
		"inventory.available":    newAvailable,
		"inventory.last_updated": time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory")
	}

	if doc.Inventory.Available <= doc.Inventory.ReorderLevel {
		s.metrics.IncLowStock(doc.CompanyID)
		if s.logg != nil {
			ctx = s.logg.WithFields(ctx, map[string]any{
				"product_id":    doc.ID,
				"available":     doc.Inventory.Available,
				"reorder_level": doc.Inventory.ReorderLevel,
			})
			s.logg.Warn(ctx, "catalog.inventory.low_stock")
		}
	}
	return doc, nil
}

// UpdatePricing replaces the base price and tier rules.
func (s *service) UpdatePricing(ctx context.Context, productID string, input UpdatePricingInput) (*ProductDocument, error) {
	if err := validatePricing(input.BasePrice, input.Tiers); err != nil {
		return nil, err
	}

	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}

	basePrice, err := money.ToDecimal128(input.BasePrice)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid base price")
	}
	tiers, err := buildTiers(input.Tiers)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.UpdateFields(ctx, productID, bson.M{
		"pricing.base_price": basePrice,
		"pricing.tiers":      tiers,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pricing")
	}
	return doc, nil
}

// DeactivateProduct soft-deletes the listing. Idempotent: deactivating an
// already-inactive product returns it unchanged.
func (s *service) DeactivateProduct(ctx context.Context, productID string) (*ProductDocument, error) {
	doc, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !doc.Visibility.IsActive {
		return doc, nil
	}

	updated, err := s.store.UpdateFields(ctx, productID, bson.M{
		"visibility.is_active": false,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate product")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "product_id", productID), "catalog.product.deactivated")
	}
	return updated, nil
}

func (s *service) loadProduct(ctx context.Context, productID string) (*ProductDocument, error) {
	doc, err := s.store.FindByID(ctx, strings.TrimSpace(productID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return doc, nil
}

func buildProductDocument(companyID uuid.UUID, category *models.Category, input CreateProductInput) (*ProductDocument, error) {
	basePrice, err := money.ToDecimal128(input.BasePrice)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid base price")
	}
	tiers, err := buildTiers(input.Tiers)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = money.DefaultCurrency
	}

	minOrderQty := input.MinOrderQty
	if minOrderQty < 1 {
		minOrderQty = 1
	}

	visibleTo := input.VisibleTo
	if len(visibleTo) == 0 {
		visibleTo = []string{"all"}
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	name := strings.TrimSpace(input.Name)
	sku := strings.TrimSpace(input.SKU)
	now := time.Now().UTC()

	return &ProductDocument{
		ID:               uuid.NewString(),
		CompanyID:        companyID.String(),
		Name:             name,
		Slug:             ProductSlug(name, sku),
		SKU:              sku,
		Barcode:          input.Barcode,
		Description:      input.Description,
		ShortDescription: input.ShortDescription,
		Category:         snapshotCategory(category, tags),
		Pricing: PricingInfo{
			BasePrice: basePrice,
			Currency:  currency,
			Tiers:     tiers,
		},
		Inventory: InventoryInfo{
			Available:    input.InitialStock,
			Reserved:     0,
			ReorderLevel: input.ReorderLevel,
			LastUpdated:  now,
		},
		MinOrderQty: minOrderQty,
		MaxOrderQty: input.MaxOrderQty,
		Visibility: VisibilityInfo{
			IsActive:  true,
			VisibleTo: visibleTo,
			Regions:   input.Regions,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// snapshotCategory copies the category display names at creation time. The
// copy is not kept live: renaming the category later must not change
// existing documents.
func snapshotCategory(category *models.Category, tags []string) CategoryInfo {
	info := CategoryInfo{
		ID:      category.ID.String(),
		Primary: category.Name,
		Tags:    tags,
	}
	if category.Parent != nil {
		info.Primary = category.Parent.Name
		secondary := category.Name
		info.Secondary = &secondary
	}
	return info
}

func buildTiers(inputs []VolumeTierInput) ([]VolumeTier, error) {
	tiers := make([]VolumeTier, 0, len(inputs))
	for _, tier := range inputs {
		value, err := money.ToDecimal128(tier.DiscountValue)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tier discount value")
		}
		tiers = append(tiers, VolumeTier{
			MinQuantity:   tier.MinQuantity,
			DiscountValue: value,
			DiscountKind:  tier.DiscountKind,
		})
	}
	return tiers, nil
}

func validateCreateInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.InitialStock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "initial stock must be non-negative")
	}
	if input.ReorderLevel < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reorder level must be non-negative")
	}
	if input.MaxOrderQty != 0 && input.MaxOrderQty < input.MinOrderQty {
		return pkgerrors.New(pkgerrors.CodeValidation, "max order quantity cannot be below min order quantity")
	}
	return validatePricing(input.BasePrice, input.Tiers)
}

func validatePricing(basePrice decimal.Decimal, tiers []VolumeTierInput) error {
	if !basePrice.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "base price must be positive")
	}

	seen := make(map[int]struct{}, len(tiers))
	for _, tier := range tiers {
		if tier.MinQuantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier min quantity must be at least 1")
		}
		if _, ok := seen[tier.MinQuantity]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate tier min quantity")
		}
		seen[tier.MinQuantity] = struct{}{}

		if !tier.DiscountValue.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier discount value must be positive")
		}
		switch tier.DiscountKind {
		case enums.DiscountKindPercentage:
			if tier.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
				return pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
			}
		case enums.DiscountKindFixed:
			// flat per-unit reductions are clamped at resolution time
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid tier discount kind")
		}
	}
	return nil
}

package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tradelink-io/tradelink-backend/internal/catalog"
	"github.com/tradelink-io/tradelink-backend/pkg/db/models"
	pkgerrors "github.com/tradelink-io/tradelink-backend/pkg/errors"
	"github.com/tradelink-io/tradelink-backend/pkg/logger"
	"github.com/tradelink-io/tradelink-backend/pkg/metrics"
)

// Service quotes effective prices for catalog products.
type Service interface {
	Quote(ctx context.Context, productID string, quantity int) (*Quote, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id string) (*catalog.ProductDocument, error)
}

type promotionSource interface {
	GetActiveForProduct(ctx context.Context, productID string, now time.Time) ([]models.Promotion, error)
}

type service struct {
	products   productFinder
	promotions promotionSource
	logg       *logger.Logger
	metrics    *metrics.PricingMetrics
	now        func() time.Time
}

// NewService constructs the pricing service.
func NewService(products productFinder, promotions promotionSource, logg *logger.Logger, m *metrics.PricingMetrics) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if promotions == nil {
		return nil, fmt.Errorf("promotion source required")
	}
	return &service{
		products:   products,
		promotions: promotions,
		logg:       logg,
		metrics:    m,
		now:        time.Now,
	}, nil
}

// Quote validates the requested quantity against the product's order rules
// and resolves the best available discount. The product document and the
// promotion rows live in different stores, so both are fetched in parallel.
func (s *service) Quote(ctx context.Context, productID string, quantity int) (*Quote, error) {
	start := s.now()

	var (
		doc    *catalog.ProductDocument
		promos []models.Promotion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.products.FindByID(gctx, productID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		doc = found
		return nil
	})
	g.Go(func() error {
		active, err := s.promotions.GetActiveForProduct(gctx, productID, start)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotions")
		}
		promos = active
		return nil
	})
	if err := g.Wait(); err != nil {
		s.metrics.ObserveResolution("error", s.now().Sub(start))
		return nil, err
	}

	if !doc.Visibility.IsActive {
		s.metrics.ObserveResolution("error", s.now().Sub(start))
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if err := ValidateQuantity(doc, quantity); err != nil {
		s.metrics.ObserveResolution("rejected", s.now().Sub(start))
		return nil, err
	}

	basePrice, err := doc.BasePrice()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode base price")
	}
	tiers, err := tierRules(doc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode tiers")
	}

	quote := ResolvePrice(doc.ID, basePrice, doc.Pricing.Currency, quantity, tiers, promotionRules(promos))

	s.metrics.ObserveResolution("ok", s.now().Sub(start))
	if quote.Discount != nil {
		s.metrics.IncRequest(quote.Discount.Source.String())
	}
	if s.logg != nil {
		fields := map[string]any{
			"product_id": doc.ID,
			"quantity":   quantity,
			"unit_price": quote.UnitPrice.String(),
		}
		if quote.Discount != nil {
			fields["total_saved"] = quote.Discount.Amount.String()
		}
		ctx = s.logg.WithFields(ctx, fields)
		s.logg.Debug(ctx, "pricing.quote.resolved")
	}
	return &quote, nil
}

func tierRules(doc *catalog.ProductDocument) ([]TierRule, error) {
	rules := make([]TierRule, 0, len(doc.Pricing.Tiers))
	for _, tier := range doc.Pricing.Tiers {
		value, err := tier.Value()
		if err != nil {
			return nil, err
		}
		rules = append(rules, TierRule{
			MinQuantity: tier.MinQuantity,
			Kind:        tier.DiscountKind,
			Value:       value,
		})
	}
	return rules, nil
}

func promotionRules(promos []models.Promotion) []PromotionRule {
	rules := make([]PromotionRule, 0, len(promos))
	for _, promo := range promos {
		rules = append(rules, PromotionRule{
			ID:    promo.ID.String(),
			Name:  promo.Name,
			Kind:  promo.Kind,
			Value: promo.Value,
		})
	}
	return rules
}

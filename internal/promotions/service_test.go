package promotions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tradelink-io/tradelink-backend/internal/catalog"
	"github.com/tradelink-io/tradelink-backend/pkg/db/models"
	"github.com/tradelink-io/tradelink-backend/pkg/enums"
	pkgerrors "github.com/tradelink-io/tradelink-backend/pkg/errors"
)

type fakeStore struct {
	promos map[uuid.UUID]*models.Promotion
	links  map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{promos: map[uuid.UUID]*models.Promotion{}, links: map[string]bool{}}
}

func (f *fakeStore) Create(_ context.Context, promotion *models.Promotion) error {
	if promotion.ID == uuid.Nil {
		promotion.ID = uuid.New()
	}
	f.promos[promotion.ID] = promotion
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id uuid.UUID) (*models.Promotion, error) {
	promo, ok := f.promos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return promo, nil
}

func (f *fakeStore) ListByCompany(_ context.Context, companyID uuid.UUID) ([]models.Promotion, error) {
	var out []models.Promotion
	for _, promo := range f.promos {
		if promo.CompanyID == companyID {
			out = append(out, *promo)
		}
	}
	return out, nil
}

func (f *fakeStore) LinkProduct(_ context.Context, promotionID uuid.UUID, productID string) error {
	f.links[promotionID.String()+"/"+productID] = true
	return nil
}

func (f *fakeStore) UnlinkProduct(_ context.Context, promotionID uuid.UUID, productID string) error {
	delete(f.links, promotionID.String()+"/"+productID)
	return nil
}

func (f *fakeStore) GetActiveForProduct(_ context.Context, productID string, now time.Time) ([]models.Promotion, error) {
	var out []models.Promotion
	for _, promo := range f.promos {
		if f.links[promo.ID.String()+"/"+productID] && promo.InWindow(now) {
			out = append(out, *promo)
		}
	}
	return out, nil
}

type fakeProducts struct {
	ids map[string]bool
}

func (f *fakeProducts) FindByID(_ context.Context, id string) (*catalog.ProductDocument, error) {
	if !f.ids[id] {
		return nil, catalog.ErrNotFound
	}
	return &catalog.ProductDocument{ID: id}, nil
}

func validInput() CreatePromotionInput {
	now := time.Now().UTC()
	return CreatePromotionInput{
		Name:      "Spring Clearance",
		Kind:      "percentage",
		Value:     decimal.RequireFromString("10"),
		StartDate: now,
		EndDate:   now.Add(14 * 24 * time.Hour),
	}
}

func newTestService(t *testing.T, store *fakeStore, products *fakeProducts) Service {
	t.Helper()
	if products == nil {
		products = &fakeProducts{ids: map[string]bool{}}
	}
	svc, err := NewService(store, products, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreatePromotion(t *testing.T) {
	companyID := uuid.New()

	t.Run("creates active campaign", func(t *testing.T) {
		svc := newTestService(t, newFakeStore(), nil)
		promo, err := svc.Create(context.Background(), companyID, validInput())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if !promo.IsActive {
			t.Fatal("new promotion should be active")
		}
		if promo.Kind != enums.DiscountKindPercentage {
			t.Fatalf("kind = %s", promo.Kind)
		}
	})

	t.Run("rejects end before start", func(t *testing.T) {
		svc := newTestService(t, newFakeStore(), nil)
		input := validInput()
		input.EndDate = input.StartDate.Add(-time.Hour)
		_, err := svc.Create(context.Background(), companyID, input)
		assertCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("rejects zero-length window", func(t *testing.T) {
		svc := newTestService(t, newFakeStore(), nil)
		input := validInput()
		input.EndDate = input.StartDate
		_, err := svc.Create(context.Background(), companyID, input)
		assertCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("rejects percentage above 100", func(t *testing.T) {
		svc := newTestService(t, newFakeStore(), nil)
		input := validInput()
		input.Value = decimal.RequireFromString("150")
		_, err := svc.Create(context.Background(), companyID, input)
		assertCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		svc := newTestService(t, newFakeStore(), nil)
		input := validInput()
		input.Kind = "bogo"
		_, err := svc.Create(context.Background(), companyID, input)
		assertCode(t, err, pkgerrors.CodeValidation)
	})
}

func TestLinkProduct(t *testing.T) {
	companyID := uuid.New()

	t.Run("verifies product exists across stores", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(t, store, &fakeProducts{ids: map[string]bool{}})
		promo, err := svc.Create(context.Background(), companyID, validInput())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		err = svc.LinkProduct(context.Background(), promo.ID, "missing-product")
		assertCode(t, err, pkgerrors.CodeNotFound)
	})

	t.Run("links and resolves active promotions", func(t *testing.T) {
		store := newFakeStore()
		productID := uuid.NewString()
		svc := newTestService(t, store, &fakeProducts{ids: map[string]bool{productID: true}})
		promo, err := svc.Create(context.Background(), companyID, validInput())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		if err := svc.LinkProduct(context.Background(), promo.ID, productID); err != nil {
			t.Fatalf("LinkProduct: %v", err)
		}

		active, err := svc.GetActiveForProduct(context.Background(), productID, time.Now().UTC().Add(time.Hour))
		if err != nil {
			t.Fatalf("GetActiveForProduct: %v", err)
		}
		if len(active) != 1 {
			t.Fatalf("active = %d", len(active))
		}
	})

	t.Run("unknown promotion", func(t *testing.T) {
		svc := newTestService(t, newFakeStore(), nil)
		err := svc.LinkProduct(context.Background(), uuid.New(), "p1")
		assertCode(t, err, pkgerrors.CodeNotFound)
	})
}

func TestPromotionWindow(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	promo := models.Promotion{IsActive: true, StartDate: start, EndDate: end}

	if !promo.InWindow(start) {
		t.Fatal("window includes its start instant")
	}
	if promo.InWindow(end) {
		t.Fatal("window excludes its end instant")
	}
	if promo.InWindow(start.Add(-time.Second)) {
		t.Fatal("window excludes times before start")
	}
	if !promo.InWindow(end.Add(-time.Second)) {
		t.Fatal("window includes times just before end")
	}

	disabled := promo
	disabled.IsActive = false
	if disabled.InWindow(start.Add(time.Hour)) {
		t.Fatal("disabled promotion is never in window")
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

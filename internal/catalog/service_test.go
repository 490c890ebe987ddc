package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"

	"github.com/tradelink-io/tradelink-backend/pkg/db/models"
	"github.com/tradelink-io/tradelink-backend/pkg/enums"
	pkgerrors "github.com/tradelink-io/tradelink-backend/pkg/errors"
)

type fakeStore struct {
	docs      map[string]*ProductDocument
	bySKU     map[string]string
	updates   []bson.M
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string]*ProductDocument{}, bySKU: map[string]string{}}
}

func (f *fakeStore) Insert(_ context.Context, doc *ProductDocument) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.docs[doc.ID] = doc
	f.bySKU[doc.SKU] = doc.ID
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*ProductDocument, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeStore) FindBySlug(_ context.Context, slug string) (*ProductDocument, error) {
	for _, doc := range f.docs {
		if doc.Slug == slug && doc.Visibility.IsActive {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) FindBySKU(_ context.Context, sku string) (*ProductDocument, error) {
	id, ok := f.bySKU[sku]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *f.docs[id]
	return &copied, nil
}

func (f *fakeStore) UpdateFields(_ context.Context, id string, fields bson.M) (*ProductDocument, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	f.updates = append(f.updates, fields)
	if v, ok := fields["inventory.available"]; ok {
		doc.Inventory.Available = v.(int)
	}
	if v, ok := fields["visibility.is_active"]; ok {
		doc.Visibility.IsActive = v.(bool)
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeStore) Search(_ context.Context, _ SearchQuery) ([]ProductDocument, int64, error) {
	out := make([]ProductDocument, 0, len(f.docs))
	for _, doc := range f.docs {
		out = append(out, *doc)
	}
	return out, int64(len(out)), nil
}

type fakeCompanies struct {
	company *models.Company
}

func (f *fakeCompanies) FindByID(_ context.Context, id uuid.UUID) (*models.Company, error) {
	if f.company == nil || f.company.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.company, nil
}

type fakeCategories struct {
	category *models.Category
}

func (f *fakeCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if f.category == nil || f.category.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.category, nil
}

func newTestService(t *testing.T, store *fakeStore, company *models.Company, category *models.Category) Service {
	t.Helper()
	svc, err := NewService(store, &fakeCompanies{company: company}, &fakeCategories{category: category}, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func validCreateInput(categoryID uuid.UUID) CreateProductInput {
	return CreateProductInput{
		Name:       "Organic Arabica Beans",
		SKU:        "ARB-1KG",
		CategoryID: categoryID,
		BasePrice:  decimal.RequireFromString("24.50"),
		Tiers: []VolumeTierInput{
			{MinQuantity: 10, DiscountValue: decimal.RequireFromString("5"), DiscountKind: enums.DiscountKindPercentage},
		},
		MinOrderQty:  2,
		InitialStock: 100,
		ReorderLevel: 10,
	}
}

func TestCreateProduct(t *testing.T) {
	companyID := uuid.New()
	categoryID := uuid.New()
	company := &models.Company{ID: companyID, Name: "Highland Traders"}
	category := &models.Category{ID: categoryID, Name: "Coffee"}

	t.Run("creates with category snapshot and slug", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(t, store, company, category)

		doc, err := svc.CreateProduct(context.Background(), companyID, validCreateInput(categoryID))
		if err != nil {
			t.Fatalf("CreateProduct: %v", err)
		}
		if doc.Slug != "organic-arabica-beans-arb-1kg" {
			t.Fatalf("slug = %q", doc.Slug)
		}
		if doc.Category.Primary != "Coffee" || doc.Category.Secondary != nil {
			t.Fatalf("category snapshot = %+v", doc.Category)
		}
		if !doc.Visibility.IsActive {
			t.Fatal("new product should be active")
		}
		if doc.Inventory.Available != 100 {
			t.Fatalf("available = %d", doc.Inventory.Available)
		}
	})

	t.Run("child category snapshots parent as primary", func(t *testing.T) {
		parent := &models.Category{ID: uuid.New(), Name: "Beverages"}
		child := &models.Category{ID: uuid.New(), Name: "Coffee", ParentID: &parent.ID, Parent: parent}
		store := newFakeStore()
		svc := newTestService(t, store, company, child)

		doc, err := svc.CreateProduct(context.Background(), companyID, validCreateInput(child.ID))
		if err != nil {
			t.Fatalf("CreateProduct: %v", err)
		}
		if doc.Category.Primary != "Beverages" {
			t.Fatalf("primary = %q", doc.Category.Primary)
		}
		if doc.Category.Secondary == nil || *doc.Category.Secondary != "Coffee" {
			t.Fatalf("secondary = %v", doc.Category.Secondary)
		}
	})

	t.Run("rejects duplicate sku", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(t, store, company, category)

		if _, err := svc.CreateProduct(context.Background(), companyID, validCreateInput(categoryID)); err != nil {
			t.Fatalf("first create: %v", err)
		}
		_, err := svc.CreateProduct(context.Background(), companyID, validCreateInput(categoryID))
		assertCode(t, err, pkgerrors.CodeConflict)
	})

	t.Run("unknown company", func(t *testing.T) {
		svc := newTestService(t, newFakeStore(), company, category)
		_, err := svc.CreateProduct(context.Background(), uuid.New(), validCreateInput(categoryID))
		assertCode(t, err, pkgerrors.CodeNotFound)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc := newTestService(t, newFakeStore(), company, category)
		input := validCreateInput(uuid.New())
		_, err := svc.CreateProduct(context.Background(), companyID, input)
		assertCode(t, err, pkgerrors.CodeNotFound)
	})

	t.Run("rejects non-positive base price", func(t *testing.T) {
		svc := newTestService(t, newFakeStore(), company, category)
		input := validCreateInput(categoryID)
		input.BasePrice = decimal.Zero
		_, err := svc.CreateProduct(context.Background(), companyID, input)
		assertCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("rejects percentage tier above 100", func(t *testing.T) {
		svc := newTestService(t, newFakeStore(), company, category)
		input := validCreateInput(categoryID)
		input.Tiers = []VolumeTierInput{
			{MinQuantity: 5, DiscountValue: decimal.RequireFromString("120"), DiscountKind: enums.DiscountKindPercentage},
		}
		_, err := svc.CreateProduct(context.Background(), companyID, input)
		assertCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("rejects duplicate tier min quantity", func(t *testing.T) {
		svc := newTestService(t, newFakeStore(), company, category)
		input := validCreateInput(categoryID)
		input.Tiers = []VolumeTierInput{
			{MinQuantity: 10, DiscountValue: decimal.RequireFromString("5"), DiscountKind: enums.DiscountKindPercentage},
			{MinQuantity: 10, DiscountValue: decimal.RequireFromString("8"), DiscountKind: enums.DiscountKindPercentage},
		}
		_, err := svc.CreateProduct(context.Background(), companyID, input)
		assertCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("rejects max below min order quantity", func(t *testing.T) {
		svc := newTestService(t, newFakeStore(), company, category)
		input := validCreateInput(categoryID)
		input.MinOrderQty = 10
		input.MaxOrderQty = 5
		_, err := svc.CreateProduct(context.Background(), companyID, input)
		assertCode(t, err, pkgerrors.CodeValidation)
	})
}

func TestUpdateInventory(t *testing.T) {
	companyID := uuid.New()
	categoryID := uuid.New()
	company := &models.Company{ID: companyID, Name: "Highland Traders"}
	category := &models.Category{ID: categoryID, Name: "Coffee"}

	t.Run("overwrites available", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(t, store, company, category)
		doc, err := svc.CreateProduct(context.Background(), companyID, validCreateInput(categoryID))
		if err != nil {
			t.Fatalf("CreateProduct: %v", err)
		}

		updated, err := svc.UpdateInventory(context.Background(), doc.ID, 42)
		if err != nil {
			t.Fatalf("UpdateInventory: %v", err)
		}
		if updated.Inventory.Available != 42 {
			t.Fatalf("available = %d", updated.Inventory.Available)
		}
	})

	t.Run("rejects negative", func(t *testing.T) {
		svc := newTestService(t, newFakeStore(), company, category)
		_, err := svc.UpdateInventory(context.Background(), "whatever", -1)
		assertCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc := newTestService(t, newFakeStore(), company, category)
		_, err := svc.UpdateInventory(context.Background(), uuid.NewString(), 5)
		assertCode(t, err, pkgerrors.CodeNotFound)
	})
}

func TestDeactivateProduct(t *testing.T) {
	companyID := uuid.New()
	categoryID := uuid.New()
	company := &models.Company{ID: companyID, Name: "Highland Traders"}
	category := &models.Category{ID: categoryID, Name: "Coffee"}

	store := newFakeStore()
	svc := newTestService(t, store, company, category)
	doc, err := svc.CreateProduct(context.Background(), companyID, validCreateInput(categoryID))
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	deactivated, err := svc.DeactivateProduct(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("DeactivateProduct: %v", err)
	}
	if deactivated.Visibility.IsActive {
		t.Fatal("product should be inactive")
	}

	// repeat is a no-op, not an error
	updatesBefore := len(store.updates)
	again, err := svc.DeactivateProduct(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("second DeactivateProduct: %v", err)
	}
	if again.Visibility.IsActive {
		t.Fatal("product should stay inactive")
	}
	if len(store.updates) != updatesBefore {
		t.Fatal("second deactivate should not write")
	}

	if _, err := svc.GetProductBySlug(context.Background(), doc.Slug); err == nil {
		t.Fatal("inactive product should not resolve by slug")
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

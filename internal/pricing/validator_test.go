package pricing

import (
	"strings"
	"testing"

	"github.com/tradelink-io/tradelink-backend/internal/catalog"
	pkgerrors "github.com/tradelink-io/tradelink-backend/pkg/errors"
)

func TestValidateQuantity(t *testing.T) {
	doc := &catalog.ProductDocument{
		MinOrderQty: 5,
		MaxOrderQty: 100,
		Inventory:   catalog.InventoryInfo{Available: 10},
	}

	cases := []struct {
		name     string
		quantity int
		wantMsg  string
	}{
		{"zero", 0, "quantity must be positive"},
		{"negative", -3, "quantity must be positive"},
		{"below minimum", 3, "below minimum order quantity"},
		{"above maximum", 150, "above maximum order quantity"},
		{"beyond stock", 20, "insufficient stock"},
		{"valid", 8, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateQuantity(doc, tc.quantity)
			if tc.wantMsg == "" {
				if err != nil {
					t.Fatalf("ValidateQuantity: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}

	t.Run("minimum reported before stock", func(t *testing.T) {
		// quantity fails both checks; the minimum failure must win
		short := &catalog.ProductDocument{
			MinOrderQty: 50,
			Inventory:   catalog.InventoryInfo{Available: 1},
		}
		err := ValidateQuantity(short, 10)
		if err == nil || !strings.Contains(err.Error(), "below minimum order quantity") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("maximum reported before stock", func(t *testing.T) {
		capped := &catalog.ProductDocument{
			MinOrderQty: 1,
			MaxOrderQty: 5,
			Inventory:   catalog.InventoryInfo{Available: 2},
		}
		err := ValidateQuantity(capped, 8)
		if err == nil || !strings.Contains(err.Error(), "above maximum order quantity") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("no maximum means unbounded", func(t *testing.T) {
		open := &catalog.ProductDocument{
			MinOrderQty: 1,
			Inventory:   catalog.InventoryInfo{Available: 100000},
		}
		if err := ValidateQuantity(open, 99999); err != nil {
			t.Fatalf("ValidateQuantity: %v", err)
		}
	})
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

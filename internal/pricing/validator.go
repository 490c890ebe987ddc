package pricing

import (
	"github.com/tradelink-io/tradelink-backend/internal/catalog"
	pkgerrors "github.com/tradelink-io/tradelink-backend/pkg/errors"
)

// ValidateQuantity checks an order quantity against the product's order
// limits and current stock. Checks run in a fixed order so the caller always
// gets the most specific failure: positivity, then the minimum, then the
// maximum, then stock.
func ValidateQuantity(doc *catalog.ProductDocument, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if quantity < doc.MinOrderQty {
		return pkgerrors.New(pkgerrors.CodeValidation, "below minimum order quantity").
			WithDetails(map[string]any{"min_order_qty": doc.MinOrderQty})
	}
	if doc.MaxOrderQty > 0 && quantity > doc.MaxOrderQty {
		return pkgerrors.New(pkgerrors.CodeValidation, "above maximum order quantity").
			WithDetails(map[string]any{"max_order_qty": doc.MaxOrderQty})
	}
	if quantity > doc.Inventory.Available {
		return pkgerrors.New(pkgerrors.CodeValidation, "insufficient stock").
			WithDetails(map[string]any{"available": doc.Inventory.Available})
	}
	return nil
}

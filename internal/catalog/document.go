package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tradelink-io/tradelink-backend/pkg/enums"
	"github.com/tradelink-io/tradelink-backend/pkg/money"
)

// ProductDocument is the canonical catalog listing stored in the catalog
// store. CompanyID references the identity store by string; no FK spans the
// two databases, so existence is checked at write time.
type ProductDocument struct {
	ID               string         `bson:"_id" json:"id"`
	CompanyID        string         `bson:"company_id" json:"company_id"`
	Name             string         `bson:"name" json:"name"`
	Slug             string         `bson:"slug" json:"slug"`
	SKU              string         `bson:"sku" json:"sku"`
	Barcode          *string        `bson:"barcode,omitempty" json:"barcode,omitempty"`
	Description      *string        `bson:"description,omitempty" json:"description,omitempty"`
	ShortDescription *string        `bson:"short_description,omitempty" json:"short_description,omitempty"`
	Category         CategoryInfo   `bson:"category" json:"category"`
	Pricing          PricingInfo    `bson:"pricing" json:"pricing"`
	Inventory        InventoryInfo  `bson:"inventory" json:"inventory"`
	MinOrderQty      int            `bson:"min_order_qty" json:"min_order_qty"`
	MaxOrderQty      int            `bson:"max_order_qty,omitempty" json:"max_order_qty,omitempty"`
	Visibility       VisibilityInfo `bson:"visibility" json:"visibility"`
	CreatedAt        time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `bson:"updated_at" json:"updated_at"`
}

// CategoryInfo is the denormalization snapshot of the identity store
// category taken at creation time. Later category renames do not propagate.
type CategoryInfo struct {
	ID        string   `bson:"id" json:"id"`
	Primary   string   `bson:"primary" json:"primary"`
	Secondary *string  `bson:"secondary,omitempty" json:"secondary,omitempty"`
	Tags      []string `bson:"tags" json:"tags"`
}

// PricingInfo carries the base price and ordered volume tier rules.
type PricingInfo struct {
	BasePrice primitive.Decimal128 `bson:"base_price" json:"base_price"`
	Currency  string               `bson:"currency" json:"currency"`
	Tiers     []VolumeTier         `bson:"tiers" json:"tiers"`
}

// VolumeTier applies a discount once the ordered quantity reaches
// MinQuantity. DiscountValue is a percentage of the base price or a flat
// per-unit reduction depending on kind.
type VolumeTier struct {
	MinQuantity   int                  `bson:"min_quantity" json:"min_quantity"`
	DiscountValue primitive.Decimal128 `bson:"discount_value" json:"discount_value"`
	DiscountKind  enums.DiscountKind   `bson:"discount_kind" json:"discount_kind"`
}

// InventoryInfo tracks stock counts for the listing.
type InventoryInfo struct {
	Available    int       `bson:"available" json:"available"`
	Reserved     int       `bson:"reserved" json:"reserved"`
	ReorderLevel int       `bson:"reorder_level" json:"reorder_level"`
	LastUpdated  time.Time `bson:"last_updated" json:"last_updated"`
}

// VisibilityInfo controls who can see the listing. IsActive doubles as the
// soft-delete marker; there is no physical delete.
type VisibilityInfo struct {
	IsActive  bool     `bson:"is_active" json:"is_active"`
	VisibleTo []string `bson:"visible_to" json:"visible_to"`
	Regions   []string `bson:"regions,omitempty" json:"regions,omitempty"`
}

// BasePrice returns the decimal base price for arithmetic.
func (p ProductDocument) BasePrice() (decimal.Decimal, error) {
	return money.FromDecimal128(p.Pricing.BasePrice)
}

// Value returns the decimal tier value for arithmetic.
func (t VolumeTier) Value() (decimal.Decimal, error) {
	return money.FromDecimal128(t.DiscountValue)
}

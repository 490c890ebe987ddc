package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradelink-io/tradelink-backend/pkg/enums"
)

// VolumeTierInput defines one tiered discount rule for a listing.
type VolumeTierInput struct {
	MinQuantity   int
	DiscountValue decimal.Decimal
	DiscountKind  enums.DiscountKind
}

// CreateProductInput holds the validated payload to create a listing.
type CreateProductInput struct {
	Name             string
	SKU              string
	Barcode          *string
	Description      *string
	ShortDescription *string
	CategoryID       uuid.UUID
	Tags             []string
	BasePrice        decimal.Decimal
	Currency         string
	Tiers            []VolumeTierInput
	MinOrderQty      int
	MaxOrderQty      int
	InitialStock     int
	ReorderLevel     int
	Regions          []string
	VisibleTo        []string
}

// UpdatePricingInput replaces the base price and tier rules of a listing.
type UpdatePricingInput struct {
	BasePrice decimal.Decimal
	Tiers     []VolumeTierInput
}

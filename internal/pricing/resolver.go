package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tradelink-io/tradelink-backend/pkg/enums"
	"github.com/tradelink-io/tradelink-backend/pkg/money"
)

// TierRule is a volume discount owned by the product. A fixed tier reduces
// the price of every unit by Value; a percentage tier reduces it by
// Value percent.
type TierRule struct {
	MinQuantity int
	Kind        enums.DiscountKind
	Value       decimal.Decimal
}

// PromotionRule is a time-boxed discount attached to the product. A fixed
// promotion takes Value off the order total, not off each unit.
type PromotionRule struct {
	ID    string
	Name  string
	Kind  enums.DiscountKind
	Value decimal.Decimal
}

// Quote is the outcome of a price resolution. TotalPrice is always
// UnitPrice times Quantity, so line items recompute cleanly downstream.
// Discount describes the winning rule; it is absent when nothing applied.
type Quote struct {
	ProductID  string          `json:"product_id"`
	Quantity   int             `json:"quantity"`
	Currency   string          `json:"currency"`
	BasePrice  decimal.Decimal `json:"base_price"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Discount   *QuoteDiscount  `json:"discount,omitempty"`
}

// QuoteDiscount names the rule that won the resolution. Value is the rule's
// own magnitude (a percentage or a currency amount, per Kind); Amount is the
// total saved across the order.
type QuoteDiscount struct {
	Source        enums.DiscountSource `json:"source"`
	Kind          enums.DiscountKind   `json:"type"`
	Value         decimal.Decimal      `json:"value"`
	Amount        decimal.Decimal      `json:"amount"`
	PromotionID   string               `json:"promotion_id,omitempty"`
	PromotionName string               `json:"promotion_name,omitempty"`
}

// ResolvePrice picks the single best discount for the given quantity.
//
// The candidate tier is the one with the largest minimum quantity the order
// reaches. Every active promotion competes. Discounts are compared by the
// total amount saved across the whole order, and on an exact tie the
// promotion wins. Only one discount ever applies; they never stack.
func ResolvePrice(productID string, basePrice decimal.Decimal, currency string, quantity int, tiers []TierRule, promos []PromotionRule) Quote {
	qty := decimal.NewFromInt(int64(quantity))
	quote := Quote{
		ProductID: productID,
		Quantity:  quantity,
		Currency:  currency,
		BasePrice: basePrice,
		UnitPrice: money.Round2(basePrice),
	}
	if quantity < 1 {
		quote.TotalPrice = quote.UnitPrice.Mul(qty)
		return quote
	}

	tierSaved := decimal.Zero
	tier := bestTier(tiers, quantity)
	if tier != nil {
		tierSaved = perUnitDiscount(basePrice, tier.Kind, tier.Value).Mul(qty)
	}

	promoSaved := decimal.Zero
	var promo *PromotionRule
	for i := range promos {
		saved := promotionSaving(basePrice, qty, promos[i])
		if promo == nil || saved.GreaterThan(promoSaved) {
			promo = &promos[i]
			promoSaved = saved
		}
	}

	saved := tierSaved
	discount := QuoteDiscount{Source: enums.DiscountSourceVolumeTier}
	if tier != nil {
		discount.Kind = tier.Kind
		discount.Value = tier.Value
	}
	if promo != nil && promoSaved.GreaterThanOrEqual(tierSaved) {
		saved = promoSaved
		discount = QuoteDiscount{
			Source:        enums.DiscountSourcePromotion,
			Kind:          promo.Kind,
			Value:         promo.Value,
			PromotionID:   promo.ID,
			PromotionName: promo.Name,
		}
	}

	if saved.IsPositive() {
		unit := money.Round2(basePrice.Sub(saved.Div(qty)))
		if unit.IsNegative() {
			unit = decimal.Zero
		}
		quote.UnitPrice = unit
		discount.Amount = money.Round2(basePrice.Mul(qty).Sub(unit.Mul(qty)))
		quote.Discount = &discount
	}

	quote.TotalPrice = quote.UnitPrice.Mul(qty)
	return quote
}

// bestTier returns the tier with the highest reachable minimum quantity.
func bestTier(tiers []TierRule, quantity int) *TierRule {
	var best *TierRule
	for i := range tiers {
		if tiers[i].MinQuantity > quantity {
			continue
		}
		if best == nil || tiers[i].MinQuantity > best.MinQuantity {
			best = &tiers[i]
		}
	}
	return best
}

func perUnitDiscount(basePrice decimal.Decimal, kind enums.DiscountKind, value decimal.Decimal) decimal.Decimal {
	if kind == enums.DiscountKindPercentage {
		return basePrice.Mul(value).Div(decimal.NewFromInt(100))
	}
	return value
}

func promotionSaving(basePrice, qty decimal.Decimal, promo PromotionRule) decimal.Decimal {
	if promo.Kind == enums.DiscountKindPercentage {
		return basePrice.Mul(promo.Value).Div(decimal.NewFromInt(100)).Mul(qty)
	}
	// fixed promotions discount the order total
	return promo.Value
}

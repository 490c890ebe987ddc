package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradelink-io/tradelink-backend/pkg/enums"
)

// Promotion is a time-bounded discount campaign. Its active window is the
// half-open interval [StartDate, EndDate).
type Promotion struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID uuid.UUID          `gorm:"column:company_id;type:uuid;not null"`
	Name      string             `gorm:"column:name;not null"`
	Kind      enums.DiscountKind `gorm:"column:kind;type:discount_kind;not null"`
	Value     decimal.Decimal    `gorm:"column:value;type:numeric(12,2);not null"`
	IsActive  bool               `gorm:"column:is_active;not null;default:true"`
	StartDate time.Time          `gorm:"column:start_date;not null"`
	EndDate   time.Time          `gorm:"column:end_date;not null"`
	Products  []ProductPromotion `gorm:"foreignKey:PromotionID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// InWindow reports whether the promotion participates in pricing at the
// given instant.
func (p Promotion) InWindow(now time.Time) bool {
	return p.IsActive && !now.Before(p.StartDate) && now.Before(p.EndDate)
}

// ProductPromotion links a promotion to a catalog product. ProductID is a
// cross-store reference into the catalog store; no FK can span the two
// databases, so existence is checked at link time by the application.
type ProductPromotion struct {
	PromotionID uuid.UUID `gorm:"column:promotion_id;type:uuid;primaryKey"`
	ProductID   string    `gorm:"column:product_id;type:text;primaryKey"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

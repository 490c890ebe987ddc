package promotions

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tradelink-io/tradelink-backend/pkg/db"
	"github.com/tradelink-io/tradelink-backend/pkg/db/models"
)

// Repository reads and writes promotion rows and their product links.
type Repository struct {
	client *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) Create(ctx context.Context, promotion *models.Promotion) error {
	return r.client.DB().WithContext(ctx).Create(promotion).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.client.DB().WithContext(ctx).First(&promotion, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *Repository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Promotion, error) {
	var out []models.Promotion
	if err := r.client.DB().WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("start_date desc").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) LinkProduct(ctx context.Context, promotionID uuid.UUID, productID string) error {
	link := models.ProductPromotion{PromotionID: promotionID, ProductID: productID}
	return r.client.DB().WithContext(ctx).Create(&link).Error
}

func (r *Repository) UnlinkProduct(ctx context.Context, promotionID uuid.UUID, productID string) error {
	return r.client.DB().WithContext(ctx).
		Where("promotion_id = ? AND product_id = ?", promotionID, productID).
		Delete(&models.ProductPromotion{}).Error
}

// GetActiveForProduct returns the promotions linked to the product that are
// enabled and inside their window at the given instant. The window is
// half-open: a promotion is live at its start date and dead at its end date.
func (r *Repository) GetActiveForProduct(ctx context.Context, productID string, now time.Time) ([]models.Promotion, error) {
	var out []models.Promotion
	err := r.client.DB().WithContext(ctx).
		Joins("JOIN product_promotions pp ON pp.promotion_id = promotions.id").
		Where("pp.product_id = ?", productID).
		Where("promotions.is_active = true").
		Where("promotions.start_date <= ? AND promotions.end_date > ?", now, now).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

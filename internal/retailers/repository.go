package retailers

import (
	"context"

	"github.com/google/uuid"

	"github.com/tradelink-io/tradelink-backend/pkg/db"
	"github.com/tradelink-io/tradelink-backend/pkg/db/models"
)

// Repository reads and writes retailer rows.
type Repository struct {
	client *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) Create(ctx context.Context, retailer *models.Retailer) error {
	return r.client.DB().WithContext(ctx).Create(retailer).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Retailer, error) {
	var retailer models.Retailer
	if err := r.client.DB().WithContext(ctx).First(&retailer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &retailer, nil
}

func (r *Repository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Retailer, error) {
	var retailer models.Retailer
	if err := r.client.DB().WithContext(ctx).First(&retailer, "owner_user_id = ?", ownerUserID).Error; err != nil {
		return nil, err
	}
	return &retailer, nil
}

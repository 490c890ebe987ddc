package companies

import (
	"context"

	"github.com/google/uuid"

	"github.com/tradelink-io/tradelink-backend/pkg/db"
	"github.com/tradelink-io/tradelink-backend/pkg/db/models"
)

// Repository reads and writes company rows.
type Repository struct {
	client *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) Create(ctx context.Context, company *models.Company) error {
	return r.client.DB().WithContext(ctx).Create(company).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.client.DB().WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *Repository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.client.DB().WithContext(ctx).First(&company, "owner_user_id = ?", ownerUserID).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

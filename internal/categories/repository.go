package categories

import (
	"context"

	"github.com/google/uuid"

	"github.com/tradelink-io/tradelink-backend/pkg/db"
	"github.com/tradelink-io/tradelink-backend/pkg/db/models"
)

// Repository reads and writes category rows.
type Repository struct {
	client *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	return r.client.DB().WithContext(ctx).Create(category).Error
}

// FindByID loads a category with its parent, when it has one. Catalog
// writes snapshot the parent name as the primary label.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.client.DB().WithContext(ctx).Preload("Parent").First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.client.DB().WithContext(ctx).First(&category, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := r.client.DB().WithContext(ctx).Order("name asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Rename(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	if err := r.client.DB().WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", id).Update("name", name).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

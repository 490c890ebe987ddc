package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradelink-io/tradelink-backend/pkg/db/models"
	pkgerrors "github.com/tradelink-io/tradelink-backend/pkg/errors"
)

// CreateCategoryInput names a new category, optionally under a parent.
// Nesting is one level deep: a parent cannot itself have a parent.
type CreateCategoryInput struct {
	Name     string     `json:"name" validate:"required,min=2,max=120"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// Service manages the category tree. Renames do not propagate into catalog
// documents; those keep the snapshot taken at product creation.
type Service interface {
	Create(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*models.Category, error)
}

type store interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*models.Category, error)
}

type service struct {
	store store
}

func NewService(s store) (Service, error) {
	if s == nil {
		return nil, fmt.Errorf("category store required")
	}
	return &service{store: s}, nil
}

func (s *service) Create(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	if existing, err := s.store.FindByName(ctx, name); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category name")
	} else if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
	}

	if input.ParentID != nil {
		parent, err := s.store.FindByID(ctx, *input.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parent category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent category")
		}
		if parent.ParentID != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "categories nest one level deep")
		}
	}

	category := &models.Category{Name: name, ParentID: input.ParentID}
	if err := s.store.Create(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) List(ctx context.Context) ([]models.Category, error) {
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return out, nil
}

func (s *service) Rename(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if existing, err := s.store.FindByName(ctx, name); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category name")
	} else if existing != nil && existing.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
	}

	renamed, err := s.store.Rename(ctx, id, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rename category")
	}
	return renamed, nil
}

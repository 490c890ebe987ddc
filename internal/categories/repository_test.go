package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tradelink-io/tradelink-backend/pkg/db"
	"github.com/tradelink-io/tradelink-backend/pkg/db/models"
)

func setupCategoriesTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  parent_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(categories).Error)
	return db.NewFromGorm(conn)
}

func seedCategory(t *testing.T, repo *Repository, name string, parentID *uuid.UUID) *models.Category {
	t.Helper()

	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		ParentID: parentID,
	}
	require.NoError(t, repo.Create(context.Background(), category))
	return category
}

func TestRepositoryFindByIDPreloadsParent(t *testing.T) {
	client := setupCategoriesTestDB(t)
	repo := NewRepository(client)

	parent := seedCategory(t, repo, "Beverages", nil)
	child := seedCategory(t, repo, "Coffee", &parent.ID)

	got, err := repo.FindByID(context.Background(), child.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Parent)
	assert.Equal(t, "Beverages", got.Parent.Name)
	assert.Equal(t, "Coffee", got.Name)
}

func TestRepositoryFindByName(t *testing.T) {
	client := setupCategoriesTestDB(t)
	repo := NewRepository(client)

	seedCategory(t, repo, "Snacks", nil)

	got, err := repo.FindByName(context.Background(), "Snacks")
	require.NoError(t, err)
	assert.Equal(t, "Snacks", got.Name)

	_, err = repo.FindByName(context.Background(), "Missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListOrdersByName(t *testing.T) {
	client := setupCategoriesTestDB(t)
	repo := NewRepository(client)

	seedCategory(t, repo, "Snacks", nil)
	seedCategory(t, repo, "Beverages", nil)
	seedCategory(t, repo, "Dairy", nil)

	out, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "Beverages", out[0].Name)
	assert.Equal(t, "Dairy", out[1].Name)
	assert.Equal(t, "Snacks", out[2].Name)
}

func TestRepositoryRename(t *testing.T) {
	client := setupCategoriesTestDB(t)
	repo := NewRepository(client)

	category := seedCategory(t, repo, "Drinks", nil)

	got, err := repo.Rename(context.Background(), category.ID, "Beverages")
	require.NoError(t, err)
	assert.Equal(t, "Beverages", got.Name)

	again, err := repo.FindByName(context.Background(), "Beverages")
	require.NoError(t, err)
	assert.Equal(t, category.ID, again.ID)
}

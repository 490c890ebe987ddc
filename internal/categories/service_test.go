package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/tradelink-io/tradelink-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	repo := NewRepository(setupCategoriesTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected a typed error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestServiceCreate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	parent, err := svc.Create(ctx, CreateCategoryInput{Name: "Beverages"})
	require.NoError(t, err)
	assert.Nil(t, parent.ParentID)

	child, err := svc.Create(ctx, CreateCategoryInput{Name: "Coffee", ParentID: &parent.ID})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)
}

func TestServiceCreateRejectsDeepNesting(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	parent, err := svc.Create(ctx, CreateCategoryInput{Name: "Beverages"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, CreateCategoryInput{Name: "Coffee", ParentID: &parent.ID})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateCategoryInput{Name: "Espresso", ParentID: &child.ID})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceCreateDuplicateName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateCategoryInput{Name: "Snacks"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateCategoryInput{Name: "Snacks"})
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestServiceCreateUnknownParent(t *testing.T) {
	svc := newTestService(t)

	missing := uuid.New()
	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Coffee", ParentID: &missing})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceRename(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	category, err := svc.Create(ctx, CreateCategoryInput{Name: "Drinks"})
	require.NoError(t, err)
	taken, err := svc.Create(ctx, CreateCategoryInput{Name: "Snacks"})
	require.NoError(t, err)

	renamed, err := svc.Rename(ctx, category.ID, "Beverages")
	require.NoError(t, err)
	assert.Equal(t, "Beverages", renamed.Name)

	_, err = svc.Rename(ctx, category.ID, taken.Name)
	requireCode(t, err, pkgerrors.CodeConflict)

	same, err := svc.Rename(ctx, category.ID, "Beverages")
	require.NoError(t, err)
	assert.Equal(t, "Beverages", same.Name)

	_, err = svc.Rename(ctx, uuid.New(), "Anything")
	requireCode(t, err, pkgerrors.CodeNotFound)
}

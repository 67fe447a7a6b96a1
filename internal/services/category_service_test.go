package services

import (
	"testing"

	"acta_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	catRepo := newFakeCategoryRepo()
	svc := NewCategoryService(catRepo)
	userID := uuid.New()

	require.NoError(t, svc.CreateCategory(&models.Category{UserID: userID, Name: "Work"}))

	err := svc.CreateCategory(&models.Category{UserID: userID, Name: "Work"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// Same name for a different user is fine.
	assert.NoError(t, svc.CreateCategory(&models.Category{UserID: uuid.New(), Name: "Work"}))
}

func TestCreateDefaultCategories(t *testing.T) {
	catRepo := newFakeCategoryRepo()
	svc := NewCategoryService(catRepo)
	userID := uuid.New()

	created, err := svc.CreateDefaultCategories(userID)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultCategories), created)

	categories, err := svc.GetCategoriesByUser(userID)
	require.NoError(t, err)
	require.Len(t, categories, len(DefaultCategories))
	for _, c := range categories {
		assert.True(t, c.IsDefault)
		assert.Equal(t, userID, c.UserID)
	}

	// Seeding again skips everything that already exists.
	created, err = svc.CreateDefaultCategories(userID)
	require.NoError(t, err)
	assert.Zero(t, created)
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
)

type mockCatalogRepo struct {
	mock.Mock
}

func (m *mockCatalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *mockCatalogRepo) ListPopularCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *mockCatalogRepo) ListFeaturedCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *mockCatalogRepo) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockCatalogRepo) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockCatalogRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	if args.Error(0) == nil {
		category.ID = uuid.New()
		category.IsActive = true
	}
	return args.Error(0)
}

func (m *mockCatalogRepo) UpdateCategory(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCatalogRepo) CategorySlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func TestCatalogService_CreateCategory_SlugFromName(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)
	ctx := context.Background()

	repo.On("CategorySlugExists", ctx, "home-cleaning", (*uuid.UUID)(nil)).Return(false, nil)
	repo.On("CreateCategory", ctx, mock.AnythingOfType("*models.Category")).Return(nil)

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Home Cleaning"})

	assert.NoError(t, err)
	assert.Equal(t, "home-cleaning", category.Slug)
}

// Создание с занятым slug — конфликт, без автоподстановки суффикса.
func TestCatalogService_CreateCategory_SlugConflict(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)
	ctx := context.Background()

	repo.On("CategorySlugExists", ctx, "home-cleaning", (*uuid.UUID)(nil)).Return(true, nil)

	_, err := svc.CreateCategory(ctx, CategoryInput{Name: "Home Cleaning"})

	assert.ErrorIs(t, err, apperror.ErrSlugTaken)
	repo.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
}

// При обновлении занятый slug получает суффикс с собственным ID.
func TestCatalogService_UpdateCategory_SlugSuffixOnConflict(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)
	ctx := context.Background()

	id := uuid.New()
	repo.On("GetCategoryByID", ctx, id).Return(&models.Category{
		ID:   id,
		Slug: "remont",
		Name: "Ремонт",
	}, nil)
	repo.On("CategorySlugExists", ctx, "home-cleaning", &id).Return(true, nil)
	repo.On("UpdateCategory", ctx, mock.AnythingOfType("*models.Category")).Return(nil)

	category, err := svc.UpdateCategory(ctx, id, CategoryInput{Name: "Home Cleaning"})

	assert.NoError(t, err)
	assert.Equal(t, "home-cleaning-"+id.String()[:8], category.Slug)
}

// Смена полей без смены названия не трогает slug.
func TestCatalogService_UpdateCategory_SlugStableWithoutRename(t *testing.T) {
	repo := new(mockCatalogRepo)
	svc := NewCatalogService(repo)
	ctx := context.Background()

	id := uuid.New()
	repo.On("GetCategoryByID", ctx, id).Return(&models.Category{
		ID:   id,
		Slug: "uborka-kvartir",
		Name: "Уборка квартир",
	}, nil)
	repo.On("UpdateCategory", ctx, mock.AnythingOfType("*models.Category")).Return(nil)

	category, err := svc.UpdateCategory(ctx, id, CategoryInput{Name: "Уборка квартир", SortOrder: 5})

	assert.NoError(t, err)
	assert.Equal(t, "uborka-kvartir", category.Slug)
	repo.AssertNotCalled(t, "CategorySlugExists", mock.Anything, mock.Anything, mock.Anything)
}

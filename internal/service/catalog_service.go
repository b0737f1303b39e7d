package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/slug"
	"github.com/nvoskresenskiy/tasker-backend/internal/validation"
)

// CatalogRepo описывает зависимости CatalogService от слоя хранилища.
type CatalogRepo interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListPopularCategories(ctx context.Context) ([]models.Category, error)
	ListFeaturedCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	CategorySlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
}

// CatalogService отвечает за справочник категорий.
type CatalogService struct {
	repo CatalogRepo
}

func NewCatalogService(repo CatalogRepo) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *CatalogService) ListPopularCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListPopularCategories(ctx)
}

func (s *CatalogService) ListFeaturedCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListFeaturedCategories(ctx)
}

func (s *CatalogService) GetCategoryBySlug(ctx context.Context, categorySlug string) (*models.Category, error) {
	return s.repo.GetCategoryBySlug(ctx, categorySlug)
}

// CategoryInput — данные категории при создании и обновлении.
type CategoryInput struct {
	Name        string
	Description *string
	Icon        *string
	IsPopular   bool
	IsFeatured  bool
	SortOrder   int
}

// CreateCategory создаёт категорию. Slug выводится из названия;
// занятый slug — конфликт, никакой автоподстановки суффикса.
func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := validation.ValidateLength("название категории", in.Name, 2, 100); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	categorySlug := slug.Make(in.Name)
	if categorySlug == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "из названия не получается slug")
	}
	taken, err := s.repo.CategorySlugExists(ctx, categorySlug, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.ErrSlugTaken
	}

	category := &models.Category{
		Slug:        categorySlug,
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		IsPopular:   in.IsPopular,
		IsFeatured:  in.IsFeatured,
		SortOrder:   in.SortOrder,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory обновляет категорию. При смене названия slug
// пересчитывается; занятый другим slug получает суффикс с собственным ID.
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	if err := validation.ValidateLength("название категории", in.Name, 2, 100); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	current, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	categorySlug := current.Slug
	if in.Name != current.Name {
		categorySlug = slug.Make(in.Name)
		if categorySlug == "" {
			return nil, apperror.New(apperror.ErrCodeValidation, "из названия не получается slug")
		}
		taken, err := s.repo.CategorySlugExists(ctx, categorySlug, &id)
		if err != nil {
			return nil, err
		}
		if taken {
			categorySlug = slug.WithSuffix(categorySlug, shortID(id))
		}
	}

	current.Slug = categorySlug
	current.Name = in.Name
	current.Description = in.Description
	current.Icon = in.Icon
	current.IsPopular = in.IsPopular
	current.IsFeatured = in.IsFeatured
	current.SortOrder = in.SortOrder

	if err := s.repo.UpdateCategory(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
)

const categoryColumns = `id, slug, name, description, icon, is_active, is_popular, is_featured, sort_order, created_at`

type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCategories возвращает все активные категории.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.SelectContext(ctx, &categories, `
		SELECT `+categoryColumns+` FROM categories
		WHERE is_active = TRUE ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog repository: list categories %w", err)
	}
	return categories, nil
}

// ListPopularCategories возвращает категории для блока «популярное».
func (r *CatalogRepository) ListPopularCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.SelectContext(ctx, &categories, `
		SELECT `+categoryColumns+` FROM categories
		WHERE is_active = TRUE AND is_popular = TRUE ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog repository: list popular %w", err)
	}
	return categories, nil
}

// ListFeaturedCategories возвращает категории для витрины.
func (r *CatalogRepository) ListFeaturedCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.SelectContext(ctx, &categories, `
		SELECT `+categoryColumns+` FROM categories
		WHERE is_active = TRUE AND is_featured = TRUE ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog repository: list featured %w", err)
	}
	return categories, nil
}

// GetCategoryBySlug возвращает активную категорию по slug.
func (r *CatalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.GetContext(ctx, &category, `
		SELECT `+categoryColumns+` FROM categories WHERE slug = $1 AND is_active = TRUE
	`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog repository: get by slug %w", err)
	}
	return &category, nil
}

// GetCategoryByID возвращает категорию по ID.
func (r *CatalogRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.GetContext(ctx, &category, `
		SELECT `+categoryColumns+` FROM categories WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog repository: get by id %w", err)
	}
	return &category, nil
}

// CreateCategory создаёт категорию. Занятый slug — конфликт.
func (r *CatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (slug, name, description, icon, is_popular, is_featured, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_active, created_at
	`, category.Slug, category.Name, category.Description, category.Icon,
		category.IsPopular, category.IsFeatured, category.SortOrder).
		Scan(&category.ID, &category.IsActive, &category.CreatedAt)
	if isUniqueViolation(err) {
		return apperror.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("catalog repository: create category %w", err)
	}
	return nil
}

// UpdateCategory обновляет категорию.
func (r *CatalogRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET slug = $2, name = $3, description = $4, icon = $5,
			is_popular = $6, is_featured = $7, sort_order = $8, is_active = $9
		WHERE id = $1
	`, category.ID, category.Slug, category.Name, category.Description, category.Icon,
		category.IsPopular, category.IsFeatured, category.SortOrder, category.IsActive)
	if isUniqueViolation(err) {
		return apperror.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("catalog repository: update category %w", err)
	}
	return requireRow(res, apperror.ErrCategoryNotFound)
}

// CategorySlugExists проверяет занятость slug, опционально исключая свою категорию.
func (r *CatalogRepository) CategorySlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID != nil {
		err = r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`, slug, *excludeID)
	} else {
		err = r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1)`, slug)
	}
	if err != nil {
		return false, fmt.Errorf("catalog repository: slug exists %w", err)
	}
	return exists, nil
}

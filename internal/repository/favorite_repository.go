package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
)

type FavoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add добавляет исполнителя или услугу в избранное. Дубликат — конфликт.
func (r *FavoriteRepository) Add(ctx context.Context, favorite *models.Favorite) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO favorites (user_id, target_type, target_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, favorite.UserID, favorite.TargetType, favorite.TargetID).
		Scan(&favorite.ID, &favorite.CreatedAt)
	if isUniqueViolation(err) {
		return apperror.ErrFavoriteExists
	}
	if err != nil {
		return fmt.Errorf("favorite repository: add %w", err)
	}
	return nil
}

// Remove убирает объект из избранного.
func (r *FavoriteRepository) Remove(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND target_type = $2 AND target_id = $3
	`, userID, targetType, targetID)
	if err != nil {
		return fmt.Errorf("favorite repository: remove %w", err)
	}
	return requireRow(res, apperror.New(apperror.ErrCodeNotFound, "не найдено в избранном"))
}

// List возвращает избранное пользователя указанного типа, свежее первым.
func (r *FavoriteRepository) List(ctx context.Context, userID uuid.UUID, targetType string, limit, offset int) ([]models.Favorite, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM favorites WHERE user_id = $1 AND target_type = $2`, userID, targetType)
	if err != nil {
		return nil, 0, fmt.Errorf("favorite repository: count %w", err)
	}

	var favorites []models.Favorite
	err = r.db.SelectContext(ctx, &favorites, `
		SELECT id, user_id, target_type, target_id, created_at
		FROM favorites WHERE user_id = $1 AND target_type = $2
		ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4
	`, userID, targetType, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("favorite repository: list %w", err)
	}
	if favorites == nil {
		favorites = []models.Favorite{}
	}
	return favorites, total, nil
}

// Exists проверяет наличие объекта в избранном пользователя.
func (r *FavoriteRepository) Exists(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM favorites WHERE user_id = $1 AND target_type = $2 AND target_id = $3
		)
	`, userID, targetType, targetID)
	if err != nil {
		return false, fmt.Errorf("favorite repository: exists %w", err)
	}
	return exists, nil
}

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

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create сохраняет отзыв и в той же транзакции пересчитывает скользящий
// рейтинг исполнителя и услуги:
//
//	new = (old * count + rating) / (count + 1)
//
// Повторный отзыв на пару (бронирование, автор) — конфликт.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("review repository: create begin %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO reviews (booking_id, reviewer_id, tasker_id, task_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, review.BookingID, review.ReviewerID, review.TaskerID, review.TaskID,
		review.Rating, review.Comment).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if isUniqueViolation(err) {
		return apperror.ErrReviewExists
	}
	if err != nil {
		return fmt.Errorf("review repository: create %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE taskers
		SET rating = (COALESCE(rating, 0) * review_count + $2) / (review_count + 1),
			review_count = review_count + 1,
			updated_at = NOW()
		WHERE id = $1
	`, review.TaskerID, review.Rating)
	if err != nil {
		return fmt.Errorf("review repository: update tasker rating %w", err)
	}

	if review.TaskID != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE tasks
			SET rating = (COALESCE(rating, 0) * review_count + $2) / (review_count + 1),
				review_count = review_count + 1,
				updated_at = NOW()
			WHERE id = $1
		`, *review.TaskID, review.Rating)
		if err != nil {
			return fmt.Errorf("review repository: update task rating %w", err)
		}
	}

	return tx.Commit()
}

func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review, `
		SELECT id, booking_id, reviewer_id, tasker_id, task_id, rating, comment, created_at, updated_at
		FROM reviews WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("review repository: get %w", err)
	}
	return &review, nil
}

// GetByBooking возвращает отзыв автора на бронирование, если он есть.
func (r *ReviewRepository) GetByBooking(ctx context.Context, bookingID, reviewerID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review, `
		SELECT id, booking_id, reviewer_id, tasker_id, task_id, rating, comment, created_at, updated_at
		FROM reviews WHERE booking_id = $1 AND reviewer_id = $2
	`, bookingID, reviewerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("review repository: get by booking %w", err)
	}
	return &review, nil
}

// ListByTasker возвращает отзывы на исполнителя, свежие первыми.
func (r *ReviewRepository) ListByTasker(ctx context.Context, taskerID uuid.UUID, limit, offset int) ([]models.Review, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reviews WHERE tasker_id = $1`, taskerID)
	if err != nil {
		return nil, 0, fmt.Errorf("review repository: count %w", err)
	}

	var reviews []models.Review
	err = r.db.SelectContext(ctx, &reviews, `
		SELECT id, booking_id, reviewer_id, tasker_id, task_id, rating, comment, created_at, updated_at
		FROM reviews WHERE tasker_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3
	`, taskerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("review repository: list %w", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, total, nil
}

// ListByTask возвращает отзывы на услугу, свежие первыми.
func (r *ReviewRepository) ListByTask(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]models.Review, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reviews WHERE task_id = $1`, taskID)
	if err != nil {
		return nil, 0, fmt.Errorf("review repository: count by task %w", err)
	}

	var reviews []models.Review
	err = r.db.SelectContext(ctx, &reviews, `
		SELECT id, booking_id, reviewer_id, tasker_id, task_id, rating, comment, created_at, updated_at
		FROM reviews WHERE task_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3
	`, taskID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("review repository: list by task %w", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, total, nil
}

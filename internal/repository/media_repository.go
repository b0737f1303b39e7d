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

type MediaRepository struct {
	db *sqlx.DB
}

func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) Create(ctx context.Context, file *models.MediaFile) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO media_files (user_id, file_path, file_type, file_size)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, file.UserID, file.FilePath, file.FileType, file.FileSize).
		Scan(&file.ID, &file.CreatedAt)
	if err != nil {
		return fmt.Errorf("media repository: create %w", err)
	}
	return nil
}

func (r *MediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error) {
	var file models.MediaFile
	err := r.db.GetContext(ctx, &file, `
		SELECT id, user_id, file_path, file_type, file_size, created_at
		FROM media_files WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.New(apperror.ErrCodeNotFound, "файл не найден")
	}
	if err != nil {
		return nil, fmt.Errorf("media repository: get %w", err)
	}
	return &file, nil
}

func (r *MediaRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM media_files WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("media repository: delete %w", err)
	}
	return requireRow(res, apperror.New(apperror.ErrCodeNotFound, "файл не найден"))
}

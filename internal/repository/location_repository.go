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

type LocationRepository struct {
	db *sqlx.DB
}

func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Create(ctx context.Context, location *models.Location) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO locations (user_id, address, city, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, location.UserID, location.Address, location.City, location.Latitude, location.Longitude).
		Scan(&location.ID, &location.CreatedAt)
	if err != nil {
		return fmt.Errorf("location repository: create %w", err)
	}
	return nil
}

func (r *LocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var location models.Location
	err := r.db.GetContext(ctx, &location, `
		SELECT id, user_id, address, city, latitude, longitude, created_at
		FROM locations WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.New(apperror.ErrCodeNotFound, "локация не найдена")
	}
	if err != nil {
		return nil, fmt.Errorf("location repository: get %w", err)
	}
	return &location, nil
}

func (r *LocationRepository) Update(ctx context.Context, location *models.Location) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE locations SET address = $2, city = $3, latitude = $4, longitude = $5
		WHERE id = $1
	`, location.ID, location.Address, location.City, location.Latitude, location.Longitude)
	if err != nil {
		return fmt.Errorf("location repository: update %w", err)
	}
	return requireRow(res, apperror.New(apperror.ErrCodeNotFound, "локация не найдена"))
}

package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
)

// FavoriteRepo описывает зависимости FavoriteService от слоя хранилища.
type FavoriteRepo interface {
	Add(ctx context.Context, favorite *models.Favorite) error
	Remove(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, targetType string, limit, offset int) ([]models.Favorite, int, error)
	Exists(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) (bool, error)
}

// TaskerRepoForFavorite — проверка существования исполнителя.
type TaskerRepoForFavorite interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.TaskerDetails, error)
}

// TaskRepoForFavorite — проверка существования услуги.
type TaskRepoForFavorite interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.TaskDetails, error)
}

// FavoriteService ведёт избранное пользователей.
type FavoriteService struct {
	repo    FavoriteRepo
	taskers TaskerRepoForFavorite
	tasks   TaskRepoForFavorite
}

func NewFavoriteService(repo FavoriteRepo, taskers TaskerRepoForFavorite, tasks TaskRepoForFavorite) *FavoriteService {
	return &FavoriteService{repo: repo, taskers: taskers, tasks: tasks}
}

// Add добавляет исполнителя или услугу в избранное после проверки,
// что объект существует.
func (s *FavoriteService) Add(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) (*models.Favorite, error) {
	switch targetType {
	case models.FavoriteTypeTasker:
		if _, err := s.taskers.GetByID(ctx, targetID); err != nil {
			return nil, err
		}
	case models.FavoriteTypeTask:
		if _, err := s.tasks.GetByID(ctx, targetID); err != nil {
			return nil, err
		}
	default:
		return nil, apperror.Newf(apperror.ErrCodeValidation, "неизвестный тип избранного: %s", targetType)
	}

	favorite := &models.Favorite{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
	}
	if err := s.repo.Add(ctx, favorite); err != nil {
		return nil, err
	}
	return favorite, nil
}

// Remove убирает объект из избранного.
func (s *FavoriteService) Remove(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) error {
	if targetType != models.FavoriteTypeTasker && targetType != models.FavoriteTypeTask {
		return apperror.Newf(apperror.ErrCodeValidation, "неизвестный тип избранного: %s", targetType)
	}
	return s.repo.Remove(ctx, userID, targetType, targetID)
}

// List возвращает избранное пользователя указанного типа.
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID, targetType string, limit, offset int) ([]models.Favorite, int, error) {
	if targetType != models.FavoriteTypeTasker && targetType != models.FavoriteTypeTask {
		return nil, 0, apperror.Newf(apperror.ErrCodeValidation, "неизвестный тип избранного: %s", targetType)
	}
	return s.repo.List(ctx, userID, targetType, limit, offset)
}

// IsFavorite проверяет наличие объекта в избранном.
func (s *FavoriteService) IsFavorite(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, userID, targetType, targetID)
}

package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
	"github.com/nvoskresenskiy/tasker-backend/internal/validation"
)

// ReviewRepo описывает зависимости ReviewService от слоя хранилища.
type ReviewRepo interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	GetByBooking(ctx context.Context, bookingID, reviewerID uuid.UUID) (*models.Review, error)
	ListByTasker(ctx context.Context, taskerID uuid.UUID, limit, offset int) ([]models.Review, int, error)
	ListByTask(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]models.Review, int, error)
}

// BookingRepoForReview — бронирования при создании отзыва.
type BookingRepoForReview interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

// ReviewService управляет отзывами. Пересчёт скользящего рейтинга
// исполнителя и услуги происходит в хранилище атомарно со вставкой.
type ReviewService struct {
	repo     ReviewRepo
	bookings BookingRepoForReview
}

func NewReviewService(repo ReviewRepo, bookings BookingRepoForReview) *ReviewService {
	return &ReviewService{repo: repo, bookings: bookings}
}

// Create создаёт отзыв клиента на завершённое бронирование.
func (s *ReviewService) Create(ctx context.Context, reviewerID, bookingID uuid.UUID, rating int, comment *string) (*models.Review, error) {
	if err := validation.ValidateRating(rating); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if comment != nil {
		if err := validation.ValidateLength("комментарий", *comment, 0, validation.MaxCommentLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != reviewerID {
		return nil, apperror.ErrForbidden
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeConflict,
			"отзыв можно оставить только после завершения бронирования")
	}

	taskID := booking.TaskID
	review := &models.Review{
		BookingID:  bookingID,
		ReviewerID: reviewerID,
		TaskerID:   booking.TaskerID,
		TaskID:     &taskID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Get возвращает отзыв по ID.
func (s *ReviewService) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return s.repo.GetByID(ctx, id)
}

// ListForTasker возвращает отзывы на исполнителя.
func (s *ReviewService) ListForTasker(ctx context.Context, taskerID uuid.UUID, limit, offset int) ([]models.Review, int, error) {
	return s.repo.ListByTasker(ctx, taskerID, limit, offset)
}

// ListForTask возвращает отзывы на услугу.
func (s *ReviewService) ListForTask(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]models.Review, int, error) {
	return s.repo.ListByTask(ctx, taskID, limit, offset)
}

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
)

// Вставка отзыва и пересчёт рейтинга идут одной транзакцией, формула
// скользящего среднего вычисляется в SQL по текущему счётчику.
func TestReviewRepository_Create_RollingAverageInOneTx(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewReviewRepository(db)

	reviewID := uuid.New()
	bookingID := uuid.New()
	reviewerID := uuid.New()
	taskerID := uuid.New()
	taskID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews")).
		WithArgs(bookingID, reviewerID, taskerID, &taskID, 5, (*string)(nil)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(reviewID, now, now))
	mock.ExpectExec(regexp.QuoteMeta("SET rating = (COALESCE(rating, 0) * review_count + $2) / (review_count + 1)")).
		WithArgs(taskerID, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
		WithArgs(taskID, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	review := &models.Review{
		BookingID:  bookingID,
		ReviewerID: reviewerID,
		TaskerID:   taskerID,
		TaskID:     &taskID,
		Rating:     5,
	}
	err := r.Create(context.Background(), review)

	assert.NoError(t, err)
	assert.Equal(t, reviewID, review.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Отзыв без услуги пересчитывает только рейтинг исполнителя.
func TestReviewRepository_Create_NoTaskSkipsTaskUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewReviewRepository(db)

	taskerID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(uuid.New(), now, now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE taskers")).
		WithArgs(taskerID, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := r.Create(context.Background(), &models.Review{
		BookingID:  uuid.New(),
		ReviewerID: uuid.New(),
		TaskerID:   taskerID,
		Rating:     4,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Ошибка пересчёта рейтинга откатывает и вставку отзыва.
func TestReviewRepository_Create_RatingFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewReviewRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(uuid.New(), now, now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE taskers")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := r.Create(context.Background(), &models.Review{
		BookingID:  uuid.New(),
		ReviewerID: uuid.New(),
		TaskerID:   uuid.New(),
		Rating:     3,
	})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrReviewExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
)

const bookingColumns = `id, user_id, tasker_id, task_id, status, payment_status,
	scheduled_at, duration_minutes, total_amount, address, note, created_at, updated_at`

type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create создаёт бронирование.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO bookings (user_id, tasker_id, task_id, scheduled_at, duration_minutes, total_amount, address, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, status, payment_status, created_at, updated_at
	`, booking.UserID, booking.TaskerID, booking.TaskID, booking.ScheduledAt,
		booking.DurationMinutes, booking.TotalAmount, booking.Address, booking.Note).Scan(
		&booking.ID, &booking.Status, &booking.PaymentStatus, &booking.CreatedAt, &booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("booking repository: create %w", err)
	}
	return nil
}

// HasScheduleConflict проверяет, пересекается ли интервал [scheduledAt,
// scheduledAt+duration) с подтверждённым или идущим заказом исполнителя.
// excludeID исключает само переносимое бронирование.
func (r *BookingRepository) HasScheduleConflict(ctx context.Context, taskerID uuid.UUID, scheduledAt time.Time, durationMinutes int, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE tasker_id = $1
				AND status IN ('confirmed', 'in_progress')
				AND ($4::uuid IS NULL OR id <> $4)
				AND tstzrange(scheduled_at, scheduled_at + make_interval(mins => duration_minutes))
					&& tstzrange($2, $2 + make_interval(mins => $3))
		)
	`, taskerID, scheduledAt, durationMinutes, excludeID)
	if err != nil {
		return false, fmt.Errorf("booking repository: schedule conflict %w", err)
	}
	return exists, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.GetContext(ctx, &booking, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("booking repository: get %w", err)
	}
	return &booking, nil
}

// ListByUser возвращает бронирования клиента, свежие первыми.
func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Booking, int, error) {
	return r.list(ctx, "user_id", userID, limit, offset)
}

// ListByTasker возвращает бронирования исполнителя, свежие первыми.
func (r *BookingRepository) ListByTasker(ctx context.Context, taskerID uuid.UUID, limit, offset int) ([]models.Booking, int, error) {
	return r.list(ctx, "tasker_id", taskerID, limit, offset)
}

func (r *BookingRepository) list(ctx context.Context, field string, id uuid.UUID, limit, offset int) ([]models.Booking, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		fmt.Sprintf(`SELECT COUNT(*) FROM bookings WHERE %s = $1`, field), id)
	if err != nil {
		return nil, 0, fmt.Errorf("booking repository: count %w", err)
	}

	var bookings []models.Booking
	err = r.db.SelectContext(ctx, &bookings, fmt.Sprintf(`
		SELECT `+bookingColumns+` FROM bookings
		WHERE %s = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3
	`, field), id, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("booking repository: list %w", err)
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, total, nil
}

// UpdateStatus выставляет статус бронирования. Допустимость перехода
// проверяет сервис, репозиторий лишь пишет значение.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("booking repository: update status %w", err)
	}
	return requireRow(res, apperror.ErrBookingNotFound)
}

// UpdatePaymentStatus фиксирует оплату бронирования.
func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET payment_status = $2, updated_at = NOW() WHERE id = $1
	`, id, paymentStatus)
	if err != nil {
		return fmt.Errorf("booking repository: update payment status %w", err)
	}
	return requireRow(res, apperror.ErrBookingNotFound)
}

// Reschedule переносит бронирование на другое время.
func (r *BookingRepository) Reschedule(ctx context.Context, id uuid.UUID, booking *models.Booking) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET scheduled_at = $2, duration_minutes = $3, status = $4, updated_at = NOW()
		WHERE id = $1
	`, id, booking.ScheduledAt, booking.DurationMinutes, models.BookingStatusRescheduled)
	if err != nil {
		return fmt.Errorf("booking repository: reschedule %w", err)
	}
	return requireRow(res, apperror.ErrBookingNotFound)
}

// CreateMessage добавляет сообщение в чат бронирования.
func (r *BookingRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO messages (booking_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at
	`, message.BookingID, message.SenderID, message.Content).
		Scan(&message.ID, &message.IsRead, &message.CreatedAt)
	if err != nil {
		return fmt.Errorf("booking repository: create message %w", err)
	}
	return nil
}

// ListMessages возвращает сообщения чата в хронологическом порядке.
func (r *BookingRepository) ListMessages(ctx context.Context, bookingID uuid.UUID, limit, offset int) ([]models.Message, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM messages WHERE booking_id = $1`, bookingID)
	if err != nil {
		return nil, 0, fmt.Errorf("booking repository: count messages %w", err)
	}

	var messages []models.Message
	err = r.db.SelectContext(ctx, &messages, `
		SELECT id, booking_id, sender_id, content, is_read, created_at
		FROM messages WHERE booking_id = $1
		ORDER BY created_at, id LIMIT $2 OFFSET $3
	`, bookingID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("booking repository: list messages %w", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, total, nil
}

// MarkMessagesRead помечает прочитанными все чужие сообщения чата.
func (r *BookingRepository) MarkMessagesRead(ctx context.Context, bookingID, readerID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE messages SET is_read = TRUE
		WHERE booking_id = $1 AND sender_id <> $2 AND NOT is_read
	`, bookingID, readerID)
	if err != nil {
		return fmt.Errorf("booking repository: mark messages read %w", err)
	}
	return nil
}

// CountUnreadMessages считает непрочитанные сообщения пользователя по всем чатам.
func (r *BookingRepository) CountUnreadMessages(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM messages m
		JOIN bookings b ON b.id = m.booking_id
		WHERE NOT m.is_read AND m.sender_id <> $1
			AND (b.user_id = $1 OR b.tasker_id IN (SELECT id FROM taskers WHERE user_id = $1))
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("booking repository: count unread %w", err)
	}
	return count, nil
}

// IncrementCompletedTasks наращивает счётчик выполненных заказов исполнителя.
func (r *BookingRepository) IncrementCompletedTasks(ctx context.Context, taskerID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE taskers SET completed_tasks = completed_tasks + 1, updated_at = NOW() WHERE id = $1
	`, taskerID)
	if err != nil {
		return fmt.Errorf("booking repository: increment completed %w", err)
	}
	return nil
}

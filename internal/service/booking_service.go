package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
	"github.com/nvoskresenskiy/tasker-backend/internal/validation"
)

// BookingRepo описывает зависимости BookingService от слоя хранилища.
type BookingRepo interface {
	Create(ctx context.Context, booking *models.Booking) error
	HasScheduleConflict(ctx context.Context, taskerID uuid.UUID, scheduledAt time.Time, durationMinutes int, excludeID *uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Booking, int, error)
	ListByTasker(ctx context.Context, taskerID uuid.UUID, limit, offset int) ([]models.Booking, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Reschedule(ctx context.Context, id uuid.UUID, booking *models.Booking) error
	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, bookingID uuid.UUID, limit, offset int) ([]models.Message, int, error)
	MarkMessagesRead(ctx context.Context, bookingID, readerID uuid.UUID) error
	CountUnreadMessages(ctx context.Context, userID uuid.UUID) (int, error)
	IncrementCompletedTasks(ctx context.Context, taskerID uuid.UUID) error
}

// TaskRepoForBooking — услуги при создании бронирования.
type TaskRepoForBooking interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.TaskDetails, error)
}

// TaskerRepoForBooking — профиль исполнителя при операциях с бронированием.
type TaskerRepoForBooking interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.TaskerDetails, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.TaskerDetails, error)
}

// BookingNotifier отправляет события участникам бронирования в реальном
// времени. Отсутствие подключения не является ошибкой.
type BookingNotifier interface {
	NotifyUser(userID uuid.UUID, event string, payload interface{})
}

// BookingService управляет бронированиями и их чатами.
type BookingService struct {
	repo     BookingRepo
	tasks    TaskRepoForBooking
	taskers  TaskerRepoForBooking
	notifier BookingNotifier
}

func NewBookingService(repo BookingRepo, tasks TaskRepoForBooking, taskers TaskerRepoForBooking, notifier BookingNotifier) *BookingService {
	return &BookingService{repo: repo, tasks: tasks, taskers: taskers, notifier: notifier}
}

// CreateBookingInput — данные нового бронирования.
type CreateBookingInput struct {
	TaskID          uuid.UUID
	ScheduledAt     time.Time
	DurationMinutes int
	Address         *string
	Note            *string
}

// Create создаёт бронирование услуги. Сумма считается из цены услуги:
// почасовая цена умножается на длительность, фиксированная берётся как есть.
func (s *BookingService) Create(ctx context.Context, userID uuid.UUID, in CreateBookingInput) (*models.Booking, error) {
	if in.ScheduledAt.Before(time.Now()) {
		return nil, apperror.New(apperror.ErrCodeValidation, "время бронирования уже прошло")
	}
	if in.DurationMinutes <= 0 {
		in.DurationMinutes = 60
	}
	if in.Address != nil {
		if err := validation.ValidateLength("адрес", *in.Address, 0, validation.MaxAddressLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	task, err := s.tasks.GetByID(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	if !task.IsActive {
		return nil, apperror.New(apperror.ErrCodeConflict, "услуга недоступна для бронирования")
	}

	conflict, err := s.repo.HasScheduleConflict(ctx, task.TaskerID, in.ScheduledAt, in.DurationMinutes, nil)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperror.New(apperror.ErrCodeConflict, "исполнитель занят в это время")
	}

	total := task.Price
	if task.PriceUnit == models.PriceUnitHour {
		total = task.Price * int64(in.DurationMinutes) / 60
	}

	booking := &models.Booking{
		UserID:          userID,
		TaskerID:        task.TaskerID,
		TaskID:          task.ID,
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: in.DurationMinutes,
		TotalAmount:     total,
		Address:         in.Address,
		Note:            in.Note,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.notify(ctx, booking, "booking.created")
	return booking, nil
}

// Get возвращает бронирование участнику.
func (s *BookingService) Get(ctx context.Context, userID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, userID, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// ListForUser возвращает бронирования клиента.
func (s *BookingService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Booking, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// ListForTasker возвращает бронирования исполнителя по владельцу профиля.
func (s *BookingService) ListForTasker(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Booking, int, error) {
	tasker, err := s.taskers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListByTasker(ctx, tasker.ID, limit, offset)
}

// SetStatus выставляет статус бронирования. Любой валидный статус
// допустим из любого текущего, жёсткой матрицы переходов нет.
func (s *BookingService) SetStatus(ctx context.Context, userID, bookingID uuid.UUID, status string) (*models.Booking, error) {
	if _, ok := models.ValidBookingStatuses[status]; !ok {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "неизвестный статус: %s", status)
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, userID, booking); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	if status == models.BookingStatusCompleted && booking.Status != models.BookingStatusCompleted {
		if err := s.repo.IncrementCompletedTasks(ctx, booking.TaskerID); err != nil {
			return nil, err
		}
	}

	booking.Status = status
	s.notify(ctx, booking, "booking.status_changed")
	return booking, nil
}

// Reschedule переносит бронирование на другое время.
func (s *BookingService) Reschedule(ctx context.Context, userID, bookingID uuid.UUID, scheduledAt time.Time, durationMinutes int) (*models.Booking, error) {
	if scheduledAt.Before(time.Now()) {
		return nil, apperror.New(apperror.ErrCodeValidation, "время бронирования уже прошло")
	}
	if durationMinutes <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "длительность должна быть положительной")
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, userID, booking); err != nil {
		return nil, err
	}

	conflict, err := s.repo.HasScheduleConflict(ctx, booking.TaskerID, scheduledAt, durationMinutes, &bookingID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperror.New(apperror.ErrCodeConflict, "исполнитель занят в это время")
	}

	booking.ScheduledAt = scheduledAt
	booking.DurationMinutes = durationMinutes
	if err := s.repo.Reschedule(ctx, bookingID, booking); err != nil {
		return nil, err
	}
	booking.Status = models.BookingStatusRescheduled

	s.notify(ctx, booking, "booking.rescheduled")
	return booking, nil
}

// SendMessage отправляет сообщение в чат бронирования.
func (s *BookingService) SendMessage(ctx context.Context, userID, bookingID uuid.UUID, content string) (*models.Message, error) {
	if err := validation.ValidateLength("сообщение", content,
		validation.MinMessageLength, validation.MaxMessageLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, userID, booking); err != nil {
		return nil, err
	}

	message := &models.Message{
		BookingID: bookingID,
		SenderID:  userID,
		Content:   content,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		// Получатель — второй участник чата.
		recipient := booking.UserID
		if userID == booking.UserID {
			recipient = s.taskerUserID(ctx, booking.TaskerID)
		}
		if recipient != uuid.Nil {
			s.notifier.NotifyUser(recipient, "message.new", message)
		}
	}
	return message, nil
}

// ListMessages возвращает сообщения чата участнику и помечает чужие
// сообщения прочитанными.
func (s *BookingService) ListMessages(ctx context.Context, userID, bookingID uuid.UUID, limit, offset int) ([]models.Message, int, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.requireParticipant(ctx, userID, booking); err != nil {
		return nil, 0, err
	}

	messages, total, err := s.repo.ListMessages(ctx, bookingID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if err := s.repo.MarkMessagesRead(ctx, bookingID, userID); err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// CountUnread считает непрочитанные сообщения пользователя.
func (s *BookingService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnreadMessages(ctx, userID)
}

// requireParticipant пускает к бронированию только клиента или
// исполнителя этого бронирования.
func (s *BookingService) requireParticipant(ctx context.Context, userID uuid.UUID, booking *models.Booking) error {
	if booking.UserID == userID {
		return nil
	}
	tasker, err := s.taskers.GetByUserID(ctx, userID)
	if err == nil && tasker.ID == booking.TaskerID {
		return nil
	}
	return apperror.ErrForbidden
}

func (s *BookingService) notify(ctx context.Context, booking *models.Booking, event string) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyUser(booking.UserID, event, booking)
	if taskerUser := s.taskerUserID(ctx, booking.TaskerID); taskerUser != uuid.Nil {
		s.notifier.NotifyUser(taskerUser, event, booking)
	}
}

func (s *BookingService) taskerUserID(ctx context.Context, taskerID uuid.UUID) uuid.UUID {
	tasker, err := s.taskers.GetByID(ctx, taskerID)
	if err != nil {
		return uuid.Nil
	}
	return tasker.UserID
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
)

// PaymentRepo описывает зависимости PaymentService от слоя хранилища.
type PaymentRepo interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	GetByReference(ctx context.Context, reference string) (*models.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Payment, int, error)
	GetTaskerBalance(ctx context.Context, taskerID uuid.UUID) (*models.TaskerBalance, error)
	CreatePayout(ctx context.Context, payout *models.Payout) error
	GetPayoutByID(ctx context.Context, id uuid.UUID) (*models.Payout, error)
	UpdatePayoutStatus(ctx context.Context, id uuid.UUID, status string, rejectionReason *string) error
	ListPayoutsByTasker(ctx context.Context, taskerID uuid.UUID, limit, offset int) ([]models.Payout, int, error)
}

// BookingRepoForPayment — бронирования при проведении оплаты.
type BookingRepoForPayment interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error
}

// TaskerRepoForPayment — профиль исполнителя при выплатах.
type TaskerRepoForPayment interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.TaskerDetails, error)
}

// Переходы статуса выплаты.
var payoutTransitions = map[string][]string{
	models.PayoutStatusPending:    {models.PayoutStatusProcessing, models.PayoutStatusRejected},
	models.PayoutStatusProcessing: {models.PayoutStatusCompleted, models.PayoutStatusRejected},
}

// PaymentService проводит платежи по бронированиям и выплаты исполнителям.
type PaymentService struct {
	repo     PaymentRepo
	bookings BookingRepoForPayment
	taskers  TaskerRepoForPayment
}

func NewPaymentService(repo PaymentRepo, bookings BookingRepoForPayment, taskers TaskerRepoForPayment) *PaymentService {
	return &PaymentService{repo: repo, bookings: bookings, taskers: taskers}
}

// CreatePayment регистрирует платёж клиента по бронированию.
// Reference генерируется здесь и служит ключом идемпотентности шлюза.
func (s *PaymentService) CreatePayment(ctx context.Context, userID, bookingID uuid.UUID) (*models.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	if booking.PaymentStatus == models.BookingPaymentPaid {
		return nil, apperror.New(apperror.ErrCodeConflict, "бронирование уже оплачено")
	}

	payment := &models.Payment{
		BookingID: bookingID,
		UserID:    userID,
		Amount:    booking.TotalAmount,
		Status:    models.PaymentStatusPending,
		Reference: newPaymentReference(),
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ConfirmPayment фиксирует итоговый статус платежа от шлюза. Успешный
// платёж помечает бронирование оплаченным, возврат — возвращённым.
func (s *PaymentService) ConfirmPayment(ctx context.Context, reference, status string) (*models.Payment, error) {
	switch status {
	case models.PaymentStatusSucceeded, models.PaymentStatusFailed, models.PaymentStatusRefunded:
	default:
		return nil, apperror.Newf(apperror.ErrCodeValidation, "неизвестный статус платежа: %s", status)
	}

	payment, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, payment.ID, status); err != nil {
		return nil, err
	}
	payment.Status = status

	switch status {
	case models.PaymentStatusSucceeded:
		err = s.bookings.UpdatePaymentStatus(ctx, payment.BookingID, models.BookingPaymentPaid)
	case models.PaymentStatusRefunded:
		err = s.bookings.UpdatePaymentStatus(ctx, payment.BookingID, models.BookingPaymentRefunded)
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// ListPayments возвращает платежи клиента.
func (s *PaymentService) ListPayments(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Payment, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// GetBalance возвращает баланс исполнителя по владельцу профиля.
func (s *PaymentService) GetBalance(ctx context.Context, userID uuid.UUID) (*models.TaskerBalance, error) {
	tasker, err := s.taskers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetTaskerBalance(ctx, tasker.ID)
}

// RequestPayoutInput — данные заявки на выплату.
type RequestPayoutInput struct {
	Amount       int64
	BankName     *string
	AccountLast4 *string
}

// RequestPayout создаёт заявку на выплату. Баланс проверяется в
// хранилище под блокировкой, перерасход невозможен.
func (s *PaymentService) RequestPayout(ctx context.Context, userID uuid.UUID, in RequestPayoutInput) (*models.Payout, error) {
	if in.Amount <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма выплаты должна быть положительной")
	}

	tasker, err := s.taskers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	payout := &models.Payout{
		TaskerID:     tasker.ID,
		Amount:       in.Amount,
		BankName:     in.BankName,
		AccountLast4: in.AccountLast4,
	}
	if err := s.repo.CreatePayout(ctx, payout); err != nil {
		return nil, err
	}
	return payout, nil
}

// AdvancePayout двигает заявку по жизненному циклу:
// pending → processing → completed, отклонение возможно до завершения.
func (s *PaymentService) AdvancePayout(ctx context.Context, payoutID uuid.UUID, status string, rejectionReason *string) (*models.Payout, error) {
	payout, err := s.repo.GetPayoutByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range payoutTransitions[payout.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperror.Newf(apperror.ErrCodeConflict, "переход из %s в %s недопустим", payout.Status, status)
	}
	if status == models.PayoutStatusRejected && rejectionReason == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "отклонение требует причины")
	}

	if err := s.repo.UpdatePayoutStatus(ctx, payoutID, status, rejectionReason); err != nil {
		return nil, err
	}
	payout.Status = status
	payout.RejectionReason = rejectionReason
	return payout, nil
}

// ListPayouts возвращает заявки исполнителя по владельцу профиля.
func (s *PaymentService) ListPayouts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Payout, int, error) {
	tasker, err := s.taskers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListPayoutsByTasker(ctx, tasker.ID, limit, offset)
}

func newPaymentReference() string {
	return fmt.Sprintf("pay_%d_%s", time.Now().Unix(), uuid.NewString()[:8])
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
)

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	if args.Error(0) == nil {
		payment.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *mockPaymentRepo) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *mockPaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockPaymentRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Payment, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Payment), args.Int(1), args.Error(2)
}

func (m *mockPaymentRepo) GetTaskerBalance(ctx context.Context, taskerID uuid.UUID) (*models.TaskerBalance, error) {
	args := m.Called(ctx, taskerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskerBalance), args.Error(1)
}

func (m *mockPaymentRepo) CreatePayout(ctx context.Context, payout *models.Payout) error {
	args := m.Called(ctx, payout)
	if args.Error(0) == nil {
		payout.ID = uuid.New()
		payout.Status = models.PayoutStatusPending
	}
	return args.Error(0)
}

func (m *mockPaymentRepo) GetPayoutByID(ctx context.Context, id uuid.UUID) (*models.Payout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payout), args.Error(1)
}

func (m *mockPaymentRepo) UpdatePayoutStatus(ctx context.Context, id uuid.UUID, status string, rejectionReason *string) error {
	args := m.Called(ctx, id, status, rejectionReason)
	return args.Error(0)
}

func (m *mockPaymentRepo) ListPayoutsByTasker(ctx context.Context, taskerID uuid.UUID, limit, offset int) ([]models.Payout, int, error) {
	args := m.Called(ctx, taskerID, limit, offset)
	return args.Get(0).([]models.Payout), args.Int(1), args.Error(2)
}

type mockBookingRepoForPayment struct {
	mock.Mock
}

func (m *mockBookingRepoForPayment) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingRepoForPayment) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error {
	args := m.Called(ctx, id, paymentStatus)
	return args.Error(0)
}

type mockTaskerRepoForPayment struct {
	mock.Mock
}

func (m *mockTaskerRepoForPayment) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.TaskerDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskerDetails), args.Error(1)
}

func newPaymentService() (*PaymentService, *mockPaymentRepo, *mockBookingRepoForPayment, *mockTaskerRepoForPayment) {
	repo := new(mockPaymentRepo)
	bookings := new(mockBookingRepoForPayment)
	taskers := new(mockTaskerRepoForPayment)
	return NewPaymentService(repo, bookings, taskers), repo, bookings, taskers
}

func TestPaymentService_CreatePayment_TakesBookingAmount(t *testing.T) {
	svc, repo, bookings, _ := newPaymentService()
	ctx := context.Background()

	userID := uuid.New()
	bookingID := uuid.New()
	bookings.On("GetByID", ctx, bookingID).Return(&models.Booking{
		ID:            bookingID,
		UserID:        userID,
		TotalAmount:   450000,
		PaymentStatus: models.BookingPaymentUnpaid,
	}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Payment")).Return(nil)

	payment, err := svc.CreatePayment(ctx, userID, bookingID)

	assert.NoError(t, err)
	assert.Equal(t, int64(450000), payment.Amount)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.NotEmpty(t, payment.Reference)
}

func TestPaymentService_CreatePayment_AlreadyPaid(t *testing.T) {
	svc, repo, bookings, _ := newPaymentService()
	ctx := context.Background()

	userID := uuid.New()
	bookingID := uuid.New()
	bookings.On("GetByID", ctx, bookingID).Return(&models.Booking{
		ID:            bookingID,
		UserID:        userID,
		PaymentStatus: models.BookingPaymentPaid,
	}, nil)

	_, err := svc.CreatePayment(ctx, userID, bookingID)

	assert.True(t, apperror.IsConflict(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentService_ConfirmPayment_MarksBookingPaid(t *testing.T) {
	svc, repo, bookings, _ := newPaymentService()
	ctx := context.Background()

	paymentID := uuid.New()
	bookingID := uuid.New()
	repo.On("GetByReference", ctx, "pay_abc").Return(&models.Payment{
		ID:        paymentID,
		BookingID: bookingID,
		Status:    models.PaymentStatusPending,
	}, nil)
	repo.On("UpdateStatus", ctx, paymentID, models.PaymentStatusSucceeded).Return(nil)
	bookings.On("UpdatePaymentStatus", ctx, bookingID, models.BookingPaymentPaid).Return(nil)

	payment, err := svc.ConfirmPayment(ctx, "pay_abc", models.PaymentStatusSucceeded)

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSucceeded, payment.Status)
	bookings.AssertCalled(t, "UpdatePaymentStatus", ctx, bookingID, models.BookingPaymentPaid)
}

func TestPaymentService_ConfirmPayment_FailedLeavesBooking(t *testing.T) {
	svc, repo, bookings, _ := newPaymentService()
	ctx := context.Background()

	paymentID := uuid.New()
	repo.On("GetByReference", ctx, "pay_abc").Return(&models.Payment{
		ID:     paymentID,
		Status: models.PaymentStatusPending,
	}, nil)
	repo.On("UpdateStatus", ctx, paymentID, models.PaymentStatusFailed).Return(nil)

	_, err := svc.ConfirmPayment(ctx, "pay_abc", models.PaymentStatusFailed)

	assert.NoError(t, err)
	bookings.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_RequestPayout_InsufficientBalance(t *testing.T) {
	svc, repo, _, taskers := newPaymentService()
	ctx := context.Background()

	userID := uuid.New()
	taskerID := uuid.New()
	taskers.On("GetByUserID", ctx, userID).
		Return(&models.TaskerDetails{Tasker: models.Tasker{ID: taskerID}}, nil)
	repo.On("CreatePayout", ctx, mock.AnythingOfType("*models.Payout")).
		Return(apperror.ErrInsufficientBalance)

	_, err := svc.RequestPayout(ctx, userID, RequestPayoutInput{Amount: 1000000})

	assert.ErrorIs(t, err, apperror.ErrInsufficientBalance)
}

func TestPaymentService_AdvancePayout_Transitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.PayoutStatusPending, models.PayoutStatusProcessing, true},
		{models.PayoutStatusPending, models.PayoutStatusCompleted, false},
		{models.PayoutStatusProcessing, models.PayoutStatusCompleted, true},
		{models.PayoutStatusCompleted, models.PayoutStatusRejected, false},
		{models.PayoutStatusRejected, models.PayoutStatusProcessing, false},
	}

	for _, tc := range cases {
		svc, repo, _, _ := newPaymentService()
		ctx := context.Background()

		payoutID := uuid.New()
		repo.On("GetPayoutByID", ctx, payoutID).Return(&models.Payout{
			ID:     payoutID,
			Status: tc.from,
		}, nil)
		repo.On("UpdatePayoutStatus", ctx, payoutID, tc.to, (*string)(nil)).Return(nil)

		_, err := svc.AdvancePayout(ctx, payoutID, tc.to, nil)

		if tc.allowed {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.True(t, apperror.IsConflict(err), "%s -> %s", tc.from, tc.to)
			assert.Contains(t, err.Error(), tc.from)
			assert.Contains(t, err.Error(), tc.to)
		}
	}
}

func TestPaymentService_AdvancePayout_RejectRequiresReason(t *testing.T) {
	svc, repo, _, _ := newPaymentService()
	ctx := context.Background()

	payoutID := uuid.New()
	repo.On("GetPayoutByID", ctx, payoutID).Return(&models.Payout{
		ID:     payoutID,
		Status: models.PayoutStatusPending,
	}, nil)

	_, err := svc.AdvancePayout(ctx, payoutID, models.PayoutStatusRejected, nil)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdatePayoutStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

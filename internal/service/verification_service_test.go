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

type mockVerificationRepo struct {
	mock.Mock
}

func (m *mockVerificationRepo) Create(ctx context.Context, v *models.Verification) error {
	args := m.Called(ctx, v)
	if args.Error(0) == nil {
		v.ID = uuid.New()
		v.Status = models.VerificationStatusPending
	}
	return args.Error(0)
}

func (m *mockVerificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Verification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Verification), args.Error(1)
}

func (m *mockVerificationRepo) ListByTasker(ctx context.Context, taskerID uuid.UUID) ([]models.Verification, error) {
	args := m.Called(ctx, taskerID)
	return args.Get(0).([]models.Verification), args.Error(1)
}

func (m *mockVerificationRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Verification, int, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]models.Verification), args.Int(1), args.Error(2)
}

func (m *mockVerificationRepo) Transition(ctx context.Context, id uuid.UUID, fromStatus, toStatus string, actorID *uuid.UUID, note *string) error {
	args := m.Called(ctx, id, fromStatus, toStatus, actorID, note)
	return args.Error(0)
}

func (m *mockVerificationRepo) Approve(ctx context.Context, id uuid.UUID, fromStatus string, actorID *uuid.UUID, note *string, taskerID uuid.UUID, identity, background bool) error {
	args := m.Called(ctx, id, fromStatus, actorID, note, taskerID, identity, background)
	return args.Error(0)
}

func (m *mockVerificationRepo) ListEvents(ctx context.Context, verificationID uuid.UUID) ([]models.VerificationEvent, error) {
	args := m.Called(ctx, verificationID)
	return args.Get(0).([]models.VerificationEvent), args.Error(1)
}

func (m *mockVerificationRepo) HasOpenRequest(ctx context.Context, taskerID uuid.UUID, vType string) (bool, error) {
	args := m.Called(ctx, taskerID, vType)
	return args.Bool(0), args.Error(1)
}

type mockTaskerRepoForVerification struct {
	mock.Mock
}

func (m *mockTaskerRepoForVerification) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.TaskerDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskerDetails), args.Error(1)
}

func newVerificationService() (*VerificationService, *mockVerificationRepo, *mockTaskerRepoForVerification) {
	repo := new(mockVerificationRepo)
	taskers := new(mockTaskerRepoForVerification)
	return NewVerificationService(repo, taskers), repo, taskers
}

func TestVerificationService_Submit_OpenRequestConflict(t *testing.T) {
	svc, repo, taskers := newVerificationService()
	ctx := context.Background()

	userID := uuid.New()
	taskerID := uuid.New()
	taskers.On("GetByUserID", ctx, userID).
		Return(&models.TaskerDetails{Tasker: models.Tasker{ID: taskerID}}, nil)
	repo.On("HasOpenRequest", ctx, taskerID, models.VerificationTypeIdentity).Return(true, nil)

	_, err := svc.Submit(ctx, userID, models.VerificationTypeIdentity, nil)

	assert.True(t, apperror.IsConflict(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVerificationService_Review_AllowedTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.VerificationStatusPending, models.VerificationStatusInReview, true},
		{models.VerificationStatusPending, models.VerificationStatusRejected, true},
		{models.VerificationStatusPending, models.VerificationStatusApproved, false},
		{models.VerificationStatusInReview, models.VerificationStatusApproved, true},
		{models.VerificationStatusInReview, models.VerificationStatusRejected, true},
		{models.VerificationStatusInReview, models.VerificationStatusPending, false},
		{models.VerificationStatusApproved, models.VerificationStatusRejected, false},
		{models.VerificationStatusRejected, models.VerificationStatusInReview, false},
		{models.VerificationStatusApproved, models.VerificationStatusApproved, false},
	}

	for _, tc := range cases {
		svc, repo, _ := newVerificationService()
		ctx := context.Background()

		reviewerID := uuid.New()
		verificationID := uuid.New()
		taskerID := uuid.New()
		repo.On("GetByID", ctx, verificationID).Return(&models.Verification{
			ID:       verificationID,
			TaskerID: taskerID,
			Type:     models.VerificationTypeBackgroundCheck,
			Status:   tc.from,
		}, nil)
		repo.On("Transition", ctx, verificationID, tc.from, tc.to, &reviewerID, (*string)(nil)).Return(nil)
		repo.On("Approve", ctx, verificationID, tc.from, &reviewerID, (*string)(nil),
			taskerID, false, true).Return(nil)

		_, err := svc.Review(ctx, reviewerID, verificationID, tc.to, nil)

		if tc.allowed {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.True(t, apperror.IsConflict(err), "%s -> %s", tc.from, tc.to)
			repo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything,
				mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything,
				mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		}
	}
}

// Сообщение об ошибке называет оба статуса недопустимого перехода.
func TestVerificationService_Review_InvalidTransitionMessage(t *testing.T) {
	svc, repo, _ := newVerificationService()
	ctx := context.Background()

	reviewerID := uuid.New()
	verificationID := uuid.New()
	repo.On("GetByID", ctx, verificationID).Return(&models.Verification{
		ID:       verificationID,
		TaskerID: uuid.New(),
		Type:     models.VerificationTypeIdentity,
		Status:   models.VerificationStatusRejected,
	}, nil)

	_, err := svc.Review(ctx, reviewerID, verificationID, models.VerificationStatusApproved, nil)

	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), models.VerificationStatusRejected)
	assert.Contains(t, err.Error(), models.VerificationStatusApproved)
}

// Одобрение проверки личности идёт одним вызовом репозитория: смена
// статуса и флаги доверия фиксируются в общей транзакции.
func TestVerificationService_Review_ApproveIdentity(t *testing.T) {
	svc, repo, _ := newVerificationService()
	ctx := context.Background()

	reviewerID := uuid.New()
	verificationID := uuid.New()
	taskerID := uuid.New()

	repo.On("GetByID", ctx, verificationID).Return(&models.Verification{
		ID:       verificationID,
		TaskerID: taskerID,
		Type:     models.VerificationTypeIdentity,
		Status:   models.VerificationStatusInReview,
	}, nil)
	repo.On("Approve", ctx, verificationID, models.VerificationStatusInReview,
		&reviewerID, (*string)(nil), taskerID, true, false).Return(nil)

	v, err := svc.Review(ctx, reviewerID, verificationID, models.VerificationStatusApproved, nil)

	assert.NoError(t, err)
	assert.Equal(t, models.VerificationStatusApproved, v.Status)
	repo.AssertCalled(t, "Approve", ctx, verificationID, models.VerificationStatusInReview,
		&reviewerID, (*string)(nil), taskerID, true, false)
	repo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything)
}

func TestVerificationService_Review_ApproveBackgroundCheck(t *testing.T) {
	svc, repo, _ := newVerificationService()
	ctx := context.Background()

	reviewerID := uuid.New()
	verificationID := uuid.New()
	taskerID := uuid.New()

	repo.On("GetByID", ctx, verificationID).Return(&models.Verification{
		ID:       verificationID,
		TaskerID: taskerID,
		Type:     models.VerificationTypeBackgroundCheck,
		Status:   models.VerificationStatusInReview,
	}, nil)
	repo.On("Approve", ctx, verificationID, models.VerificationStatusInReview,
		&reviewerID, (*string)(nil), taskerID, false, true).Return(nil)

	_, err := svc.Review(ctx, reviewerID, verificationID, models.VerificationStatusApproved, nil)

	assert.NoError(t, err)
	repo.AssertCalled(t, "Approve", ctx, verificationID, models.VerificationStatusInReview,
		&reviewerID, (*string)(nil), taskerID, false, true)
}

// Ошибка при одобрении не оставляет заявку одобренной наполовину:
// сервис возвращает ошибку репозитория как есть.
func TestVerificationService_Review_ApproveFailurePropagates(t *testing.T) {
	svc, repo, _ := newVerificationService()
	ctx := context.Background()

	reviewerID := uuid.New()
	verificationID := uuid.New()
	taskerID := uuid.New()

	repo.On("GetByID", ctx, verificationID).Return(&models.Verification{
		ID:       verificationID,
		TaskerID: taskerID,
		Type:     models.VerificationTypeIdentity,
		Status:   models.VerificationStatusInReview,
	}, nil)
	repo.On("Approve", ctx, verificationID, models.VerificationStatusInReview,
		&reviewerID, (*string)(nil), taskerID, true, false).
		Return(apperror.ErrInvalidTransition)

	_, err := svc.Review(ctx, reviewerID, verificationID, models.VerificationStatusApproved, nil)

	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
)

// Разрешённые переходы статуса верификации. Любой другой переход —
// конфликт, включая повтор текущего статуса.
var verificationTransitions = map[string][]string{
	models.VerificationStatusPending:  {models.VerificationStatusInReview, models.VerificationStatusRejected},
	models.VerificationStatusInReview: {models.VerificationStatusApproved, models.VerificationStatusRejected},
}

// VerificationRepo описывает зависимости VerificationService от хранилища.
type VerificationRepo interface {
	Create(ctx context.Context, v *models.Verification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Verification, error)
	ListByTasker(ctx context.Context, taskerID uuid.UUID) ([]models.Verification, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Verification, int, error)
	Transition(ctx context.Context, id uuid.UUID, fromStatus, toStatus string, actorID *uuid.UUID, note *string) error
	Approve(ctx context.Context, id uuid.UUID, fromStatus string, actorID *uuid.UUID, note *string, taskerID uuid.UUID, identity, background bool) error
	ListEvents(ctx context.Context, verificationID uuid.UUID) ([]models.VerificationEvent, error)
	HasOpenRequest(ctx context.Context, taskerID uuid.UUID, vType string) (bool, error)
}

// TaskerRepoForVerification — профиль исполнителя при верификации.
type TaskerRepoForVerification interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.TaskerDetails, error)
}

// VerificationService ведёт заявки исполнителей на проверку документов.
type VerificationService struct {
	repo    VerificationRepo
	taskers TaskerRepoForVerification
}

func NewVerificationService(repo VerificationRepo, taskers TaskerRepoForVerification) *VerificationService {
	return &VerificationService{repo: repo, taskers: taskers}
}

// Submit подаёт заявку на проверку. Повторная заявка того же типа при
// незакрытой предыдущей — конфликт.
func (s *VerificationService) Submit(ctx context.Context, userID uuid.UUID, vType string, documentPath *string) (*models.Verification, error) {
	if vType != models.VerificationTypeIdentity && vType != models.VerificationTypeBackgroundCheck {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "неизвестный тип проверки: %s", vType)
	}

	tasker, err := s.taskers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	open, err := s.repo.HasOpenRequest(ctx, tasker.ID, vType)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, apperror.New(apperror.ErrCodeConflict, "заявка этого типа уже на рассмотрении")
	}

	v := &models.Verification{
		TaskerID:     tasker.ID,
		Type:         vType,
		DocumentPath: documentPath,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// ListOwn возвращает заявки владельца профиля.
func (s *VerificationService) ListOwn(ctx context.Context, userID uuid.UUID) ([]models.Verification, error) {
	tasker, err := s.taskers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByTasker(ctx, tasker.ID)
}

// ListQueue возвращает очередь модерации по статусу.
func (s *VerificationService) ListQueue(ctx context.Context, status string, limit, offset int) ([]models.Verification, int, error) {
	if _, ok := models.ValidVerificationStatuses[status]; !ok {
		return nil, 0, apperror.Newf(apperror.ErrCodeValidation, "неизвестный статус: %s", status)
	}
	return s.repo.ListByStatus(ctx, status, limit, offset)
}

// Review переводит заявку в новый статус по таблице переходов и пишет
// событие аудита. Одобрение проставляет флаги доверия на профиле и, для
// проверки личности, отметку на пользователе в одной транзакции со
// сменой статуса.
func (s *VerificationService) Review(ctx context.Context, reviewerID, verificationID uuid.UUID, toStatus string, note *string) (*models.Verification, error) {
	if _, ok := models.ValidVerificationStatuses[toStatus]; !ok {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "неизвестный статус: %s", toStatus)
	}

	v, err := s.repo.GetByID(ctx, verificationID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range verificationTransitions[v.Status] {
		if next == toStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperror.Newf(apperror.ErrCodeConflict, "переход из %s в %s недопустим", v.Status, toStatus)
	}

	if toStatus == models.VerificationStatusApproved {
		identity := v.Type == models.VerificationTypeIdentity
		background := v.Type == models.VerificationTypeBackgroundCheck
		err = s.repo.Approve(ctx, verificationID, v.Status, &reviewerID, note, v.TaskerID, identity, background)
	} else {
		err = s.repo.Transition(ctx, verificationID, v.Status, toStatus, &reviewerID, note)
	}
	if err != nil {
		return nil, err
	}

	v.Status = toStatus
	v.ReviewedBy = &reviewerID
	if note != nil {
		v.Note = note
	}
	return v, nil
}

// History возвращает события аудита заявки.
func (s *VerificationService) History(ctx context.Context, verificationID uuid.UUID) ([]models.VerificationEvent, error) {
	if _, err := s.repo.GetByID(ctx, verificationID); err != nil {
		return nil, err
	}
	return s.repo.ListEvents(ctx, verificationID)
}

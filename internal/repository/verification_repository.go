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

type VerificationRepository struct {
	db *sqlx.DB
}

func NewVerificationRepository(db *sqlx.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Create создаёт заявку на проверку в статусе pending.
func (r *VerificationRepository) Create(ctx context.Context, v *models.Verification) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO verifications (tasker_id, type, document_path)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at, updated_at
	`, v.TaskerID, v.Type, v.DocumentPath).
		Scan(&v.ID, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("verification repository: create %w", err)
	}
	return nil
}

func (r *VerificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Verification, error) {
	var v models.Verification
	err := r.db.GetContext(ctx, &v, `
		SELECT id, tasker_id, type, status, document_path, reviewed_by, note, created_at, updated_at
		FROM verifications WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrVerificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("verification repository: get %w", err)
	}
	return &v, nil
}

// ListByTasker возвращает заявки исполнителя, свежие первыми.
func (r *VerificationRepository) ListByTasker(ctx context.Context, taskerID uuid.UUID) ([]models.Verification, error) {
	var items []models.Verification
	err := r.db.SelectContext(ctx, &items, `
		SELECT id, tasker_id, type, status, document_path, reviewed_by, note, created_at, updated_at
		FROM verifications WHERE tasker_id = $1 ORDER BY created_at DESC
	`, taskerID)
	if err != nil {
		return nil, fmt.Errorf("verification repository: list by tasker %w", err)
	}
	if items == nil {
		items = []models.Verification{}
	}
	return items, nil
}

// ListByStatus возвращает заявки в указанном статусе для очереди модерации.
func (r *VerificationRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Verification, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM verifications WHERE status = $1`, status)
	if err != nil {
		return nil, 0, fmt.Errorf("verification repository: count %w", err)
	}

	var items []models.Verification
	err = r.db.SelectContext(ctx, &items, `
		SELECT id, tasker_id, type, status, document_path, reviewed_by, note, created_at, updated_at
		FROM verifications WHERE status = $1
		ORDER BY created_at, id LIMIT $2 OFFSET $3
	`, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("verification repository: list %w", err)
	}
	if items == nil {
		items = []models.Verification{}
	}
	return items, total, nil
}

// Transition переводит заявку из fromStatus в toStatus и в той же
// транзакции пишет событие аудита. Если заявка уже не в fromStatus,
// возвращается конфликт — проверка и запись атомарны.
func (r *VerificationRepository) Transition(ctx context.Context, id uuid.UUID, fromStatus, toStatus string, actorID *uuid.UUID, note *string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("verification repository: transition begin %w", err)
	}
	defer tx.Rollback()

	if err := transitionInTx(ctx, tx, id, fromStatus, toStatus, actorID, note); err != nil {
		return err
	}
	return tx.Commit()
}

// Approve переводит заявку в approved и в той же транзакции выставляет
// флаги доверия исполнителя. Для проверки личности дополнительно
// подтверждается сам пользователь. Либо всё, либо ничего: упавший
// апдейт флагов откатывает и смену статуса заявки.
func (r *VerificationRepository) Approve(ctx context.Context, id uuid.UUID, fromStatus string, actorID *uuid.UUID, note *string, taskerID uuid.UUID, identity, background bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("verification repository: approve begin %w", err)
	}
	defer tx.Rollback()

	if err := transitionInTx(ctx, tx, id, fromStatus, models.VerificationStatusApproved, actorID, note); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE taskers
		SET is_identity_verified = is_identity_verified OR $2,
			is_background_checked = is_background_checked OR $3,
			updated_at = NOW()
		WHERE id = $1
	`, taskerID, identity, background)
	if err != nil {
		return fmt.Errorf("verification repository: approve tasker flags %w", err)
	}

	if identity {
		_, err = tx.ExecContext(ctx, `
			UPDATE users SET identity_verified = TRUE, updated_at = NOW()
			WHERE id = (SELECT user_id FROM taskers WHERE id = $1)
		`, taskerID)
		if err != nil {
			return fmt.Errorf("verification repository: approve user flag %w", err)
		}
	}
	return tx.Commit()
}

func transitionInTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, fromStatus, toStatus string, actorID *uuid.UUID, note *string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE verifications
		SET status = $3, reviewed_by = COALESCE($4, reviewed_by), note = COALESCE($5, note), updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, fromStatus, toStatus, actorID, note)
	if err != nil {
		return fmt.Errorf("verification repository: transition %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.ErrInvalidTransition
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO verification_events (verification_id, from_status, to_status, actor_id)
		VALUES ($1, $2, $3, $4)
	`, id, fromStatus, toStatus, actorID)
	if err != nil {
		return fmt.Errorf("verification repository: insert event %w", err)
	}
	return nil
}

// ListEvents возвращает историю смены статусов заявки.
func (r *VerificationRepository) ListEvents(ctx context.Context, verificationID uuid.UUID) ([]models.VerificationEvent, error) {
	var events []models.VerificationEvent
	err := r.db.SelectContext(ctx, &events, `
		SELECT id, verification_id, from_status, to_status, actor_id, created_at
		FROM verification_events WHERE verification_id = $1 ORDER BY created_at, id
	`, verificationID)
	if err != nil {
		return nil, fmt.Errorf("verification repository: list events %w", err)
	}
	if events == nil {
		events = []models.VerificationEvent{}
	}
	return events, nil
}

// HasOpenRequest проверяет, есть ли у исполнителя незакрытая заявка этого типа.
func (r *VerificationRepository) HasOpenRequest(ctx context.Context, taskerID uuid.UUID, vType string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM verifications
			WHERE tasker_id = $1 AND type = $2 AND status IN ('pending', 'in_review')
		)
	`, taskerID, vType)
	if err != nil {
		return false, fmt.Errorf("verification repository: has open request %w", err)
	}
	return exists, nil
}

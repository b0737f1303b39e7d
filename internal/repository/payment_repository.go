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

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create регистрирует платёж по бронированию. Reference уникален,
// повторная регистрация того же платежа от шлюза — конфликт.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO payments (booking_id, user_id, amount, status, reference)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, payment.BookingID, payment.UserID, payment.Amount, payment.Status, payment.Reference).
		Scan(&payment.ID, &payment.CreatedAt)
	if isUniqueViolation(err) {
		return apperror.New(apperror.ErrCodeConflict, "платёж с таким reference уже зарегистрирован")
	}
	if err != nil {
		return fmt.Errorf("payment repository: create %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.GetContext(ctx, &payment, `
		SELECT id, booking_id, user_id, amount, status, reference, created_at, completed_at
		FROM payments WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("payment repository: get %w", err)
	}
	return &payment, nil
}

func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.GetContext(ctx, &payment, `
		SELECT id, booking_id, user_id, amount, status, reference, created_at, completed_at
		FROM payments WHERE reference = $1
	`, reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("payment repository: get by reference %w", err)
	}
	return &payment, nil
}

// UpdateStatus фиксирует статус от платёжного шлюза. Успешный платёж
// получает отметку времени завершения.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $2,
			completed_at = CASE WHEN $2 = 'succeeded' THEN NOW() ELSE completed_at END
		WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("payment repository: update status %w", err)
	}
	return requireRow(res, apperror.ErrPaymentNotFound)
}

// ListByUser возвращает платежи клиента, свежие первыми.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Payment, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM payments WHERE user_id = $1`, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("payment repository: count %w", err)
	}

	var payments []models.Payment
	err = r.db.SelectContext(ctx, &payments, `
		SELECT id, booking_id, user_id, amount, status, reference, created_at, completed_at
		FROM payments WHERE user_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("payment repository: list %w", err)
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, total, nil
}

// GetTaskerBalance считает заработанное и выведенное. Заработок —
// успешные платежи по завершённым бронированиям исполнителя; вывод —
// неотклонённые заявки на выплату.
func (r *PaymentRepository) GetTaskerBalance(ctx context.Context, taskerID uuid.UUID) (*models.TaskerBalance, error) {
	return r.getTaskerBalance(ctx, r.db, taskerID)
}

type queryer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func (r *PaymentRepository) getTaskerBalance(ctx context.Context, q queryer, taskerID uuid.UUID) (*models.TaskerBalance, error) {
	balance := models.TaskerBalance{TaskerID: taskerID}

	err := q.GetContext(ctx, &balance.Earned, `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		WHERE b.tasker_id = $1 AND p.status = 'succeeded' AND b.status = 'completed'
	`, taskerID)
	if err != nil {
		return nil, fmt.Errorf("payment repository: balance earned %w", err)
	}

	err = q.GetContext(ctx, &balance.PaidOut, `
		SELECT COALESCE(SUM(amount), 0)
		FROM payouts WHERE tasker_id = $1 AND status <> 'rejected'
	`, taskerID)
	if err != nil {
		return nil, fmt.Errorf("payment repository: balance paid out %w", err)
	}

	balance.Available = balance.Earned - balance.PaidOut
	return &balance, nil
}

// CreatePayout создаёт заявку на выплату, проверяя баланс под блокировкой
// профиля исполнителя, чтобы параллельные заявки не увели баланс в минус.
func (r *PaymentRepository) CreatePayout(ctx context.Context, payout *models.Payout) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("payment repository: payout begin %w", err)
	}
	defer tx.Rollback()

	var lockedID uuid.UUID
	err = tx.GetContext(ctx, &lockedID,
		`SELECT id FROM taskers WHERE id = $1 FOR UPDATE`, payout.TaskerID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.ErrTaskerNotFound
	}
	if err != nil {
		return fmt.Errorf("payment repository: payout lock %w", err)
	}

	balance, err := r.getTaskerBalance(ctx, tx, payout.TaskerID)
	if err != nil {
		return err
	}
	if payout.Amount > balance.Available {
		return apperror.ErrInsufficientBalance
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO payouts (tasker_id, amount, bank_name, account_last4)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at
	`, payout.TaskerID, payout.Amount, payout.BankName, payout.AccountLast4).
		Scan(&payout.ID, &payout.Status, &payout.CreatedAt)
	if err != nil {
		return fmt.Errorf("payment repository: create payout %w", err)
	}
	return tx.Commit()
}

func (r *PaymentRepository) GetPayoutByID(ctx context.Context, id uuid.UUID) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.GetContext(ctx, &payout, `
		SELECT id, tasker_id, amount, status, bank_name, account_last4, rejection_reason, created_at, processed_at
		FROM payouts WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrPayoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("payment repository: get payout %w", err)
	}
	return &payout, nil
}

// UpdatePayoutStatus двигает заявку по жизненному циклу выплаты.
func (r *PaymentRepository) UpdatePayoutStatus(ctx context.Context, id uuid.UUID, status string, rejectionReason *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payouts
		SET status = $2, rejection_reason = $3,
			processed_at = CASE WHEN $2 IN ('completed', 'rejected') THEN NOW() ELSE processed_at END
		WHERE id = $1
	`, id, status, rejectionReason)
	if err != nil {
		return fmt.Errorf("payment repository: update payout status %w", err)
	}
	return requireRow(res, apperror.ErrPayoutNotFound)
}

// ListPayoutsByTasker возвращает заявки исполнителя, свежие первыми.
func (r *PaymentRepository) ListPayoutsByTasker(ctx context.Context, taskerID uuid.UUID, limit, offset int) ([]models.Payout, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM payouts WHERE tasker_id = $1`, taskerID)
	if err != nil {
		return nil, 0, fmt.Errorf("payment repository: count payouts %w", err)
	}

	var payouts []models.Payout
	err = r.db.SelectContext(ctx, &payouts, `
		SELECT id, tasker_id, amount, status, bank_name, account_last4, rejection_reason, created_at, processed_at
		FROM payouts WHERE tasker_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3
	`, taskerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("payment repository: list payouts %w", err)
	}
	if payouts == nil {
		payouts = []models.Payout{}
	}
	return payouts, total, nil
}

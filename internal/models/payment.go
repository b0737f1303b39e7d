package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment — платёж по бронированию. Статус приходит от внешнего
// платёжного шлюза в виде строки, сервис его только фиксирует.
// Суммы в минорных единицах валюты.
type Payment struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	BookingID   uuid.UUID  `db:"booking_id" json:"booking_id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	Amount      int64      `db:"amount" json:"amount"`
	Status      string     `db:"status" json:"status"`
	Reference   string     `db:"reference" json:"reference"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// Payout — заявка исполнителя на вывод заработанных средств.
type Payout struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	TaskerID        uuid.UUID  `db:"tasker_id" json:"tasker_id"`
	Amount          int64      `db:"amount" json:"amount"`
	Status          string     `db:"status" json:"status"`
	BankName        *string    `db:"bank_name" json:"bank_name,omitempty"`
	AccountLast4    *string    `db:"account_last4" json:"account_last4,omitempty"`
	RejectionReason *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	ProcessedAt     *time.Time `db:"processed_at" json:"processed_at,omitempty"`
}

// TaskerBalance — доступные к выводу средства исполнителя.
type TaskerBalance struct {
	TaskerID  uuid.UUID `json:"tasker_id"`
	Earned    int64     `json:"earned"`
	PaidOut   int64     `json:"paid_out"`
	Available int64     `json:"available"`
}

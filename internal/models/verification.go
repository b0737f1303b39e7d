package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы проверок исполнителя.
const (
	VerificationTypeIdentity        = "identity"
	VerificationTypeBackgroundCheck = "background_check"
)

// Verification — заявка исполнителя на проверку документов.
type Verification struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	TaskerID     uuid.UUID  `db:"tasker_id" json:"tasker_id"`
	Type         string     `db:"type" json:"type"`
	Status       string     `db:"status" json:"status"`
	DocumentPath *string    `db:"document_path" json:"document_path,omitempty"`
	ReviewedBy   *uuid.UUID `db:"reviewed_by" json:"reviewed_by,omitempty"`
	Note         *string    `db:"note" json:"note,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// VerificationEvent — запись аудита смены статуса проверки.
type VerificationEvent struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	VerificationID uuid.UUID  `db:"verification_id" json:"verification_id"`
	FromStatus     string     `db:"from_status" json:"from_status"`
	ToStatus       string     `db:"to_status" json:"to_status"`
	ActorID        *uuid.UUID `db:"actor_id" json:"actor_id,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

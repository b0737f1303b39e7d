package models

import (
	"time"

	"github.com/google/uuid"
)

// Review — отзыв клиента об исполнителе после завершённого бронирования.
// Не более одного отзыва на пару (бронирование, автор).
type Review struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	BookingID  uuid.UUID  `db:"booking_id" json:"booking_id"`
	ReviewerID uuid.UUID  `db:"reviewer_id" json:"reviewer_id"`
	TaskerID   uuid.UUID  `db:"tasker_id" json:"tasker_id"`
	TaskID     *uuid.UUID `db:"task_id" json:"task_id,omitempty"`
	Rating     int        `db:"rating" json:"rating"`
	Comment    *string    `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

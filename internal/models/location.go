package models

import (
	"time"

	"github.com/google/uuid"
)

// Location хранит адрес и координаты пользователя или услуги.
// Координаты всегда числовые, строковые варианты старых схем не поддерживаются.
type Location struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	Address   string     `db:"address" json:"address"`
	City      *string    `db:"city" json:"city,omitempty"`
	Latitude  float64    `db:"latitude" json:"latitude"`
	Longitude float64    `db:"longitude" json:"longitude"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category представляет категорию услуг каталога.
type Category struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Icon        *string   `db:"icon" json:"icon,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	IsPopular   bool      `db:"is_popular" json:"is_popular"`
	IsFeatured  bool      `db:"is_featured" json:"is_featured"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

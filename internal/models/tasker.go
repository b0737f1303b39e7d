package models

import (
	"time"

	"github.com/google/uuid"
)

// Tasker описывает профиль исполнителя. Связан 1:1 с пользователем,
// никогда не удаляется физически — только деактивируется.
type Tasker struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	UserID              uuid.UUID  `db:"user_id" json:"user_id"`
	Headline            string     `db:"headline" json:"headline"`
	Bio                 *string    `db:"bio" json:"bio,omitempty"`
	Rating              *float64   `db:"rating" json:"rating,omitempty"`
	ReviewCount         int        `db:"review_count" json:"review_count"`
	CompletedTasks      int        `db:"completed_tasks" json:"completed_tasks"`
	ResponseTimeMinutes *int       `db:"response_time_minutes" json:"response_time_minutes,omitempty"`
	IsElite             bool       `db:"is_elite" json:"is_elite"`
	IsBackgroundChecked bool       `db:"is_background_checked" json:"is_background_checked"`
	IsIdentityVerified  bool       `db:"is_identity_verified" json:"is_identity_verified"`
	IsActive            bool       `db:"is_active" json:"is_active"`
	LocationID          *uuid.UUID `db:"location_id" json:"location_id,omitempty"`
	PhotoID             *uuid.UUID `db:"photo_id" json:"photo_id,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// TaskerSkill — связка (исполнитель, категория) с почасовой ставкой.
// Ставка хранится в минорных единицах валюты (копейках).
// У исполнителя может быть не более одной активной связки на категорию.
type TaskerSkill struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TaskerID     uuid.UUID `db:"tasker_id" json:"tasker_id"`
	CategoryID   uuid.UUID `db:"category_id" json:"category_id"`
	HourlyRate   int64     `db:"hourly_rate" json:"hourly_rate"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CategoryName *string   `db:"category_name" json:"category_name,omitempty"`
	CategorySlug *string   `db:"category_slug" json:"category_slug,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PortfolioItem — работа из портфолио исполнителя.
type PortfolioItem struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	TaskerID     uuid.UUID  `db:"tasker_id" json:"tasker_id"`
	Title        string     `db:"title" json:"title"`
	Description  *string    `db:"description" json:"description,omitempty"`
	PhotoID      *uuid.UUID `db:"photo_id" json:"photo_id,omitempty"`
	DisplayOrder int        `db:"display_order" json:"display_order"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// TaskerDetails — исполнитель с загруженными дочерними коллекциями.
type TaskerDetails struct {
	Tasker
	Skills     []TaskerSkill   `json:"skills"`
	Portfolio  []PortfolioItem `json:"portfolio"`
	Location   *Location       `json:"location,omitempty"`
	DistanceKm *float64        `json:"distance_km,omitempty"`
}

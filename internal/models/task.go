package models

import (
	"time"

	"github.com/google/uuid"
)

// Task — каталожная услуга, которую предлагает исполнитель.
// Цена в минорных единицах валюты (копейках).
type Task struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	TaskerID    uuid.UUID  `db:"tasker_id" json:"tasker_id"`
	CategoryID  uuid.UUID  `db:"category_id" json:"category_id"`
	Slug        string     `db:"slug" json:"slug"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Price       int64      `db:"price" json:"price"`
	PriceUnit   string     `db:"price_unit" json:"price_unit"`
	Rating      *float64   `db:"rating" json:"rating,omitempty"`
	ReviewCount int        `db:"review_count" json:"review_count"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	IsPopular   bool       `db:"is_popular" json:"is_popular"`
	IsFeatured  bool       `db:"is_featured" json:"is_featured"`
	LocationID  *uuid.UUID `db:"location_id" json:"location_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// TaskQuestion — вопрос-ответ, задаваемый клиенту при бронировании услуги.
type TaskQuestion struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TaskID       uuid.UUID `db:"task_id" json:"task_id"`
	Question     string    `db:"question" json:"question"`
	Answer       *string   `db:"answer" json:"answer,omitempty"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
}

// TaskFAQ — часто задаваемый вопрос на странице услуги.
type TaskFAQ struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TaskID       uuid.UUID `db:"task_id" json:"task_id"`
	Question     string    `db:"question" json:"question"`
	Answer       string    `db:"answer" json:"answer"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
}

// TaskDetails — услуга с загруженными дочерними коллекциями.
type TaskDetails struct {
	Task
	Questions  []TaskQuestion `json:"questions"`
	FAQs       []TaskFAQ      `json:"faqs"`
	Location   *Location      `json:"location,omitempty"`
	DistanceKm *float64       `json:"distance_km,omitempty"`
}

package dto

import (
	"github.com/google/uuid"
)

// TaskQuestionRequest — вопрос к клиенту в составе услуги.
type TaskQuestionRequest struct {
	Question string  `json:"question" binding:"required"`
	Answer   *string `json:"answer"`
}

// TaskFAQRequest — пункт FAQ в составе услуги.
type TaskFAQRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// TaskRequest — тело создания и обновления услуги.
// Цена в минорных единицах валюты (копейках).
type TaskRequest struct {
	CategoryID  uuid.UUID             `json:"category_id" binding:"required"`
	Title       string                `json:"title" binding:"required"`
	Description *string               `json:"description"`
	Price       int64                 `json:"price" binding:"required"`
	PriceUnit   string                `json:"price_unit" binding:"required"`
	LocationID  *uuid.UUID            `json:"location_id"`
	Questions   []TaskQuestionRequest `json:"questions"`
	FAQs        []TaskFAQRequest      `json:"faqs"`
}

// CreateBookingRequest — тело создания бронирования.
type CreateBookingRequest struct {
	TaskID          uuid.UUID `json:"task_id" binding:"required"`
	ScheduledAt     string    `json:"scheduled_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	Address         *string   `json:"address"`
	Note            *string   `json:"note"`
}

// RequestPayoutRequest — тело заявки на выплату.
type RequestPayoutRequest struct {
	Amount       int64   `json:"amount" binding:"required"`
	BankName     *string `json:"bank_name"`
	AccountLast4 *string `json:"account_last4"`
}

// CategoryRequest — тело создания и обновления категории.
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	IsPopular   bool    `json:"is_popular"`
	IsFeatured  bool    `json:"is_featured"`
	SortOrder   int     `json:"sort_order"`
}

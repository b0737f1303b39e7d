package repository

import "github.com/google/uuid"

// Сортировки, разрешённые в поиске. Всё остальное приводится к значению
// по умолчанию, чтобы имя колонки никогда не попадало в SQL напрямую.
var taskerSortColumns = map[string]string{
	"rating":        "tr.rating",
	"review_count":  "tr.review_count",
	"price":         "min_rate",
	"created_at":    "tr.created_at",
	"distance":      "distance",
	"completions":   "tr.completed_tasks",
	"response_time": "tr.response_time_minutes",
	"name":          "tr.headline",
}

var taskSortColumns = map[string]string{
	"rating":       "t.rating",
	"review_count": "t.review_count",
	"price":        "t.price",
	"created_at":   "t.created_at",
	"name":         "t.title",
}

// TaskerSearchParams — параметры поиска исполнителей.
type TaskerSearchParams struct {
	Query             string
	CategoryID        *uuid.UUID
	MinHourlyRate     *int64
	MaxHourlyRate     *int64
	MinRating         *float64
	Elite             *bool
	BackgroundChecked *bool
	IdentityVerified  *bool
	IncludeInactive   bool
	Latitude          *float64
	Longitude         *float64
	RadiusKm          *float64
	SortBy            string
	SortOrder         string
	Limit             int
	Offset            int
}

// TaskSearchParams — параметры поиска услуг.
type TaskSearchParams struct {
	Query           string
	CategoryID      *uuid.UUID
	TaskerID        *uuid.UUID
	MinPrice        *int64
	MaxPrice        *int64
	MinRating       *float64
	Popular         *bool
	Featured        *bool
	IncludeInactive bool
	SortBy          string
	SortOrder       string
	Limit           int
	Offset          int
}

func sortDirection(order string) string {
	if order == "asc" {
		return "ASC"
	}
	return "DESC"
}

package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskRepository_BuildSearch_IncludeInactive(t *testing.T) {
	r := &TaskRepository{}

	activeSQL, _ := r.buildSearch(TaskSearchParams{Limit: 20}).Build()
	assert.Contains(t, activeSQL, "t.is_active = TRUE")

	allSQL, _ := r.buildSearch(TaskSearchParams{IncludeInactive: true, Limit: 20}).Build()
	assert.NotContains(t, allSQL, "t.is_active")
}

// Вывернутый диапазон цен попадает в SQL как есть и даёт пустую выдачу.
func TestTaskRepository_BuildSearch_PriceRange(t *testing.T) {
	r := &TaskRepository{}

	min := int64(500000)
	max := int64(100000)
	sql, args := r.buildSearch(TaskSearchParams{MinPrice: &min, MaxPrice: &max, Limit: 20}).Build()

	assert.Contains(t, sql, "t.price >= $1 AND t.price <= $2")
	assert.Equal(t, []interface{}{min, max, 20, 0}, args)
}

func TestTaskOrderExpr(t *testing.T) {
	cases := []struct {
		sortBy string
		order  string
		expr   string
	}{
		{"name", "asc", "t.title ASC"},
		{"price", "desc", "t.price DESC"},
		{"rating", "asc", "t.rating ASC NULLS LAST"},
		{"review_count", "desc", "t.review_count DESC"},
		{"", "", "t.created_at DESC"},
		{"nonsense", "asc", "t.created_at DESC"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expr, taskOrderExpr(TaskSearchParams{SortBy: tc.sortBy, SortOrder: tc.order}), "sort_by=%q", tc.sortBy)
	}
}

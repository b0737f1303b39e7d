package repository

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

// Соседние страницы отличаются только OFFSET: условия, сортировка и
// разрешение ничьих по tr.id совпадают, поэтому страницы не пересекаются.
func TestTaskerRepository_BuildSearch_StablePagination(t *testing.T) {
	r := &TaskerRepository{}

	first := TaskerSearchParams{SortBy: "rating", Limit: 20, Offset: 0}
	second := first
	second.Offset = 20

	firstSQL, firstArgs := r.buildSearch(first).Build()
	secondSQL, secondArgs := r.buildSearch(second).Build()

	assert.Equal(t, firstSQL, secondSQL)
	assert.Contains(t, firstSQL, "ORDER BY tr.rating DESC NULLS LAST, tr.id DESC")

	// Аргументы различаются только смещением.
	assert.Equal(t, firstArgs[:len(firstArgs)-1], secondArgs[:len(secondArgs)-1])
	assert.Equal(t, 0, firstArgs[len(firstArgs)-1])
	assert.Equal(t, 20, secondArgs[len(secondArgs)-1])
}

// Диапазон ставки проверяется одним EXISTS: нужен один навык, попадающий
// в диапазон целиком, а не два разных навыка по краям.
func TestTaskerRepository_BuildSearch_RateRangeSingleSkill(t *testing.T) {
	r := &TaskerRepository{}

	min := int64(100000)
	max := int64(300000)
	sql, args := r.buildSearch(TaskerSearchParams{
		MinHourlyRate: &min,
		MaxHourlyRate: &max,
		Limit:         20,
	}).Build()

	assert.Equal(t, 1, strings.Count(sql, "EXISTS"))
	assert.Contains(t, sql, "ts.hourly_rate >= $1 AND ts.hourly_rate <= $2")
	assert.Equal(t, []interface{}{min, max, 20, 0}, args)
}

// По умолчанию ищутся только активные профили; include_inactive снимает фильтр.
func TestTaskerRepository_BuildSearch_IncludeInactive(t *testing.T) {
	r := &TaskerRepository{}

	activeSQL, _ := r.buildSearch(TaskerSearchParams{Limit: 20}).Build()
	assert.Contains(t, activeSQL, "tr.is_active = TRUE")

	allSQL, _ := r.buildSearch(TaskerSearchParams{IncludeInactive: true, Limit: 20}).Build()
	assert.NotContains(t, allSQL, "tr.is_active")
}

func TestTaskerRepository_BuildSearch_IdentityVerifiedFilter(t *testing.T) {
	r := &TaskerRepository{}

	verified := true
	sql, args := r.buildSearch(TaskerSearchParams{
		IdentityVerified: &verified,
		Limit:            20,
	}).Build()

	assert.Contains(t, sql, "tr.is_identity_verified = $1")
	assert.Equal(t, []interface{}{true, 20, 0}, args)
}

func TestTaskerOrderExpr_Sorts(t *testing.T) {
	cases := []struct {
		sortBy string
		order  string
		expr   string
	}{
		{"completions", "desc", "tr.completed_tasks DESC"},
		{"completions", "asc", "tr.completed_tasks ASC"},
		{"response_time", "asc", "tr.response_time_minutes ASC NULLS LAST"},
		{"name", "asc", "tr.headline ASC"},
		{"review_count", "desc", "tr.review_count DESC"},
		{"created_at", "asc", "tr.created_at ASC"},
		{"rating", "asc", "tr.rating ASC NULLS LAST"},
		{"", "", "tr.rating DESC NULLS LAST"},
		{"garbage; DROP TABLE taskers", "desc", "tr.rating DESC NULLS LAST"},
	}

	for _, tc := range cases {
		expr, args := taskerOrderExpr(TaskerSearchParams{SortBy: tc.sortBy, SortOrder: tc.order})
		assert.Equal(t, tc.expr, expr, "sort_by=%q", tc.sortBy)
		assert.Empty(t, args)
	}
}

// Координаты сортировки по дистанции биндятся как аргументы, а не
// подставляются в текст запроса.
func TestTaskerOrderExpr_DistanceBindsCoordinates(t *testing.T) {
	lat, lon := 55.7558, 37.6173
	expr, args := taskerOrderExpr(TaskerSearchParams{
		SortBy:    "distance",
		Latitude:  &lat,
		Longitude: &lon,
	})

	assert.NotContains(t, expr, "55.7")
	assert.NotContains(t, expr, "37.6")
	assert.Equal(t, []interface{}{lat, lon, lat}, args)

	// Без координат сортировка откатывается к рейтингу.
	fallback, fallbackArgs := taskerOrderExpr(TaskerSearchParams{SortBy: "distance"})
	assert.Equal(t, "tr.rating DESC NULLS LAST", fallback)
	assert.Empty(t, fallbackArgs)
}

// Мягко удалённый навык реактивируется на месте, без INSERT.
func TestTaskerRepository_AddSkill_ReactivatesSoftDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewTaskerRepository(db)

	taskerID := uuid.New()
	categoryID := uuid.New()
	existingID := uuid.New()
	createdAt := time.Now().Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasker_skills")).
		WithArgs(taskerID, categoryID, int64(250000)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(existingID, createdAt))
	mock.ExpectCommit()

	skill := &models.TaskerSkill{
		TaskerID:   taskerID,
		CategoryID: categoryID,
		HourlyRate: 250000,
	}
	err := r.AddSkill(context.Background(), skill)

	assert.NoError(t, err)
	assert.Equal(t, existingID, skill.ID)
	assert.True(t, skill.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Дочерние коллекции собираются по ключам: порядок страницы сохраняется,
// даже когда БД вернула навыки вперемешку.
func TestTaskerRepository_HydrateChildren_PreservesPageOrder(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewTaskerRepository(db)

	firstID := uuid.New()
	secondID := uuid.New()
	page := []taskerPageRow{
		{Tasker: models.Tasker{ID: firstID}},
		{Tasker: models.Tasker{ID: secondID}},
	}

	now := time.Now()
	skillCols := []string{"id", "tasker_id", "category_id", "hourly_rate", "is_active", "created_at", "category_name", "category_slug"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM tasker_skills ts")).
		WillReturnRows(sqlmock.NewRows(skillCols).
			AddRow(uuid.New(), secondID, uuid.New(), int64(200000), true, now, "Сантехника", "plumbing").
			AddRow(uuid.New(), firstID, uuid.New(), int64(150000), true, now, "Уборка", "cleaning"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM portfolio_items")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tasker_id", "title", "description", "photo_id", "display_order", "created_at"}))

	items, err := r.hydrateChildren(context.Background(), page)

	assert.NoError(t, err)
	if assert.Len(t, items, 2) {
		assert.Equal(t, firstID, items[0].ID)
		assert.Equal(t, secondID, items[1].ID)
		if assert.Len(t, items[0].Skills, 1) {
			assert.Equal(t, int64(150000), items[0].Skills[0].HourlyRate)
		}
		if assert.Len(t, items[1].Skills, 1) {
			assert.Equal(t, int64(200000), items[1].Skills[0].HourlyRate)
		}
		assert.Empty(t, items[0].Portfolio)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Пустая страница не порождает запросов к БД.
func TestTaskerRepository_HydrateChildren_EmptyPage(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewTaskerRepository(db)

	items, err := r.hydrateChildren(context.Background(), nil)

	assert.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
)

const taskColumns = `t.id, t.tasker_id, t.category_id, t.slug, t.title, t.description,
	t.price, t.price_unit, t.rating, t.review_count, t.is_active, t.is_popular,
	t.is_featured, t.location_id, t.created_at, t.updated_at`

type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Search выполняет поиск услуг: страница родительских строк, затем
// вопросы и FAQ одним запросом на коллекцию.
func (r *TaskRepository) Search(ctx context.Context, params TaskSearchParams) ([]models.TaskDetails, int, error) {
	q := r.buildSearch(params)

	countSQL, countArgs := q.BuildCount()
	var total int
	if err := r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("task repository: count search %w", err)
	}

	pageSQL, pageArgs := q.Build()
	var page []models.Task
	if err := r.db.SelectContext(ctx, &page, pageSQL, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("task repository: select page %w", err)
	}

	items, err := r.hydrateChildren(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *TaskRepository) buildSearch(params TaskSearchParams) searchQuery {
	q := newSearchQuery(taskColumns, "tasks t")

	if !params.IncludeInactive {
		q = q.Where("t.is_active = TRUE")
	}
	if params.Query != "" {
		q = q.Where("(t.title ILIKE ? OR t.description ILIKE ?)",
			"%"+params.Query+"%", "%"+params.Query+"%")
	}
	if params.CategoryID != nil {
		q = q.Where("t.category_id = ?", *params.CategoryID)
	}
	if params.TaskerID != nil {
		q = q.Where("t.tasker_id = ?", *params.TaskerID)
	}
	if params.MinPrice != nil {
		q = q.Where("t.price >= ?", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		q = q.Where("t.price <= ?", *params.MaxPrice)
	}
	if params.MinRating != nil {
		q = q.Where("t.rating >= ?", *params.MinRating)
	}
	if params.Popular != nil {
		q = q.Where("t.is_popular = ?", *params.Popular)
	}
	if params.Featured != nil {
		q = q.Where("t.is_featured = ?", *params.Featured)
	}

	q = q.OrderBy(taskOrderExpr(params)).OrderBy("t.id DESC")
	return q.Paginate(params.Limit, params.Offset)
}

func taskOrderExpr(params TaskSearchParams) string {
	dir := sortDirection(params.SortOrder)
	col, ok := taskSortColumns[params.SortBy]
	if !ok {
		// По умолчанию — свежие услуги первыми.
		return "t.created_at DESC"
	}
	if col == "t.rating" {
		return col + " " + dir + " NULLS LAST"
	}
	return col + " " + dir
}

func (r *TaskRepository) hydrateChildren(ctx context.Context, page []models.Task) ([]models.TaskDetails, error) {
	if len(page) == 0 {
		return []models.TaskDetails{}, nil
	}

	ids := make([]string, len(page))
	for i, t := range page {
		ids[i] = t.ID.String()
	}

	var questions []models.TaskQuestion
	err := r.db.SelectContext(ctx, &questions, `
		SELECT id, task_id, question, answer, display_order
		FROM task_questions WHERE task_id = ANY($1)
		ORDER BY display_order, id
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("task repository: hydrate questions %w", err)
	}

	var faqs []models.TaskFAQ
	err = r.db.SelectContext(ctx, &faqs, `
		SELECT id, task_id, question, answer, display_order
		FROM task_faqs WHERE task_id = ANY($1)
		ORDER BY display_order, id
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("task repository: hydrate faqs %w", err)
	}

	questionsByTask := make(map[uuid.UUID][]models.TaskQuestion, len(page))
	for _, q := range questions {
		questionsByTask[q.TaskID] = append(questionsByTask[q.TaskID], q)
	}
	faqsByTask := make(map[uuid.UUID][]models.TaskFAQ, len(page))
	for _, f := range faqs {
		faqsByTask[f.TaskID] = append(faqsByTask[f.TaskID], f)
	}

	items := make([]models.TaskDetails, 0, len(page))
	for _, t := range page {
		d := models.TaskDetails{
			Task:      t,
			Questions: questionsByTask[t.ID],
			FAQs:      faqsByTask[t.ID],
		}
		if d.Questions == nil {
			d.Questions = []models.TaskQuestion{}
		}
		if d.FAQs == nil {
			d.FAQs = []models.TaskFAQ{}
		}
		items = append(items, d)
	}
	return items, nil
}

// Create создаёт услугу вместе с вопросами и FAQ в одной транзакции.
// Конфликт slug отдаётся наверх как ErrSlugTaken.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task, questions []models.TaskQuestion, faqs []models.TaskFAQ) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("task repository: create begin %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO tasks (tasker_id, category_id, slug, title, description, price, price_unit, location_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, rating, review_count, is_active, is_popular, is_featured, created_at, updated_at
	`, task.TaskerID, task.CategoryID, task.Slug, task.Title, task.Description,
		task.Price, task.PriceUnit, task.LocationID).Scan(
		&task.ID, &task.Rating, &task.ReviewCount, &task.IsActive,
		&task.IsPopular, &task.IsFeatured, &task.CreatedAt, &task.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return apperror.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("task repository: create %w", err)
	}

	if err := insertTaskChildren(ctx, tx, task.ID, questions, faqs); err != nil {
		return err
	}
	return tx.Commit()
}

// Update обновляет услугу; вопросы и FAQ заменяются целиком.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task, questions []models.TaskQuestion, faqs []models.TaskFAQ) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("task repository: update begin %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET category_id = $2, slug = $3, title = $4, description = $5,
			price = $6, price_unit = $7, location_id = $8, updated_at = NOW()
		WHERE id = $1
	`, task.ID, task.CategoryID, task.Slug, task.Title, task.Description,
		task.Price, task.PriceUnit, task.LocationID)
	if isUniqueViolation(err) {
		return apperror.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("task repository: update %w", err)
	}
	if err := requireRow(res, apperror.ErrTaskNotFound); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_questions WHERE task_id = $1`, task.ID); err != nil {
		return fmt.Errorf("task repository: clear questions %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_faqs WHERE task_id = $1`, task.ID); err != nil {
		return fmt.Errorf("task repository: clear faqs %w", err)
	}
	if err := insertTaskChildren(ctx, tx, task.ID, questions, faqs); err != nil {
		return err
	}
	return tx.Commit()
}

func insertTaskChildren(ctx context.Context, tx *sqlx.Tx, taskID uuid.UUID, questions []models.TaskQuestion, faqs []models.TaskFAQ) error {
	for i, q := range questions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO task_questions (task_id, question, answer, display_order)
			VALUES ($1, $2, $3, $4)
		`, taskID, q.Question, q.Answer, i)
		if err != nil {
			return fmt.Errorf("task repository: insert question %w", err)
		}
	}
	for i, f := range faqs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO task_faqs (task_id, question, answer, display_order)
			VALUES ($1, $2, $3, $4)
		`, taskID, f.Question, f.Answer, i)
		if err != nil {
			return fmt.Errorf("task repository: insert faq %w", err)
		}
	}
	return nil
}

// GetByID возвращает услугу с дочерними коллекциями.
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TaskDetails, error) {
	return r.getDetails(ctx, "t.id = $1", id)
}

// GetBySlug возвращает услугу по slug.
func (r *TaskRepository) GetBySlug(ctx context.Context, slug string) (*models.TaskDetails, error) {
	return r.getDetails(ctx, "t.slug = $1", slug)
}

func (r *TaskRepository) getDetails(ctx context.Context, cond string, arg interface{}) (*models.TaskDetails, error) {
	var task models.Task
	err := r.db.GetContext(ctx, &task, `SELECT `+taskColumns+` FROM tasks t WHERE `+cond, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("task repository: get %w", err)
	}
	items, err := r.hydrateChildren(ctx, []models.Task{task})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// SlugExists проверяет занятость slug, опционально исключая свою услугу.
func (r *TaskRepository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID != nil {
		err = r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM tasks WHERE slug = $1 AND id <> $2)`, slug, *excludeID)
	} else {
		err = r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM tasks WHERE slug = $1)`, slug)
	}
	if err != nil {
		return false, fmt.Errorf("task repository: slug exists %w", err)
	}
	return exists, nil
}

// SetActive включает либо выключает услугу.
func (r *TaskRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET is_active = $2, updated_at = NOW() WHERE id = $1
	`, id, active)
	if err != nil {
		return fmt.Errorf("task repository: set active %w", err)
	}
	return requireRow(res, apperror.ErrTaskNotFound)
}

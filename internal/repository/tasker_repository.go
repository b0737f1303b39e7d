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
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/geo"
)

const taskerColumns = `tr.id, tr.user_id, tr.headline, tr.bio, tr.rating, tr.review_count,
	tr.completed_tasks, tr.response_time_minutes, tr.is_elite, tr.is_background_checked,
	tr.is_identity_verified, tr.is_active, tr.location_id, tr.photo_id, tr.created_at, tr.updated_at`

// Хаверсин по координатам подключённой locations l; лат/лон биндятся трижды.
const haversineSQL = `(6371 * acos(least(1.0,
	cos(radians(?)) * cos(radians(l.latitude)) * cos(radians(l.longitude) - radians(?)) +
	sin(radians(?)) * sin(radians(l.latitude)))))`

type TaskerRepository struct {
	db *sqlx.DB
}

func NewTaskerRepository(db *sqlx.DB) *TaskerRepository {
	return &TaskerRepository{db: db}
}

// taskerPageRow — строка первой фазы поиска: сам исполнитель плюс
// координаты его локации для подсчёта дистанции.
type taskerPageRow struct {
	models.Tasker
	LocID      *uuid.UUID `db:"loc_id"`
	LocAddress *string    `db:"loc_address"`
	LocCity    *string    `db:"loc_city"`
	LocLat     *float64   `db:"loc_latitude"`
	LocLon     *float64   `db:"loc_longitude"`

	// Заполняется в Go после выборки, в БД не хранится.
	distanceKm *float64
}

// Search выполняет поиск исполнителей в два шага: сначала страница
// родительских строк, затем дочерние коллекции одним запросом на тип.
func (r *TaskerRepository) Search(ctx context.Context, params TaskerSearchParams) ([]models.TaskerDetails, int, error) {
	q := r.buildSearch(params)

	countSQL, countArgs := q.BuildCount()
	var total int
	if err := r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("tasker repository: count search %w", err)
	}

	page, err := r.selectPage(ctx, q, params)
	if err != nil {
		return nil, 0, err
	}

	items, err := r.hydrateChildren(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *TaskerRepository) buildSearch(params TaskerSearchParams) searchQuery {
	cols := taskerColumns + `,
		l.id AS loc_id, l.address AS loc_address, l.city AS loc_city,
		l.latitude AS loc_latitude, l.longitude AS loc_longitude`

	q := newSearchQuery(cols, "taskers tr").
		Join("LEFT JOIN locations l ON l.id = tr.location_id")

	if !params.IncludeInactive {
		q = q.Where("tr.is_active = TRUE")
	}
	if params.Query != "" {
		q = q.Where("(tr.headline ILIKE ? OR tr.bio ILIKE ?)",
			"%"+params.Query+"%", "%"+params.Query+"%")
	}
	if params.CategoryID != nil {
		q = q.Where(`EXISTS (SELECT 1 FROM tasker_skills ts
			WHERE ts.tasker_id = tr.id AND ts.is_active AND ts.category_id = ?)`, *params.CategoryID)
	}
	if params.MinHourlyRate != nil || params.MaxHourlyRate != nil {
		// Один EXISTS на оба предела: должен найтись навык, попадающий
		// в диапазон целиком, а не два разных навыка по краям.
		cond := `EXISTS (SELECT 1 FROM tasker_skills ts
			WHERE ts.tasker_id = tr.id AND ts.is_active`
		var args []interface{}
		if params.MinHourlyRate != nil {
			cond += " AND ts.hourly_rate >= ?"
			args = append(args, *params.MinHourlyRate)
		}
		if params.MaxHourlyRate != nil {
			cond += " AND ts.hourly_rate <= ?"
			args = append(args, *params.MaxHourlyRate)
		}
		q = q.Where(cond+")", args...)
	}
	if params.MinRating != nil {
		q = q.Where("tr.rating >= ?", *params.MinRating)
	}
	if params.Elite != nil {
		q = q.Where("tr.is_elite = ?", *params.Elite)
	}
	if params.BackgroundChecked != nil {
		q = q.Where("tr.is_background_checked = ?", *params.BackgroundChecked)
	}
	if params.IdentityVerified != nil {
		q = q.Where("tr.is_identity_verified = ?", *params.IdentityVerified)
	}
	if params.Latitude != nil && params.Longitude != nil && params.RadiusKm != nil {
		q = q.Where(haversineSQL+" <= ?",
			*params.Latitude, *params.Longitude, *params.Latitude, *params.RadiusKm)
	}

	orderExpr, orderArgs := taskerOrderExpr(params)
	q = q.OrderBy(orderExpr, orderArgs...).OrderBy("tr.id DESC")
	return q.Paginate(params.Limit, params.Offset)
}

func taskerOrderExpr(params TaskerSearchParams) (string, []interface{}) {
	dir := sortDirection(params.SortOrder)
	switch params.SortBy {
	case "price":
		return fmt.Sprintf(`(SELECT MIN(ts.hourly_rate) FROM tasker_skills ts
			WHERE ts.tasker_id = tr.id AND ts.is_active) %s NULLS LAST`, dir), nil
	case "distance":
		if params.Latitude == nil || params.Longitude == nil {
			break
		}
		return haversineSQL + " " + dir + " NULLS LAST",
			[]interface{}{*params.Latitude, *params.Longitude, *params.Latitude}
	case "review_count", "created_at", "completions", "name":
		return taskerSortColumns[params.SortBy] + " " + dir, nil
	case "response_time":
		return taskerSortColumns[params.SortBy] + " " + dir + " NULLS LAST", nil
	case "rating":
		return "tr.rating " + dir + " NULLS LAST", nil
	}
	// По умолчанию — лучшие исполнители первыми.
	return "tr.rating " + sortDirection("desc") + " NULLS LAST", nil
}

func (r *TaskerRepository) selectPage(ctx context.Context, q searchQuery, params TaskerSearchParams) ([]taskerPageRow, error) {
	pageSQL, pageArgs := q.Build()
	var rows []taskerPageRow
	if err := r.db.SelectContext(ctx, &rows, pageSQL, pageArgs...); err != nil {
		return nil, fmt.Errorf("tasker repository: select page %w", err)
	}
	if params.Latitude != nil && params.Longitude != nil {
		for i := range rows {
			if rows[i].LocLat == nil || rows[i].LocLon == nil {
				continue
			}
			d := geo.HaversineKm(*params.Latitude, *params.Longitude, *rows[i].LocLat, *rows[i].LocLon)
			rows[i].distanceKm = &d
		}
	}
	return rows, nil
}

// hydrateChildren добирает навыки и портфолио для страницы исполнителей.
// Пустая страница не порождает ни одного запроса. Порядок страницы
// сохраняется, результат собирается по ключам.
func (r *TaskerRepository) hydrateChildren(ctx context.Context, page []taskerPageRow) ([]models.TaskerDetails, error) {
	if len(page) == 0 {
		return []models.TaskerDetails{}, nil
	}

	ids := make([]string, len(page))
	for i, row := range page {
		ids[i] = row.ID.String()
	}

	var skills []models.TaskerSkill
	err := r.db.SelectContext(ctx, &skills, `
		SELECT ts.id, ts.tasker_id, ts.category_id, ts.hourly_rate, ts.is_active, ts.created_at,
			c.name AS category_name, c.slug AS category_slug
		FROM tasker_skills ts
		JOIN categories c ON c.id = ts.category_id
		WHERE ts.is_active AND ts.tasker_id = ANY($1)
		ORDER BY ts.created_at
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("tasker repository: hydrate skills %w", err)
	}

	var portfolio []models.PortfolioItem
	err = r.db.SelectContext(ctx, &portfolio, `
		SELECT id, tasker_id, title, description, photo_id, display_order, created_at
		FROM portfolio_items
		WHERE tasker_id = ANY($1)
		ORDER BY display_order, created_at
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("tasker repository: hydrate portfolio %w", err)
	}

	skillsByTasker := make(map[uuid.UUID][]models.TaskerSkill, len(page))
	for _, s := range skills {
		skillsByTasker[s.TaskerID] = append(skillsByTasker[s.TaskerID], s)
	}
	portfolioByTasker := make(map[uuid.UUID][]models.PortfolioItem, len(page))
	for _, p := range portfolio {
		portfolioByTasker[p.TaskerID] = append(portfolioByTasker[p.TaskerID], p)
	}

	items := make([]models.TaskerDetails, 0, len(page))
	for _, row := range page {
		d := models.TaskerDetails{
			Tasker:     row.Tasker,
			Skills:     skillsByTasker[row.ID],
			Portfolio:  portfolioByTasker[row.ID],
			DistanceKm: row.distanceKm,
		}
		if d.Skills == nil {
			d.Skills = []models.TaskerSkill{}
		}
		if d.Portfolio == nil {
			d.Portfolio = []models.PortfolioItem{}
		}
		if row.LocID != nil && row.LocLat != nil && row.LocLon != nil {
			loc := models.Location{
				ID:        *row.LocID,
				Address:   derefString(row.LocAddress),
				City:      row.LocCity,
				Latitude:  *row.LocLat,
				Longitude: *row.LocLon,
			}
			d.Location = &loc
		}
		items = append(items, d)
	}
	return items, nil
}

// Create создаёт профиль исполнителя. Повторное создание для того же
// пользователя — конфликт.
func (r *TaskerRepository) Create(ctx context.Context, tasker *models.Tasker) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO taskers (user_id, headline, bio, location_id, photo_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, rating, review_count, completed_tasks, is_elite, is_background_checked,
			is_identity_verified, is_active, created_at, updated_at
	`, tasker.UserID, tasker.Headline, tasker.Bio, tasker.LocationID, tasker.PhotoID).Scan(
		&tasker.ID, &tasker.Rating, &tasker.ReviewCount, &tasker.CompletedTasks,
		&tasker.IsElite, &tasker.IsBackgroundChecked, &tasker.IsIdentityVerified,
		&tasker.IsActive, &tasker.CreatedAt, &tasker.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return apperror.ErrTaskerExists
	}
	if err != nil {
		return fmt.Errorf("tasker repository: create %w", err)
	}
	return nil
}

// GetByID возвращает исполнителя с дочерними коллекциями.
func (r *TaskerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TaskerDetails, error) {
	return r.getDetails(ctx, "tr.id = $1", id)
}

// GetByUserID возвращает профиль исполнителя по владельцу.
func (r *TaskerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.TaskerDetails, error) {
	return r.getDetails(ctx, "tr.user_id = $1", userID)
}

func (r *TaskerRepository) getDetails(ctx context.Context, cond string, arg interface{}) (*models.TaskerDetails, error) {
	var row taskerPageRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+taskerColumns+`,
			l.id AS loc_id, l.address AS loc_address, l.city AS loc_city,
			l.latitude AS loc_latitude, l.longitude AS loc_longitude
		FROM taskers tr
		LEFT JOIN locations l ON l.id = tr.location_id
		WHERE `+cond, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrTaskerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tasker repository: get %w", err)
	}
	items, err := r.hydrateChildren(ctx, []taskerPageRow{row})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Update обновляет редактируемые поля профиля.
func (r *TaskerRepository) Update(ctx context.Context, tasker *models.Tasker) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE taskers
		SET headline = $2, bio = $3, location_id = $4, photo_id = $5,
			response_time_minutes = $6, updated_at = NOW()
		WHERE id = $1
	`, tasker.ID, tasker.Headline, tasker.Bio, tasker.LocationID, tasker.PhotoID, tasker.ResponseTimeMinutes)
	if err != nil {
		return fmt.Errorf("tasker repository: update %w", err)
	}
	return requireRow(res, apperror.ErrTaskerNotFound)
}

// SetActive включает либо выключает профиль. Физического удаления нет.
func (r *TaskerRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE taskers SET is_active = $2, updated_at = NOW() WHERE id = $1
	`, id, active)
	if err != nil {
		return fmt.Errorf("tasker repository: set active %w", err)
	}
	return requireRow(res, apperror.ErrTaskerNotFound)
}

// AddSkill добавляет навык. Мягко удалённая связка (исполнитель, категория)
// реактивируется на месте с новой ставкой, активный дубликат — конфликт.
func (r *TaskerRepository) AddSkill(ctx context.Context, skill *models.TaskerSkill) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("tasker repository: add skill begin %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		UPDATE tasker_skills
		SET is_active = TRUE, hourly_rate = $3
		WHERE tasker_id = $1 AND category_id = $2 AND NOT is_active
		RETURNING id, created_at
	`, skill.TaskerID, skill.CategoryID, skill.HourlyRate).Scan(&skill.ID, &skill.CreatedAt)
	if err == nil {
		skill.IsActive = true
		return tx.Commit()
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("tasker repository: reactivate skill %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO tasker_skills (tasker_id, category_id, hourly_rate)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, skill.TaskerID, skill.CategoryID, skill.HourlyRate).Scan(&skill.ID, &skill.CreatedAt)
	if isUniqueViolation(err) {
		return apperror.ErrSkillExists
	}
	if err != nil {
		return fmt.Errorf("tasker repository: add skill %w", err)
	}
	skill.IsActive = true
	return tx.Commit()
}

// UpdateSkillRate меняет почасовую ставку активного навыка.
func (r *TaskerRepository) UpdateSkillRate(ctx context.Context, taskerID, skillID uuid.UUID, rate int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasker_skills SET hourly_rate = $3
		WHERE id = $2 AND tasker_id = $1 AND is_active
	`, taskerID, skillID, rate)
	if err != nil {
		return fmt.Errorf("tasker repository: update skill rate %w", err)
	}
	return requireRow(res, apperror.New(apperror.ErrCodeNotFound, "навык не найден"))
}

// RemoveSkill мягко удаляет навык.
func (r *TaskerRepository) RemoveSkill(ctx context.Context, taskerID, skillID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasker_skills SET is_active = FALSE
		WHERE id = $2 AND tasker_id = $1 AND is_active
	`, taskerID, skillID)
	if err != nil {
		return fmt.Errorf("tasker repository: remove skill %w", err)
	}
	return requireRow(res, apperror.New(apperror.ErrCodeNotFound, "навык не найден"))
}

// AddPortfolioItem добавляет работу в портфолио.
func (r *TaskerRepository) AddPortfolioItem(ctx context.Context, item *models.PortfolioItem) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO portfolio_items (tasker_id, title, description, photo_id, display_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, item.TaskerID, item.Title, item.Description, item.PhotoID, item.DisplayOrder).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("tasker repository: add portfolio item %w", err)
	}
	return nil
}

// RemovePortfolioItem удаляет работу из портфолио владельца.
func (r *TaskerRepository) RemovePortfolioItem(ctx context.Context, taskerID, itemID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM portfolio_items WHERE id = $2 AND tasker_id = $1
	`, taskerID, itemID)
	if err != nil {
		return fmt.Errorf("tasker repository: remove portfolio item %w", err)
	}
	return requireRow(res, apperror.New(apperror.ErrCodeNotFound, "работа не найдена"))
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/geo"
	"github.com/nvoskresenskiy/tasker-backend/internal/repository"
	"github.com/nvoskresenskiy/tasker-backend/internal/validation"
)

// TaskerRepo описывает зависимости TaskerService от слоя хранилища.
type TaskerRepo interface {
	Search(ctx context.Context, params repository.TaskerSearchParams) ([]models.TaskerDetails, int, error)
	Create(ctx context.Context, tasker *models.Tasker) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TaskerDetails, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.TaskerDetails, error)
	Update(ctx context.Context, tasker *models.Tasker) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	AddSkill(ctx context.Context, skill *models.TaskerSkill) error
	UpdateSkillRate(ctx context.Context, taskerID, skillID uuid.UUID, rate int64) error
	RemoveSkill(ctx context.Context, taskerID, skillID uuid.UUID) error
	AddPortfolioItem(ctx context.Context, item *models.PortfolioItem) error
	RemovePortfolioItem(ctx context.Context, taskerID, itemID uuid.UUID) error
}

// UserRepoForTasker — доступ к пользователям при создании профиля.
type UserRepoForTasker interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role string) error
}

// CategoryRepoForTasker — проверка категорий при добавлении навыков.
type CategoryRepoForTasker interface {
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// TaskerService управляет профилями исполнителей и их поиском.
type TaskerService struct {
	repo       TaskerRepo
	users      UserRepoForTasker
	categories CategoryRepoForTasker
}

func NewTaskerService(repo TaskerRepo, users UserRepoForTasker, categories CategoryRepoForTasker) *TaskerService {
	return &TaskerService{repo: repo, users: users, categories: categories}
}

// TaskerSearchInput — параметры поиска исполнителей с уровня API.
type TaskerSearchInput struct {
	Query             string
	CategorySlug      string
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

// Search разворачивает slug категории в ID и выполняет поиск.
// Гео-фильтр принимается только целиком: широта, долгота и радиус.
func (s *TaskerService) Search(ctx context.Context, in TaskerSearchInput) ([]models.TaskerDetails, int, error) {
	params := repository.TaskerSearchParams{
		Query:             in.Query,
		MinHourlyRate:     in.MinHourlyRate,
		MaxHourlyRate:     in.MaxHourlyRate,
		MinRating:         in.MinRating,
		Elite:             in.Elite,
		BackgroundChecked: in.BackgroundChecked,
		IdentityVerified:  in.IdentityVerified,
		IncludeInactive:   in.IncludeInactive,
		SortBy:            in.SortBy,
		SortOrder:         in.SortOrder,
		Limit:             in.Limit,
		Offset:            in.Offset,
	}

	if in.CategorySlug != "" {
		category, err := s.categories.GetCategoryBySlug(ctx, in.CategorySlug)
		if err != nil {
			if apperror.IsNotFound(err) {
				// Несуществующая категория — пустая выдача, не ошибка.
				return []models.TaskerDetails{}, 0, nil
			}
			return nil, 0, err
		}
		params.CategoryID = &category.ID
	}

	if in.Latitude != nil || in.Longitude != nil || in.RadiusKm != nil {
		if in.Latitude == nil || in.Longitude == nil || in.RadiusKm == nil {
			return nil, 0, apperror.New(apperror.ErrCodeValidation,
				"гео-фильтр требует широту, долготу и радиус одновременно")
		}
		if !geo.ValidCoordinates(*in.Latitude, *in.Longitude) {
			return nil, 0, apperror.New(apperror.ErrCodeValidation, "некорректные координаты")
		}
		if *in.RadiusKm <= 0 {
			return nil, 0, apperror.New(apperror.ErrCodeValidation, "радиус должен быть положительным")
		}
		params.Latitude = in.Latitude
		params.Longitude = in.Longitude
		params.RadiusKm = in.RadiusKm
	} else {
		// Координаты без радиуса допустимы: только для подсчёта дистанции.
		params.Latitude = in.Latitude
		params.Longitude = in.Longitude
	}

	return s.repo.Search(ctx, params)
}

// CreateProfileInput — данные нового профиля исполнителя.
type CreateProfileInput struct {
	Headline   string
	Bio        *string
	LocationID *uuid.UUID
}

// CreateProfile создаёт профиль исполнителя для пользователя и переводит
// его в роль tasker. Повторное создание — конфликт.
func (s *TaskerService) CreateProfile(ctx context.Context, userID uuid.UUID, in CreateProfileInput) (*models.TaskerDetails, error) {
	if err := validation.ValidateLength("заголовок профиля", in.Headline,
		validation.MinHeadlineLength, validation.MaxHeadlineLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.Bio != nil {
		if err := validation.ValidateLength("описание", *in.Bio, 0, validation.MaxBioLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasker := &models.Tasker{
		UserID:     user.ID,
		Headline:   in.Headline,
		Bio:        in.Bio,
		LocationID: in.LocationID,
	}
	if err := s.repo.Create(ctx, tasker); err != nil {
		return nil, err
	}

	if user.Role == models.RoleClient {
		if err := s.users.UpdateRole(ctx, user.ID, models.RoleTasker); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, tasker.ID)
}

// GetProfile возвращает профиль исполнителя с навыками и портфолио.
func (s *TaskerService) GetProfile(ctx context.Context, id uuid.UUID) (*models.TaskerDetails, error) {
	return s.repo.GetByID(ctx, id)
}

// GetOwnProfile возвращает профиль по владельцу.
func (s *TaskerService) GetOwnProfile(ctx context.Context, userID uuid.UUID) (*models.TaskerDetails, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// UpdateProfileInput — редактируемые поля профиля.
type UpdateProfileInput struct {
	Headline            string
	Bio                 *string
	LocationID          *uuid.UUID
	PhotoID             *uuid.UUID
	ResponseTimeMinutes *int
}

// UpdateProfile обновляет профиль владельца.
func (s *TaskerService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.TaskerDetails, error) {
	if err := validation.ValidateLength("заголовок профиля", in.Headline,
		validation.MinHeadlineLength, validation.MaxHeadlineLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	current, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasker := current.Tasker
	tasker.Headline = in.Headline
	tasker.Bio = in.Bio
	tasker.LocationID = in.LocationID
	tasker.PhotoID = in.PhotoID
	tasker.ResponseTimeMinutes = in.ResponseTimeMinutes

	if err := s.repo.Update(ctx, &tasker); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, tasker.ID)
}

// Deactivate скрывает профиль из поиска.
func (s *TaskerService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	current, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.SetActive(ctx, current.ID, false)
}

// Reactivate возвращает профиль в поиск.
func (s *TaskerService) Reactivate(ctx context.Context, userID uuid.UUID) error {
	current, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.SetActive(ctx, current.ID, true)
}

// AddSkill добавляет навык владельцу профиля. Категория должна
// существовать, ставка — в минорных единицах.
func (s *TaskerService) AddSkill(ctx context.Context, userID, categoryID uuid.UUID, hourlyRate int64) (*models.TaskerSkill, error) {
	if err := validation.ValidatePrice("почасовая ставка", hourlyRate); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if hourlyRate == 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "почасовая ставка должна быть положительной")
	}

	current, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.GetCategoryByID(ctx, categoryID); err != nil {
		return nil, err
	}

	skill := &models.TaskerSkill{
		TaskerID:   current.ID,
		CategoryID: categoryID,
		HourlyRate: hourlyRate,
	}
	if err := s.repo.AddSkill(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// UpdateSkillRate меняет ставку навыка владельца.
func (s *TaskerService) UpdateSkillRate(ctx context.Context, userID, skillID uuid.UUID, hourlyRate int64) error {
	if err := validation.ValidatePrice("почасовая ставка", hourlyRate); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	current, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.UpdateSkillRate(ctx, current.ID, skillID, hourlyRate)
}

// RemoveSkill мягко удаляет навык владельца.
func (s *TaskerService) RemoveSkill(ctx context.Context, userID, skillID uuid.UUID) error {
	current, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.RemoveSkill(ctx, current.ID, skillID)
}

// AddPortfolioItem добавляет работу в портфолио владельца.
func (s *TaskerService) AddPortfolioItem(ctx context.Context, userID uuid.UUID, title string, description *string, photoID *uuid.UUID, displayOrder int) (*models.PortfolioItem, error) {
	if err := validation.ValidateLength("название работы", title, 1, validation.MaxTaskTitleLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	current, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := &models.PortfolioItem{
		TaskerID:     current.ID,
		Title:        title,
		Description:  description,
		PhotoID:      photoID,
		DisplayOrder: displayOrder,
	}
	if err := s.repo.AddPortfolioItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemovePortfolioItem удаляет работу из портфолио владельца.
func (s *TaskerService) RemovePortfolioItem(ctx context.Context, userID, itemID uuid.UUID) error {
	current, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.RemovePortfolioItem(ctx, current.ID, itemID)
}

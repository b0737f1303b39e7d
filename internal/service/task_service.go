package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/slug"
	"github.com/nvoskresenskiy/tasker-backend/internal/repository"
	"github.com/nvoskresenskiy/tasker-backend/internal/validation"
)

// TaskRepo описывает зависимости TaskService от слоя хранилища.
type TaskRepo interface {
	Search(ctx context.Context, params repository.TaskSearchParams) ([]models.TaskDetails, int, error)
	Create(ctx context.Context, task *models.Task, questions []models.TaskQuestion, faqs []models.TaskFAQ) error
	Update(ctx context.Context, task *models.Task, questions []models.TaskQuestion, faqs []models.TaskFAQ) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TaskDetails, error)
	GetBySlug(ctx context.Context, slug string) (*models.TaskDetails, error)
	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// TaskerRepoForTask — профиль исполнителя при операциях с услугами.
type TaskerRepoForTask interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.TaskerDetails, error)
}

// CategoryRepoForTask — проверка категорий услуг.
type CategoryRepoForTask interface {
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// TaskService управляет каталожными услугами исполнителей.
type TaskService struct {
	repo       TaskRepo
	taskers    TaskerRepoForTask
	categories CategoryRepoForTask
}

func NewTaskService(repo TaskRepo, taskers TaskerRepoForTask, categories CategoryRepoForTask) *TaskService {
	return &TaskService{repo: repo, taskers: taskers, categories: categories}
}

// TaskSearchInput — параметры поиска услуг с уровня API.
type TaskSearchInput struct {
	Query           string
	CategorySlug    string
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

// Search разворачивает slug категории в ID и выполняет поиск услуг.
// Вывернутый диапазон цен не ошибка: он просто ничему не соответствует.
func (s *TaskService) Search(ctx context.Context, in TaskSearchInput) ([]models.TaskDetails, int, error) {
	params := repository.TaskSearchParams{
		Query:           in.Query,
		TaskerID:        in.TaskerID,
		MinPrice:        in.MinPrice,
		MaxPrice:        in.MaxPrice,
		MinRating:       in.MinRating,
		Popular:         in.Popular,
		Featured:        in.Featured,
		IncludeInactive: in.IncludeInactive,
		SortBy:          in.SortBy,
		SortOrder:       in.SortOrder,
		Limit:           in.Limit,
		Offset:          in.Offset,
	}

	if in.CategorySlug != "" {
		category, err := s.categories.GetCategoryBySlug(ctx, in.CategorySlug)
		if err != nil {
			if apperror.IsNotFound(err) {
				return []models.TaskDetails{}, 0, nil
			}
			return nil, 0, err
		}
		params.CategoryID = &category.ID
	}

	return s.repo.Search(ctx, params)
}

// TaskInput — данные услуги при создании и обновлении.
type TaskInput struct {
	CategoryID  uuid.UUID
	Title       string
	Description *string
	Price       int64
	PriceUnit   string
	LocationID  *uuid.UUID
	Questions   []models.TaskQuestion
	FAQs        []models.TaskFAQ
}

func (s *TaskService) validateInput(in TaskInput) error {
	if err := validation.ValidateLength("название услуги", in.Title,
		validation.MinTaskTitleLength, validation.MaxTaskTitleLength); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.Description != nil {
		if err := validation.ValidateLength("описание услуги", *in.Description,
			0, validation.MaxTaskDescriptionLength); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if err := validation.ValidatePrice("цена", in.Price); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.Price == 0 {
		return apperror.New(apperror.ErrCodeValidation, "цена должна быть положительной")
	}
	if in.PriceUnit != models.PriceUnitHour && in.PriceUnit != models.PriceUnitFixed {
		return apperror.New(apperror.ErrCodeValidation, "недопустимая единица цены")
	}
	return nil
}

// Create создаёт услугу владельца профиля. Slug выводится из названия;
// если он занят другой услугой — конфликт.
func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, in TaskInput) (*models.TaskDetails, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	tasker, err := s.taskers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.GetCategoryByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	taskSlug := slug.Make(in.Title)
	if taskSlug == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "из названия не получается slug")
	}
	taken, err := s.repo.SlugExists(ctx, taskSlug, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.ErrSlugTaken
	}

	task := &models.Task{
		TaskerID:    tasker.ID,
		CategoryID:  in.CategoryID,
		Slug:        taskSlug,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		PriceUnit:   in.PriceUnit,
		LocationID:  in.LocationID,
	}
	if err := s.repo.Create(ctx, task, in.Questions, in.FAQs); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, task.ID)
}

// Update обновляет услугу владельца. При смене названия slug
// пересчитывается; если новый slug занят другой услугой, к нему
// добавляется суффикс с ID собственной услуги.
func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, in TaskInput) (*models.TaskDetails, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	tasker, err := s.taskers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if current.TaskerID != tasker.ID {
		return nil, apperror.ErrForbidden
	}
	if _, err := s.categories.GetCategoryByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	taskSlug := current.Slug
	if in.Title != current.Title {
		taskSlug = slug.Make(in.Title)
		if taskSlug == "" {
			return nil, apperror.New(apperror.ErrCodeValidation, "из названия не получается slug")
		}
		taken, err := s.repo.SlugExists(ctx, taskSlug, &taskID)
		if err != nil {
			return nil, err
		}
		if taken {
			taskSlug = slug.WithSuffix(taskSlug, shortID(taskID))
		}
	}

	task := current.Task
	task.CategoryID = in.CategoryID
	task.Slug = taskSlug
	task.Title = in.Title
	task.Description = in.Description
	task.Price = in.Price
	task.PriceUnit = in.PriceUnit
	task.LocationID = in.LocationID

	if err := s.repo.Update(ctx, &task, in.Questions, in.FAQs); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, taskID)
}

// Get возвращает услугу по ID.
func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*models.TaskDetails, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug возвращает услугу по slug.
func (s *TaskService) GetBySlug(ctx context.Context, taskSlug string) (*models.TaskDetails, error) {
	return s.repo.GetBySlug(ctx, taskSlug)
}

// Deactivate скрывает услугу владельца из поиска.
func (s *TaskService) Deactivate(ctx context.Context, userID, taskID uuid.UUID) error {
	return s.setActive(ctx, userID, taskID, false)
}

// Reactivate возвращает услугу владельца в поиск.
func (s *TaskService) Reactivate(ctx context.Context, userID, taskID uuid.UUID) error {
	return s.setActive(ctx, userID, taskID, true)
}

func (s *TaskService) setActive(ctx context.Context, userID, taskID uuid.UUID, active bool) error {
	tasker, err := s.taskers.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.TaskerID != tasker.ID {
		return apperror.ErrForbidden
	}
	return s.repo.SetActive(ctx, taskID, active)
}

// shortID — первые восемь символов UUID для суффикса slug.
func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

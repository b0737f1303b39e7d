package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/apperror"
	"github.com/nvoskresenskiy/tasker-backend/internal/repository"
)

type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Search(ctx context.Context, params repository.TaskSearchParams) ([]models.TaskDetails, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]models.TaskDetails), args.Int(1), args.Error(2)
}

func (m *mockTaskRepo) Create(ctx context.Context, task *models.Task, questions []models.TaskQuestion, faqs []models.TaskFAQ) error {
	args := m.Called(ctx, task, questions, faqs)
	if args.Error(0) == nil {
		task.ID = uuid.New()
		task.IsActive = true
	}
	return args.Error(0)
}

func (m *mockTaskRepo) Update(ctx context.Context, task *models.Task, questions []models.TaskQuestion, faqs []models.TaskFAQ) error {
	args := m.Called(ctx, task, questions, faqs)
	return args.Error(0)
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TaskDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskDetails), args.Error(1)
}

func (m *mockTaskRepo) GetBySlug(ctx context.Context, slug string) (*models.TaskDetails, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskDetails), args.Error(1)
}

func (m *mockTaskRepo) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTaskRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

type mockTaskerRepoForTask struct {
	mock.Mock
}

func (m *mockTaskerRepoForTask) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.TaskerDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskerDetails), args.Error(1)
}

type mockCategoryRepoForTask struct {
	mock.Mock
}

func (m *mockCategoryRepoForTask) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockCategoryRepoForTask) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func newTaskService() (*TaskService, *mockTaskRepo, *mockTaskerRepoForTask, *mockCategoryRepoForTask) {
	repo := new(mockTaskRepo)
	taskers := new(mockTaskerRepoForTask)
	categories := new(mockCategoryRepoForTask)
	return NewTaskService(repo, taskers, categories), repo, taskers, categories
}

func TestTaskService_Create_SlugFromTitle(t *testing.T) {
	svc, repo, taskers, categories := newTaskService()
	ctx := context.Background()

	userID := uuid.New()
	taskerID := uuid.New()
	categoryID := uuid.New()

	taskers.On("GetByUserID", ctx, userID).
		Return(&models.TaskerDetails{Tasker: models.Tasker{ID: taskerID}}, nil)
	categories.On("GetCategoryByID", ctx, categoryID).
		Return(&models.Category{ID: categoryID}, nil)
	repo.On("SlugExists", ctx, "uborka-kvartir", (*uuid.UUID)(nil)).Return(false, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(task *models.Task) bool {
		return task.Slug == "uborka-kvartir" && task.TaskerID == taskerID
	}), mock.Anything, mock.Anything).Return(nil)
	repo.On("GetByID", ctx, mock.AnythingOfType("uuid.UUID")).
		Return(&models.TaskDetails{}, nil)

	_, err := svc.Create(ctx, userID, TaskInput{
		CategoryID: categoryID,
		Title:      "Уборка квартир",
		Price:      150000,
		PriceUnit:  models.PriceUnitHour,
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

// Создание с занятым slug — конфликт.
func TestTaskService_Create_SlugConflict(t *testing.T) {
	svc, repo, taskers, categories := newTaskService()
	ctx := context.Background()

	userID := uuid.New()
	categoryID := uuid.New()
	taskers.On("GetByUserID", ctx, userID).
		Return(&models.TaskerDetails{Tasker: models.Tasker{ID: uuid.New()}}, nil)
	categories.On("GetCategoryByID", ctx, categoryID).
		Return(&models.Category{ID: categoryID}, nil)
	repo.On("SlugExists", ctx, "uborka-kvartir", (*uuid.UUID)(nil)).Return(true, nil)

	_, err := svc.Create(ctx, userID, TaskInput{
		CategoryID: categoryID,
		Title:      "Уборка квартир",
		Price:      150000,
		PriceUnit:  models.PriceUnitHour,
	})

	assert.ErrorIs(t, err, apperror.ErrSlugTaken)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// При переименовании занятый slug получает суффикс с ID своей услуги.
func TestTaskService_Update_SlugSuffixOnConflict(t *testing.T) {
	svc, repo, taskers, categories := newTaskService()
	ctx := context.Background()

	userID := uuid.New()
	taskerID := uuid.New()
	taskID := uuid.New()
	categoryID := uuid.New()

	taskers.On("GetByUserID", ctx, userID).
		Return(&models.TaskerDetails{Tasker: models.Tasker{ID: taskerID}}, nil)
	repo.On("GetByID", ctx, taskID).Return(&models.TaskDetails{
		Task: models.Task{
			ID:       taskID,
			TaskerID: taskerID,
			Slug:     "staryy-slug",
			Title:    "Старое название",
		},
	}, nil).Once()
	categories.On("GetCategoryByID", ctx, categoryID).
		Return(&models.Category{ID: categoryID}, nil)
	repo.On("SlugExists", ctx, "uborka-kvartir", &taskID).Return(true, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(task *models.Task) bool {
		return task.Slug == "uborka-kvartir-"+taskID.String()[:8]
	}), mock.Anything, mock.Anything).Return(nil)
	repo.On("GetByID", ctx, taskID).Return(&models.TaskDetails{}, nil)

	_, err := svc.Update(ctx, userID, taskID, TaskInput{
		CategoryID: categoryID,
		Title:      "Уборка квартир",
		Price:      150000,
		PriceUnit:  models.PriceUnitHour,
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTaskService_Update_ForeignTask(t *testing.T) {
	svc, repo, taskers, _ := newTaskService()
	ctx := context.Background()

	userID := uuid.New()
	taskID := uuid.New()
	taskers.On("GetByUserID", ctx, userID).
		Return(&models.TaskerDetails{Tasker: models.Tasker{ID: uuid.New()}}, nil)
	repo.On("GetByID", ctx, taskID).Return(&models.TaskDetails{
		Task: models.Task{ID: taskID, TaskerID: uuid.New(), Title: "Чужая услуга"},
	}, nil)

	_, err := svc.Update(ctx, userID, taskID, TaskInput{
		CategoryID: uuid.New(),
		Title:      "Другое название",
		Price:      100000,
		PriceUnit:  models.PriceUnitFixed,
	})

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

// Вывернутый диапазон цен уходит в репозиторий как есть и даёт пустую
// выдачу, а не ошибку валидации.
func TestTaskService_Search_InvertedPriceRange(t *testing.T) {
	svc, repo, _, _ := newTaskService()
	ctx := context.Background()

	min := int64(500000)
	max := int64(100000)
	repo.On("Search", ctx, mock.MatchedBy(func(params repository.TaskSearchParams) bool {
		return params.MinPrice != nil && *params.MinPrice == min &&
			params.MaxPrice != nil && *params.MaxPrice == max
	})).Return([]models.TaskDetails{}, 0, nil)

	items, total, err := svc.Search(ctx, TaskSearchInput{MinPrice: &min, MaxPrice: &max})

	assert.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	repo.AssertExpectations(t)
}

func TestTaskService_Search_UnknownCategoryShortCircuits(t *testing.T) {
	svc, repo, _, categories := newTaskService()
	ctx := context.Background()

	categories.On("GetCategoryBySlug", ctx, "no-such").Return(nil, apperror.ErrCategoryNotFound)

	items, total, err := svc.Search(ctx, TaskSearchInput{CategorySlug: "no-such"})

	assert.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestTaskService_Create_InvalidPriceUnit(t *testing.T) {
	svc, _, _, _ := newTaskService()
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), TaskInput{
		CategoryID: uuid.New(),
		Title:      "Уборка квартир",
		Price:      150000,
		PriceUnit:  "day",
	})
	assert.Error(t, err)
}

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

type mockTaskerRepo struct {
	mock.Mock
}

func (m *mockTaskerRepo) Search(ctx context.Context, params repository.TaskerSearchParams) ([]models.TaskerDetails, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]models.TaskerDetails), args.Int(1), args.Error(2)
}

func (m *mockTaskerRepo) Create(ctx context.Context, tasker *models.Tasker) error {
	args := m.Called(ctx, tasker)
	if args.Error(0) == nil {
		tasker.ID = uuid.New()
		tasker.IsActive = true
	}
	return args.Error(0)
}

func (m *mockTaskerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TaskerDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskerDetails), args.Error(1)
}

func (m *mockTaskerRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.TaskerDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskerDetails), args.Error(1)
}

func (m *mockTaskerRepo) Update(ctx context.Context, tasker *models.Tasker) error {
	args := m.Called(ctx, tasker)
	return args.Error(0)
}

func (m *mockTaskerRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *mockTaskerRepo) AddSkill(ctx context.Context, skill *models.TaskerSkill) error {
	args := m.Called(ctx, skill)
	if args.Error(0) == nil {
		skill.ID = uuid.New()
		skill.IsActive = true
	}
	return args.Error(0)
}

func (m *mockTaskerRepo) UpdateSkillRate(ctx context.Context, taskerID, skillID uuid.UUID, rate int64) error {
	args := m.Called(ctx, taskerID, skillID, rate)
	return args.Error(0)
}

func (m *mockTaskerRepo) RemoveSkill(ctx context.Context, taskerID, skillID uuid.UUID) error {
	args := m.Called(ctx, taskerID, skillID)
	return args.Error(0)
}

func (m *mockTaskerRepo) AddPortfolioItem(ctx context.Context, item *models.PortfolioItem) error {
	args := m.Called(ctx, item)
	if args.Error(0) == nil {
		item.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockTaskerRepo) RemovePortfolioItem(ctx context.Context, taskerID, itemID uuid.UUID) error {
	args := m.Called(ctx, taskerID, itemID)
	return args.Error(0)
}

type mockUserRepoForTasker struct {
	mock.Mock
}

func (m *mockUserRepoForTasker) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepoForTasker) UpdateRole(ctx context.Context, userID uuid.UUID, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

type mockCategoryRepoForTasker struct {
	mock.Mock
}

func (m *mockCategoryRepoForTasker) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockCategoryRepoForTasker) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func newTaskerService() (*TaskerService, *mockTaskerRepo, *mockUserRepoForTasker, *mockCategoryRepoForTasker) {
	repo := new(mockTaskerRepo)
	users := new(mockUserRepoForTasker)
	categories := new(mockCategoryRepoForTasker)
	return NewTaskerService(repo, users, categories), repo, users, categories
}

func TestTaskerService_Search_ResolvesCategorySlug(t *testing.T) {
	svc, repo, _, categories := newTaskerService()
	ctx := context.Background()

	categoryID := uuid.New()
	categories.On("GetCategoryBySlug", ctx, "home-cleaning").
		Return(&models.Category{ID: categoryID, Slug: "home-cleaning"}, nil)

	repo.On("Search", ctx, mock.MatchedBy(func(p repository.TaskerSearchParams) bool {
		return p.CategoryID != nil && *p.CategoryID == categoryID
	})).Return([]models.TaskerDetails{}, 0, nil)

	_, _, err := svc.Search(ctx, TaskerSearchInput{CategorySlug: "home-cleaning", Limit: 20})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

// Флаги include_inactive и identity_verified доходят до слоя хранилища.
func TestTaskerService_Search_ThreadsVisibilityFilters(t *testing.T) {
	svc, repo, _, _ := newTaskerService()
	ctx := context.Background()

	verified := true
	repo.On("Search", ctx, mock.MatchedBy(func(p repository.TaskerSearchParams) bool {
		return p.IncludeInactive &&
			p.IdentityVerified != nil && *p.IdentityVerified
	})).Return([]models.TaskerDetails{}, 0, nil)

	_, _, err := svc.Search(ctx, TaskerSearchInput{
		IncludeInactive:  true,
		IdentityVerified: &verified,
		Limit:            20,
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

// Несуществующая категория даёт пустую страницу без обращения к поиску.
func TestTaskerService_Search_UnknownCategoryShortCircuits(t *testing.T) {
	svc, repo, _, categories := newTaskerService()
	ctx := context.Background()

	categories.On("GetCategoryBySlug", ctx, "no-such").Return(nil, apperror.ErrCategoryNotFound)

	items, total, err := svc.Search(ctx, TaskerSearchInput{CategorySlug: "no-such", Limit: 20})

	assert.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestTaskerService_Search_PartialGeoFilterRejected(t *testing.T) {
	svc, _, _, _ := newTaskerService()
	ctx := context.Background()

	lat := 55.7558
	radius := 10.0

	_, _, err := svc.Search(ctx, TaskerSearchInput{Latitude: &lat, RadiusKm: &radius, Limit: 20})

	assert.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.ErrCodeValidation, appErr.Code)
}

func TestTaskerService_Search_InvalidCoordinatesRejected(t *testing.T) {
	svc, _, _, _ := newTaskerService()
	ctx := context.Background()

	lat := 91.0
	lon := 37.6173
	radius := 10.0

	_, _, err := svc.Search(ctx, TaskerSearchInput{Latitude: &lat, Longitude: &lon, RadiusKm: &radius})
	assert.Error(t, err)
}

func TestTaskerService_CreateProfile_PromotesClientRole(t *testing.T) {
	svc, repo, users, _ := newTaskerService()
	ctx := context.Background()

	userID := uuid.New()
	users.On("GetByID", ctx, userID).
		Return(&models.User{ID: userID, Role: models.RoleClient}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Tasker")).Return(nil)
	users.On("UpdateRole", ctx, userID, models.RoleTasker).Return(nil)
	repo.On("GetByID", ctx, mock.AnythingOfType("uuid.UUID")).
		Return(&models.TaskerDetails{}, nil)

	_, err := svc.CreateProfile(ctx, userID, CreateProfileInput{Headline: "Уборка квартир и офисов"})

	assert.NoError(t, err)
	users.AssertCalled(t, "UpdateRole", ctx, userID, models.RoleTasker)
}

func TestTaskerService_CreateProfile_Duplicate(t *testing.T) {
	svc, repo, users, _ := newTaskerService()
	ctx := context.Background()

	userID := uuid.New()
	users.On("GetByID", ctx, userID).
		Return(&models.User{ID: userID, Role: models.RoleTasker}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Tasker")).
		Return(apperror.ErrTaskerExists)

	_, err := svc.CreateProfile(ctx, userID, CreateProfileInput{Headline: "Сборка мебели"})

	assert.True(t, apperror.IsConflict(err))
}

func TestTaskerService_AddSkill_ValidatesRate(t *testing.T) {
	svc, _, _, _ := newTaskerService()
	ctx := context.Background()

	_, err := svc.AddSkill(ctx, uuid.New(), uuid.New(), 0)
	assert.Error(t, err)

	_, err = svc.AddSkill(ctx, uuid.New(), uuid.New(), -500)
	assert.Error(t, err)
}

func TestTaskerService_AddSkill_UnknownCategory(t *testing.T) {
	svc, repo, _, categories := newTaskerService()
	ctx := context.Background()

	userID := uuid.New()
	categoryID := uuid.New()
	repo.On("GetByUserID", ctx, userID).
		Return(&models.TaskerDetails{Tasker: models.Tasker{ID: uuid.New()}}, nil)
	categories.On("GetCategoryByID", ctx, categoryID).Return(nil, apperror.ErrCategoryNotFound)

	_, err := svc.AddSkill(ctx, userID, categoryID, 150000)

	assert.True(t, apperror.IsNotFound(err))
	repo.AssertNotCalled(t, "AddSkill", mock.Anything, mock.Anything)
}

func TestTaskerService_AddSkill_Success(t *testing.T) {
	svc, repo, _, categories := newTaskerService()
	ctx := context.Background()

	userID := uuid.New()
	taskerID := uuid.New()
	categoryID := uuid.New()
	repo.On("GetByUserID", ctx, userID).
		Return(&models.TaskerDetails{Tasker: models.Tasker{ID: taskerID}}, nil)
	categories.On("GetCategoryByID", ctx, categoryID).
		Return(&models.Category{ID: categoryID}, nil)
	repo.On("AddSkill", ctx, mock.AnythingOfType("*models.TaskerSkill")).Return(nil)

	skill, err := svc.AddSkill(ctx, userID, categoryID, 150000)

	assert.NoError(t, err)
	assert.Equal(t, taskerID, skill.TaskerID)
	assert.Equal(t, int64(150000), skill.HourlyRate)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nvoskresenskiy/tasker-backend/internal/dto"
	"github.com/nvoskresenskiy/tasker-backend/internal/http/handlers/common"
	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/service"
)

// TaskHandler предоставляет HTTP слой для каталожных услуг.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler создаёт хэндлер.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Search обрабатывает GET /tasks/search.
func (h *TaskHandler) Search(c *gin.Context) {
	page, limit, offset := common.GetPageParams(c)

	in := service.TaskSearchInput{
		Query:           c.Query("q"),
		CategorySlug:    c.Query("category"),
		MinPrice:        parseInt64Query(c, "min_price"),
		MaxPrice:        parseInt64Query(c, "max_price"),
		MinRating:       parseFloatQuery(c, "min_rating"),
		Popular:         parseBoolQuery(c, "popular"),
		Featured:        parseBoolQuery(c, "featured"),
		IncludeInactive: boolQueryValue(c, "include_inactive"),
		SortBy:          c.Query("sort_by"),
		SortOrder:       c.Query("sort_order"),
		Limit:           limit,
		Offset:          offset,
	}

	if v := c.Query("tasker_id"); v != "" {
		taskerID, err := uuid.Parse(v)
		if err != nil {
			common.RespondBadRequest(c, "некорректный tasker_id")
			return
		}
		in.TaskerID = &taskerID
	}

	results, total, err := h.tasks.Search(c.Request.Context(), in)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondPage(c, results, page, limit, total)
}

// Get обрабатывает GET /tasks/:id.
func (h *TaskHandler) Get(c *gin.Context) {
	taskID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), taskID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// GetBySlug обрабатывает GET /tasks/slug/:slug.
func (h *TaskHandler) GetBySlug(c *gin.Context) {
	taskSlug := c.Param("slug")
	if taskSlug == "" {
		common.RespondBadRequest(c, "slug обязателен")
		return
	}

	task, err := h.tasks.GetBySlug(c.Request.Context(), taskSlug)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func taskInputFromRequest(req dto.TaskRequest) service.TaskInput {
	in := service.TaskInput{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		PriceUnit:   req.PriceUnit,
		LocationID:  req.LocationID,
	}
	for _, q := range req.Questions {
		in.Questions = append(in.Questions, models.TaskQuestion{
			Question: q.Question,
			Answer:   q.Answer,
		})
	}
	for _, f := range req.FAQs {
		in.FAQs = append(in.FAQs, models.TaskFAQ{
			Question: f.Question,
			Answer:   f.Answer,
		})
	}
	return in
}

// Create обрабатывает POST /tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), userID, taskInputFromRequest(req))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// Update обрабатывает PUT /tasks/:id.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	taskID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), userID, taskID, taskInputFromRequest(req))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Deactivate обрабатывает DELETE /tasks/:id.
func (h *TaskHandler) Deactivate(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	taskID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.tasks.Deactivate(c.Request.Context(), userID, taskID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "услуга скрыта", nil)
}

// Reactivate обрабатывает POST /tasks/:id/reactivate.
func (h *TaskHandler) Reactivate(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	taskID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.tasks.Reactivate(c.Request.Context(), userID, taskID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "услуга снова видна", nil)
}

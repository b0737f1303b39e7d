package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nvoskresenskiy/tasker-backend/internal/http/handlers/common"
	"github.com/nvoskresenskiy/tasker-backend/internal/service"
)

// TaskerHandler предоставляет HTTP слой для профилей исполнителей.
type TaskerHandler struct {
	taskers *service.TaskerService
}

// NewTaskerHandler создаёт хэндлер.
func NewTaskerHandler(taskers *service.TaskerService) *TaskerHandler {
	return &TaskerHandler{taskers: taskers}
}

func parseFloatQuery(c *gin.Context, key string) *float64 {
	if v := c.Query(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}

func parseInt64Query(c *gin.Context, key string) *int64 {
	if v := c.Query(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return &n
		}
	}
	return nil
}

func parseBoolQuery(c *gin.Context, key string) *bool {
	if v := c.Query(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return &b
		}
	}
	return nil
}

func boolQueryValue(c *gin.Context, key string) bool {
	if b := parseBoolQuery(c, key); b != nil {
		return *b
	}
	return false
}

// Search обрабатывает GET /taskers/search.
func (h *TaskerHandler) Search(c *gin.Context) {
	page, limit, offset := common.GetPageParams(c)

	in := service.TaskerSearchInput{
		Query:             c.Query("q"),
		CategorySlug:      c.Query("category"),
		MinHourlyRate:     parseInt64Query(c, "min_hourly_rate"),
		MaxHourlyRate:     parseInt64Query(c, "max_hourly_rate"),
		MinRating:         parseFloatQuery(c, "min_rating"),
		Elite:             parseBoolQuery(c, "elite"),
		BackgroundChecked: parseBoolQuery(c, "background_checked"),
		IdentityVerified:  parseBoolQuery(c, "identity_verified"),
		IncludeInactive:   boolQueryValue(c, "include_inactive"),
		Latitude:          parseFloatQuery(c, "lat"),
		Longitude:         parseFloatQuery(c, "lon"),
		RadiusKm:          parseFloatQuery(c, "radius_km"),
		SortBy:            c.Query("sort_by"),
		SortOrder:         c.Query("sort_order"),
		Limit:             limit,
		Offset:            offset,
	}

	results, total, err := h.taskers.Search(c.Request.Context(), in)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondPage(c, results, page, limit, total)
}

// Get обрабатывает GET /taskers/:id.
func (h *TaskerHandler) Get(c *gin.Context) {
	taskerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile, err := h.taskers.GetProfile(c.Request.Context(), taskerID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetOwn обрабатывает GET /taskers/me.
func (h *TaskerHandler) GetOwn(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	profile, err := h.taskers.GetOwnProfile(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// CreateProfile обрабатывает POST /taskers.
func (h *TaskerHandler) CreateProfile(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		Headline   string     `json:"headline" binding:"required"`
		Bio        *string    `json:"bio"`
		LocationID *uuid.UUID `json:"location_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile, err := h.taskers.CreateProfile(c.Request.Context(), userID, service.CreateProfileInput{
		Headline:   req.Headline,
		Bio:        req.Bio,
		LocationID: req.LocationID,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// UpdateProfile обрабатывает PUT /taskers/me.
func (h *TaskerHandler) UpdateProfile(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		Headline            string     `json:"headline" binding:"required"`
		Bio                 *string    `json:"bio"`
		LocationID          *uuid.UUID `json:"location_id"`
		PhotoID             *uuid.UUID `json:"photo_id"`
		ResponseTimeMinutes *int       `json:"response_time_minutes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile, err := h.taskers.UpdateProfile(c.Request.Context(), userID, service.UpdateProfileInput{
		Headline:            req.Headline,
		Bio:                 req.Bio,
		LocationID:          req.LocationID,
		PhotoID:             req.PhotoID,
		ResponseTimeMinutes: req.ResponseTimeMinutes,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Deactivate обрабатывает DELETE /taskers/me.
func (h *TaskerHandler) Deactivate(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	if err := h.taskers.Deactivate(c.Request.Context(), userID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "профиль скрыт", nil)
}

// Reactivate обрабатывает POST /taskers/me/reactivate.
func (h *TaskerHandler) Reactivate(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	if err := h.taskers.Reactivate(c.Request.Context(), userID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "профиль снова виден", nil)
}

// AddSkill обрабатывает POST /taskers/me/skills.
func (h *TaskerHandler) AddSkill(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		CategoryID uuid.UUID `json:"category_id" binding:"required"`
		HourlyRate int64     `json:"hourly_rate" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	skill, err := h.taskers.AddSkill(c.Request.Context(), userID, req.CategoryID, req.HourlyRate)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, skill)
}

// UpdateSkillRate обрабатывает PUT /taskers/me/skills/:id.
func (h *TaskerHandler) UpdateSkillRate(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	skillID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		HourlyRate int64 `json:"hourly_rate" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.taskers.UpdateSkillRate(c.Request.Context(), userID, skillID, req.HourlyRate); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "ставка обновлена", nil)
}

// RemoveSkill обрабатывает DELETE /taskers/me/skills/:id.
func (h *TaskerHandler) RemoveSkill(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	skillID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.taskers.RemoveSkill(c.Request.Context(), userID, skillID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddPortfolioItem обрабатывает POST /taskers/me/portfolio.
func (h *TaskerHandler) AddPortfolioItem(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		Title        string     `json:"title" binding:"required"`
		Description  *string    `json:"description"`
		PhotoID      *uuid.UUID `json:"photo_id"`
		DisplayOrder int        `json:"display_order"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.taskers.AddPortfolioItem(c.Request.Context(), userID, req.Title, req.Description, req.PhotoID, req.DisplayOrder)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// RemovePortfolioItem обрабатывает DELETE /taskers/me/portfolio/:id.
func (h *TaskerHandler) RemovePortfolioItem(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	itemID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.taskers.RemovePortfolioItem(c.Request.Context(), userID, itemID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

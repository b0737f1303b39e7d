package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nvoskresenskiy/tasker-backend/internal/http/handlers/common"
	"github.com/nvoskresenskiy/tasker-backend/internal/service"
)

// FavoriteHandler предоставляет HTTP слой для избранного.
type FavoriteHandler struct {
	favorites *service.FavoriteService
}

// NewFavoriteHandler создаёт хэндлер.
func NewFavoriteHandler(favorites *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// Add обрабатывает POST /favorites.
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		TargetType string    `json:"target_type" binding:"required"`
		TargetID   uuid.UUID `json:"target_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	favorite, err := h.favorites.Add(c.Request.Context(), userID, req.TargetType, req.TargetID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

// Remove обрабатывает DELETE /favorites/:type/:id.
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	targetID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.favorites.Remove(c.Request.Context(), userID, c.Param("type"), targetID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// List обрабатывает GET /favorites.
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	page, limit, offset := common.GetPageParams(c)
	favorites, total, err := h.favorites.List(c.Request.Context(), userID, c.Query("type"), limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondPage(c, favorites, page, limit, total)
}

// Check обрабатывает GET /favorites/:type/:id.
func (h *FavoriteHandler) Check(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	targetID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	exists, err := h.favorites.IsFavorite(c.Request.Context(), userID, c.Param("type"), targetID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_favorite": exists})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nvoskresenskiy/tasker-backend/internal/http/handlers/common"
	"github.com/nvoskresenskiy/tasker-backend/internal/service"
)

// ReviewHandler предоставляет HTTP слой для отзывов.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler создаёт хэндлер.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Create обрабатывает POST /reviews.
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		BookingID uuid.UUID `json:"booking_id" binding:"required"`
		Rating    int       `json:"rating" binding:"required"`
		Comment   *string   `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), userID, req.BookingID, req.Rating, req.Comment)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// Get обрабатывает GET /reviews/:id.
func (h *ReviewHandler) Get(c *gin.Context) {
	reviewID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	review, err := h.reviews.Get(c.Request.Context(), reviewID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// ListForTasker обрабатывает GET /taskers/:id/reviews.
func (h *ReviewHandler) ListForTasker(c *gin.Context) {
	taskerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	page, limit, offset := common.GetPageParams(c)
	reviews, total, err := h.reviews.ListForTasker(c.Request.Context(), taskerID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondPage(c, reviews, page, limit, total)
}

// ListForTask обрабатывает GET /tasks/:id/reviews.
func (h *ReviewHandler) ListForTask(c *gin.Context) {
	taskID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	page, limit, offset := common.GetPageParams(c)
	reviews, total, err := h.reviews.ListForTask(c.Request.Context(), taskID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondPage(c, reviews, page, limit, total)
}

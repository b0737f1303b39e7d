package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nvoskresenskiy/tasker-backend/internal/dto"
	"github.com/nvoskresenskiy/tasker-backend/internal/http/handlers/common"
	"github.com/nvoskresenskiy/tasker-backend/internal/service"
)

// BookingHandler предоставляет HTTP слой для бронирований и чата.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler создаёт хэндлер.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create обрабатывает POST /bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		common.RespondBadRequest(c, "scheduled_at должен быть в формате RFC3339")
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), userID, service.CreateBookingInput{
		TaskID:          req.TaskID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.DurationMinutes,
		Address:         req.Address,
		Note:            req.Note,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// Get обрабатывает GET /bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	booking, err := h.bookings.Get(c.Request.Context(), userID, bookingID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListOwn обрабатывает GET /bookings — бронирования текущего клиента.
func (h *BookingHandler) ListOwn(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	page, limit, offset := common.GetPageParams(c)
	bookings, total, err := h.bookings.ListForUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondPage(c, bookings, page, limit, total)
}

// ListAssigned обрабатывает GET /bookings/assigned — заказы исполнителя.
func (h *BookingHandler) ListAssigned(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	page, limit, offset := common.GetPageParams(c)
	bookings, total, err := h.bookings.ListForTasker(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondPage(c, bookings, page, limit, total)
}

// SetStatus обрабатывает PUT /bookings/:id/status.
func (h *BookingHandler) SetStatus(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	booking, err := h.bookings.SetStatus(c.Request.Context(), userID, bookingID, req.Status)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// Reschedule обрабатывает PUT /bookings/:id/reschedule.
func (h *BookingHandler) Reschedule(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		ScheduledAt     string `json:"scheduled_at" binding:"required"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		common.RespondBadRequest(c, "scheduled_at должен быть в формате RFC3339")
		return
	}

	booking, err := h.bookings.Reschedule(c.Request.Context(), userID, bookingID, scheduledAt, req.DurationMinutes)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// SendMessage обрабатывает POST /bookings/:id/messages.
func (h *BookingHandler) SendMessage(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	message, err := h.bookings.SendMessage(c.Request.Context(), userID, bookingID, req.Content)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// ListMessages обрабатывает GET /bookings/:id/messages.
func (h *BookingHandler) ListMessages(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	page, limit, offset := common.GetPageParams(c)
	messages, total, err := h.bookings.ListMessages(c.Request.Context(), userID, bookingID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondPage(c, messages, page, limit, total)
}

// UnreadCount обрабатывает GET /messages/unread.
func (h *BookingHandler) UnreadCount(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	count, err := h.bookings.CountUnread(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

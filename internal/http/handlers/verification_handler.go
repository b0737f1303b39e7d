package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nvoskresenskiy/tasker-backend/internal/http/handlers/common"
	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/service"
)

// VerificationHandler предоставляет HTTP слой для верификации исполнителей.
type VerificationHandler struct {
	verifications *service.VerificationService
}

// NewVerificationHandler создаёт хэндлер.
func NewVerificationHandler(verifications *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verifications: verifications}
}

// Submit обрабатывает POST /verifications.
func (h *VerificationHandler) Submit(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		Type         string  `json:"type" binding:"required"`
		DocumentPath *string `json:"document_path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	verification, err := h.verifications.Submit(c.Request.Context(), userID, req.Type, req.DocumentPath)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, verification)
}

// ListOwn обрабатывает GET /verifications.
func (h *VerificationHandler) ListOwn(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	verifications, err := h.verifications.ListOwn(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, verifications)
}

// ListQueue обрабатывает GET /admin/verifications.
func (h *VerificationHandler) ListQueue(c *gin.Context) {
	status := c.DefaultQuery("status", models.VerificationStatusPending)

	page, limit, offset := common.GetPageParams(c)
	verifications, total, err := h.verifications.ListQueue(c.Request.Context(), status, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondPage(c, verifications, page, limit, total)
}

// Review обрабатывает PUT /admin/verifications/:id/status.
func (h *VerificationHandler) Review(c *gin.Context) {
	reviewerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	verificationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Status string  `json:"status" binding:"required"`
		Note   *string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	verification, err := h.verifications.Review(c.Request.Context(), reviewerID, verificationID, req.Status, req.Note)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, verification)
}

// History обрабатывает GET /admin/verifications/:id/history.
func (h *VerificationHandler) History(c *gin.Context) {
	verificationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	events, err := h.verifications.History(c.Request.Context(), verificationID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

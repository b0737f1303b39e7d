package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nvoskresenskiy/tasker-backend/internal/dto"
	"github.com/nvoskresenskiy/tasker-backend/internal/http/handlers/common"
	"github.com/nvoskresenskiy/tasker-backend/internal/service"
)

// PaymentHandler предоставляет HTTP слой для платежей и выплат.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler создаёт хэндлер.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Create обрабатывает POST /payments.
func (h *PaymentHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		BookingID uuid.UUID `json:"booking_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	payment, err := h.payments.CreatePayment(c.Request.Context(), userID, req.BookingID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// Confirm обрабатывает POST /payments/confirm. Вызывается платёжным
// провайдером по reference платежа.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req struct {
		Reference string `json:"reference" binding:"required"`
		Status    string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	payment, err := h.payments.ConfirmPayment(c.Request.Context(), req.Reference, req.Status)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// List обрабатывает GET /payments.
func (h *PaymentHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	page, limit, offset := common.GetPageParams(c)
	payments, total, err := h.payments.ListPayments(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondPage(c, payments, page, limit, total)
}

// Balance обрабатывает GET /payouts/balance.
func (h *PaymentHandler) Balance(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	balance, err := h.payments.GetBalance(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// RequestPayout обрабатывает POST /payouts.
func (h *PaymentHandler) RequestPayout(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.RequestPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	payout, err := h.payments.RequestPayout(c.Request.Context(), userID, service.RequestPayoutInput{
		Amount:       req.Amount,
		BankName:     req.BankName,
		AccountLast4: req.AccountLast4,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payout)
}

// ListPayouts обрабатывает GET /payouts.
func (h *PaymentHandler) ListPayouts(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	page, limit, offset := common.GetPageParams(c)
	payouts, total, err := h.payments.ListPayouts(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondPage(c, payouts, page, limit, total)
}

// AdvancePayout обрабатывает PUT /admin/payouts/:id/status.
func (h *PaymentHandler) AdvancePayout(c *gin.Context) {
	payoutID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Status          string  `json:"status" binding:"required"`
		RejectionReason *string `json:"rejection_reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	payout, err := h.payments.AdvancePayout(c.Request.Context(), payoutID, req.Status, req.RejectionReason)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, payout)
}

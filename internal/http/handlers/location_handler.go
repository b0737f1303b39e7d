package handlers

import (
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/nvoskresenskiy/tasker-backend/internal/http/handlers/common"
	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/pkg/geo"
	"github.com/nvoskresenskiy/tasker-backend/internal/repository"
	"github.com/nvoskresenskiy/tasker-backend/internal/validation"
)

// LocationHandler управляет адресами пользователей.
type LocationHandler struct {
	repo *repository.LocationRepository
}

// NewLocationHandler создаёт хэндлер.
func NewLocationHandler(repo *repository.LocationRepository) *LocationHandler {
	return &LocationHandler{repo: repo}
}

type locationRequest struct {
	Address   string  `json:"address" binding:"required"`
	City      *string `json:"city"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

func (r locationRequest) validate() string {
	if utf8.RuneCountInString(r.Address) > validation.MaxAddressLength {
		return "адрес слишком длинный"
	}
	if !geo.ValidCoordinates(r.Latitude, r.Longitude) {
		return "координаты вне допустимого диапазона"
	}
	return ""
}

// Create обрабатывает POST /locations.
func (h *LocationHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		common.RespondBadRequest(c, msg)
		return
	}

	location := &models.Location{
		UserID:    &userID,
		Address:   req.Address,
		City:      req.City,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := h.repo.Create(c.Request.Context(), location); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, location)
}

// Get обрабатывает GET /locations/:id.
func (h *LocationHandler) Get(c *gin.Context) {
	locationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	location, err := h.repo.GetByID(c.Request.Context(), locationID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, location)
}

// Update обрабатывает PUT /locations/:id.
func (h *LocationHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	locationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		common.RespondBadRequest(c, msg)
		return
	}

	existing, err := h.repo.GetByID(c.Request.Context(), locationID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	if existing.UserID == nil || *existing.UserID != userID {
		common.RespondError(c, http.StatusForbidden, "недостаточно прав")
		return
	}

	existing.Address = req.Address
	existing.City = req.City
	existing.Latitude = req.Latitude
	existing.Longitude = req.Longitude
	if err := h.repo.Update(c.Request.Context(), existing); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, existing)
}

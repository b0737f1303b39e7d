package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nvoskresenskiy/tasker-backend/internal/dto"
	"github.com/nvoskresenskiy/tasker-backend/internal/http/handlers/common"
	"github.com/nvoskresenskiy/tasker-backend/internal/service"
)

// CatalogHandler предоставляет HTTP слой для категорий каталога.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler создаёт хэндлер.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List обрабатывает GET /categories.
func (h *CatalogHandler) List(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ListPopular обрабатывает GET /categories/popular.
func (h *CatalogHandler) ListPopular(c *gin.Context) {
	categories, err := h.catalog.ListPopularCategories(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ListFeatured обрабатывает GET /categories/featured.
func (h *CatalogHandler) ListFeatured(c *gin.Context) {
	categories, err := h.catalog.ListFeaturedCategories(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetBySlug обрабатывает GET /categories/:slug.
func (h *CatalogHandler) GetBySlug(c *gin.Context) {
	categorySlug := c.Param("slug")
	if categorySlug == "" {
		common.RespondBadRequest(c, "slug обязателен")
		return
	}

	category, err := h.catalog.GetCategoryBySlug(c.Request.Context(), categorySlug)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func categoryInputFromRequest(req dto.CategoryRequest) service.CategoryInput {
	return service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		IsPopular:   req.IsPopular,
		IsFeatured:  req.IsFeatured,
		SortOrder:   req.SortOrder,
	}
}

// Create обрабатывает POST /admin/categories.
func (h *CatalogHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), categoryInputFromRequest(req))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// Update обрабатывает PUT /admin/categories/:id.
func (h *CatalogHandler) Update(c *gin.Context) {
	categoryID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), categoryID, categoryInputFromRequest(req))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "funfinance/internal/errors"
	"funfinance/internal/pagination"
	"funfinance/internal/services"
)

// CategoryHandler handles category-related requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category.
type CreateCategoryRequest struct {
	FamilyID    uint   `json:"family_id" binding:"required"`
	Name        string `json:"name" binding:"required,not_blank,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateCategoryRequest represents the request payload for updating a category.
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"omitempty,not_blank,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// CreateCategory handles the creation of a new category.
// @Summary     Create a category
// @Description Create an expense category scoped to a family. Names are unique within a family.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input, duplicate name, or family not found"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(req.Name, req.Description, req.FamilyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(0, "CREATE_CATEGORY", "category", category.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "family_id": req.FamilyID})

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetCategories handles listing a family's categories.
// @Summary     List categories
// @Tags        categories
// @Produce     json
// @Param       family_id query int true  "Family ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Category] "Paginated categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	familyID, err := parseUintQuery(c, "family_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.categoryService.ListFamilyCategories(familyID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCategory handles retrieving a category by ID.
// @Summary     Get category by ID
// @Tags        categories
// @Produce     json
// @Param       id path int true "Category ID"
// @Success     200 {object} models.Category "Category details"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory handles updating a category's name or description.
// @Summary     Update category
// @Tags        categories
// @Accept      json
// @Param       id      path int                   true "Category ID"
// @Param       request body UpdateCategoryRequest true "Updated category details"
// @Success     204 "Category updated"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate name"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if _, err := h.categoryService.UpdateCategory(id, req.Name, req.Description); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(0, "UPDATE_CATEGORY", "category", id, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.Status(http.StatusNoContent)
}

// DeleteCategory handles deleting a category.
// @Summary     Delete category
// @Description Delete a category. Fails while expenses reference it.
// @Tags        categories
// @Param       id path int true "Category ID"
// @Success     204 "Category deleted"
// @Failure     400 {object} ErrorResponse "Category is used by existing expenses"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(0, "DELETE_CATEGORY", "category", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetCategoryTotal handles retrieving the summed expenses of a category.
// @Summary     Get category expense total
// @Tags        categories
// @Produce     json
// @Param       id path int true "Category ID"
// @Success     200 {object} map[string]int64 "Summed expense amounts"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id}/total [get]
func (h *CategoryHandler) GetCategoryTotal(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.categoryService.TotalExpenses(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}

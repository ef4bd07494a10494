package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "funfinance/internal/errors"
	"funfinance/internal/pagination"
	"funfinance/internal/services"
)

// defaultNearLimitThreshold is the percentage of the limit at which a
// budget counts as "near limit" when the caller supplies none.
const defaultNearLimitThreshold = 80

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	FamilyID  uint      `json:"family_id" binding:"required"`
	Name      string    `json:"name" binding:"required,not_blank,min=1,max=100"`
	Limit     int64     `json:"limit" binding:"required,cents"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
type UpdateBudgetRequest struct {
	Name      string     `json:"name" binding:"omitempty,min=1,max=100"`
	Limit     *int64     `json:"limit" binding:"omitempty,cents"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a new spending limit over a date range for a family
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid limit or period, or family not found"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(req.Name, req.Limit, req.StartDate, req.EndDate, req.FamilyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(0, "CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "limit": req.Limit, "family_id": req.FamilyID})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles listing a family's budgets.
// @Summary     List budgets
// @Description List a family's budgets, optionally only those active now
// @Tags        budgets
// @Produce     json
// @Param       family_id query int  true  "Family ID"
// @Param       active    query bool false "Only budgets whose period contains now"
// @Param       page      query int  false "Page number (default 1)"
// @Param       page_size query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	familyID, err := parseUintQuery(c, "family_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if c.Query("active") == "true" {
		budgets, err := h.budgetService.ListActiveBudgets(familyID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"budgets": budgets})
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.budgetService.ListFamilyBudgets(familyID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Tags        budgets
// @Produce     json
// @Param       id path int true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetBudgetExpenses handles retrieving a budget with its expense list.
// @Summary     Get budget with expenses
// @Tags        budgets
// @Produce     json
// @Param       id path int true "Budget ID"
// @Success     200 {object} models.Budget "Budget with expenses"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/expenses [get]
func (h *BudgetHandler) GetBudgetExpenses(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetWithExpenses(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles updating an existing budget.
// @Summary     Update budget
// @Tags        budgets
// @Accept      json
// @Param       id      path int                 true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Updated budget details"
// @Success     204 "Budget updated"
// @Failure     400 {object} ErrorResponse "Invalid limit or period"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if _, err := h.budgetService.UpdateBudget(id, req.Name, req.Limit, req.StartDate, req.EndDate); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(0, "UPDATE_BUDGET", "budget", id, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.Status(http.StatusNoContent)
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Tags        budgets
// @Param       id path int true "Budget ID"
// @Success     204 "Budget deleted"
// @Failure     400 {object} ErrorResponse "Budget has recorded expenses"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(0, "DELETE_BUDGET", "budget", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetBudgetUsage handles retrieving the summed expenses of a budget.
// @Summary     Get budget usage
// @Tags        budgets
// @Produce     json
// @Param       id path int true "Budget ID"
// @Success     200 {object} map[string]int64 "Summed expense amounts"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/usage [get]
func (h *BudgetHandler) GetBudgetUsage(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	usage, err := h.budgetService.Usage(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"usage": usage})
}

// GetBudgetRemaining handles retrieving the unspent balance of a budget.
// @Summary     Get remaining budget
// @Tags        budgets
// @Produce     json
// @Param       id path int true "Budget ID"
// @Success     200 {object} map[string]int64 "Limit minus usage"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/remaining [get]
func (h *BudgetHandler) GetBudgetRemaining(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	remaining, err := h.budgetService.Remaining(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"remaining": remaining})
}

// GetBudgetExceeded reports whether a budget's usage is above its limit.
// @Summary     Check if a budget is exceeded
// @Tags        budgets
// @Produce     json
// @Param       id path int true "Budget ID"
// @Success     200 {object} map[string]bool "Exceeded flag"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/exceeded [get]
func (h *BudgetHandler) GetBudgetExceeded(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	exceeded, err := h.budgetService.IsExceeded(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exceeded": exceeded})
}

// GetBudgetNearLimit reports whether a budget's usage sits between the
// threshold percentage and 100% of the limit.
// @Summary     Check if a budget is near its limit
// @Tags        budgets
// @Produce     json
// @Param       id        path  int    true  "Budget ID"
// @Param       threshold query number false "Threshold percent (default 80)"
// @Success     200 {object} map[string]bool "Near-limit flag"
// @Failure     400 {object} ErrorResponse "Invalid threshold"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/near-limit [get]
func (h *BudgetHandler) GetBudgetNearLimit(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	threshold := float64(defaultNearLimitThreshold)
	if v := c.Query("threshold"); v != "" {
		threshold, err = strconv.ParseFloat(v, 64)
		if err != nil || threshold <= 0 || threshold > 100 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "threshold must be a percentage in (0, 100]"))
			return
		}
	}

	nearLimit, err := h.budgetService.IsNearLimit(id, threshold)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"near_limit": nearLimit})
}

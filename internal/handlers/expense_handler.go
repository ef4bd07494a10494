package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "funfinance/internal/errors"
	"funfinance/internal/pagination"
	"funfinance/internal/services"
)

// ExpenseHandler handles expense recording and aggregate queries.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for recording an expense.
type CreateExpenseRequest struct {
	Description string    `json:"description" binding:"required,not_blank,min=1,max=255"`
	Amount      int64     `json:"amount" binding:"required,cents"`
	Date        time.Time `json:"date" binding:"required"`
	CategoryID  uint      `json:"category_id" binding:"required"`
	UserID      uint      `json:"user_id" binding:"required"`
	BudgetID    uint      `json:"budget_id" binding:"required"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
type UpdateExpenseRequest struct {
	Description string     `json:"description" binding:"omitempty,not_blank,min=1,max=255"`
	Amount      *int64     `json:"amount" binding:"omitempty,cents"`
	Date        *time.Time `json:"date"`
}

// CreateExpense handles recording a new expense against a budget.
// @Summary     Record an expense
// @Description Record an expense. The expense's category and budget must belong to the same family, and the date must fall inside the budget's period.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense recorded"
// @Failure     400 {object} ErrorResponse "Invalid amount, date outside budget period, family mismatch, or missing user/category/budget"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(req.Description, req.Amount, req.Date, req.CategoryID, req.UserID, req.BudgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(req.UserID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "budget_id": req.BudgetID})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing a family's expenses with optional filters.
// @Summary     List expenses
// @Description List a family's expenses, optionally filtered by member, budget, category, or date range
// @Tags        expenses
// @Produce     json
// @Param       family_id   query int    true  "Family ID"
// @Param       user_id     query int    false "Filter by member"
// @Param       budget_id   query int    false "Filter by budget"
// @Param       category_id query int    false "Filter by category"
// @Param       start_date  query string false "Inclusive range start (RFC 3339 or 2006-01-02)"
// @Param       end_date    query string false "Inclusive range end (RFC 3339 or 2006-01-02)"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
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

	var filter services.ExpenseFilter
	if c.Query("user_id") != "" {
		id, err := parseUintQuery(c, "user_id")
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.UserID = &id
	}
	if c.Query("budget_id") != "" {
		id, err := parseUintQuery(c, "budget_id")
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.BudgetID = &id
	}
	if c.Query("category_id") != "" {
		id, err := parseUintQuery(c, "category_id")
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.CategoryID = &id
	}
	if c.Query("start_date") != "" {
		t, err := parseDateQuery(c, "start_date")
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.StartDate = &t
	}
	if c.Query("end_date") != "" {
		t, err := parseDateQuery(c, "end_date")
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.EndDate = &t
	}

	result, err := h.expenseService.ListFamilyExpenses(familyID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense handles retrieving an expense with its category, user, and budget.
// @Summary     Get expense by ID
// @Tags        expenses
// @Produce     json
// @Param       id path int true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles updating an expense's description, amount, or date.
// @Summary     Update expense
// @Description Update an expense. A new date must still fall inside the budget's period.
// @Tags        expenses
// @Accept      json
// @Param       id      path int                  true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Updated expense details"
// @Success     204 "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid amount or date outside budget period"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if _, err := h.expenseService.UpdateExpense(id, req.Description, req.Amount, req.Date); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(0, "UPDATE_EXPENSE", "expense", id, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount})

	c.Status(http.StatusNoContent)
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete expense
// @Tags        expenses
// @Param       id path int true "Expense ID"
// @Success     204 "Expense deleted"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(0, "DELETE_EXPENSE", "expense", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetTotalByUser handles summing a member's expenses over a date range.
// @Summary     Total spent by a member
// @Tags        expenses
// @Produce     json
// @Param       user_id    query int    true "User ID"
// @Param       start_date query string true "Inclusive range start"
// @Param       end_date   query string true "Inclusive range end"
// @Success     200 {object} map[string]int64 "Summed expense amounts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /expenses/total-by-user [get]
func (h *ExpenseHandler) GetTotalByUser(c *gin.Context) {
	userID, err := parseUintQuery(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	start, end, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.expenseService.TotalByUser(userID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}

// GetTotalByCategory handles summing a category's expenses over a date range.
// @Summary     Total spent in a category
// @Tags        expenses
// @Produce     json
// @Param       category_id query int    true "Category ID"
// @Param       start_date  query string true "Inclusive range start"
// @Param       end_date    query string true "Inclusive range end"
// @Success     200 {object} map[string]int64 "Summed expense amounts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /expenses/total-by-category [get]
func (h *ExpenseHandler) GetTotalByCategory(c *gin.Context) {
	categoryID, err := parseUintQuery(c, "category_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	start, end, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.expenseService.TotalByCategory(categoryID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}

// GroupByCategory handles breaking down a family's spending per category.
// @Summary     Spending grouped by category
// @Tags        expenses
// @Produce     json
// @Param       family_id  query int    true "Family ID"
// @Param       start_date query string true "Inclusive range start"
// @Param       end_date   query string true "Inclusive range end"
// @Success     200 {object} map[uint]int64 "Category ID to summed amount"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Family not found"
// @Router      /expenses/by-category [get]
func (h *ExpenseHandler) GroupByCategory(c *gin.Context) {
	familyID, err := parseUintQuery(c, "family_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	start, end, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.expenseService.GroupByCategory(familyID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totals": totals})
}

// GroupByUser handles breaking down a family's spending per member.
// @Summary     Spending grouped by member
// @Tags        expenses
// @Produce     json
// @Param       family_id  query int    true "Family ID"
// @Param       start_date query string true "Inclusive range start"
// @Param       end_date   query string true "Inclusive range end"
// @Success     200 {object} map[uint]int64 "User ID to summed amount"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Family not found"
// @Router      /expenses/by-user [get]
func (h *ExpenseHandler) GroupByUser(c *gin.Context) {
	familyID, err := parseUintQuery(c, "family_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	start, end, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.expenseService.GroupByUser(familyID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totals": totals})
}

// GroupByDay handles breaking down a family's spending per calendar day.
// @Summary     Spending grouped by day
// @Tags        expenses
// @Produce     json
// @Param       family_id  query int    true "Family ID"
// @Param       start_date query string true "Inclusive range start"
// @Param       end_date   query string true "Inclusive range end"
// @Success     200 {object} map[string]int64 "Day (2006-01-02) to summed amount"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Family not found"
// @Router      /expenses/by-day [get]
func (h *ExpenseHandler) GroupByDay(c *gin.Context) {
	familyID, err := parseUintQuery(c, "family_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	start, end, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.expenseService.GroupByDay(familyID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totals": totals})
}

// parseDateRange parses the required start_date and end_date query parameters.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

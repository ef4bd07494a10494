package services

import (
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	apperrors "funfinance/internal/errors"
	"funfinance/internal/models"
	"funfinance/internal/pagination"
)

// expenseService handles expense-related business logic, including the
// aggregate queries behind the analytics endpoints.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense records an expense against a budget, category, and user.
func (s *expenseService) CreateExpense(description string, amount int64, date time.Time, categoryID, userID, budgetID uint) (*models.Expense, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithStatus(apperrors.ErrUserNotFound, http.StatusBadRequest)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithStatus(apperrors.ErrCategoryNotFound, http.StatusBadRequest)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budget models.Budget
	if err := s.db.First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithStatus(apperrors.ErrBudgetNotFound, http.StatusBadRequest)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if category.FamilyID != budget.FamilyID {
		return nil, apperrors.ErrFamilyMismatch
	}
	if !budget.ContainsDate(date) {
		return nil, apperrors.ErrDateOutsideBudget
	}

	expense := &models.Expense{
		Description: description,
		Amount:      amount,
		Date:        date,
		CategoryID:  categoryID,
		UserID:      userID,
		BudgetID:    budgetID,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// GetExpenseByID returns an expense with its category, user, and budget
// loaded.
func (s *expenseService) GetExpenseByID(id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Category").Preload("User").Preload("Budget").First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// ListFamilyExpenses returns a paginated list of a family's expenses
// with optional user/budget/category/date filters. Date bounds are
// inclusive.
func (s *expenseService) ListFamilyExpenses(familyID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.familyExpenses(familyID)
	if filter.UserID != nil {
		base = base.Where("expenses.user_id = ?", *filter.UserID)
	}
	if filter.BudgetID != nil {
		base = base.Where("expenses.budget_id = ?", *filter.BudgetID)
	}
	if filter.CategoryID != nil {
		base = base.Where("expenses.category_id = ?", *filter.CategoryID)
	}
	if filter.StartDate != nil {
		base = base.Where("expenses.date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		base = base.Where("expenses.date <= ?", *filter.EndDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Order("expenses.date DESC").Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateExpense updates an expense's description, amount, or date,
// re-validating the amount and budget-period invariants.
func (s *expenseService) UpdateExpense(id uint, description string, amount *int64, date *time.Time) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(id)
	if err != nil {
		return nil, err
	}

	if amount != nil && *amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if date != nil && !expense.Budget.ContainsDate(*date) {
		return nil, apperrors.ErrDateOutsideBudget
	}

	updates := make(map[string]interface{})
	if description != "" {
		updates["description"] = description
	}
	if amount != nil {
		updates["amount"] = *amount
	}
	if date != nil {
		updates["date"] = *date
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return expense, nil
}

// DeleteExpense removes an expense.
func (s *expenseService) DeleteExpense(id uint) error {
	var expense models.Expense
	if err := s.db.First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrExpenseNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// TotalByUser sums a user's expenses over a date range, bounds inclusive.
func (s *expenseService) TotalByUser(userID uint, startDate, endDate time.Time) (int64, error) {
	var total int64
	err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, startDate, endDate).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// TotalByCategory sums a category's expenses over a date range, bounds
// inclusive.
func (s *expenseService) TotalByCategory(categoryID uint, startDate, endDate time.Time) (int64, error) {
	var total int64
	err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("category_id = ? AND date BETWEEN ? AND ?", categoryID, startDate, endDate).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// GroupByCategory sums a family's expenses in range per category id.
func (s *expenseService) GroupByCategory(familyID uint, startDate, endDate time.Time) (map[uint]int64, error) {
	expenses, err := s.rangeExpenses(familyID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	groups := make(map[uint]int64)
	for _, e := range expenses {
		groups[e.CategoryID] += e.Amount
	}
	return groups, nil
}

// GroupByUser sums a family's expenses in range per user id.
func (s *expenseService) GroupByUser(familyID uint, startDate, endDate time.Time) (map[uint]int64, error) {
	expenses, err := s.rangeExpenses(familyID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	groups := make(map[uint]int64)
	for _, e := range expenses {
		groups[e.UserID] += e.Amount
	}
	return groups, nil
}

// GroupByDay sums a family's expenses in range per calendar day. Keys
// are the expense dates truncated to the day, formatted 2006-01-02.
func (s *expenseService) GroupByDay(familyID uint, startDate, endDate time.Time) (map[string]int64, error) {
	expenses, err := s.rangeExpenses(familyID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]int64)
	for _, e := range expenses {
		groups[e.Date.Format("2006-01-02")] += e.Amount
	}
	return groups, nil
}

// familyExpenses scopes the expense table to one family via its budgets.
// Expenses carry no family id of their own.
func (s *expenseService) familyExpenses(familyID uint) *gorm.DB {
	return s.db.Model(&models.Expense{}).
		Joins("JOIN budgets ON budgets.id = expenses.budget_id").
		Where("budgets.family_id = ?", familyID)
}

// rangeExpenses fetches a family's expenses within a date range, bounds
// inclusive, for the group-by aggregations.
func (s *expenseService) rangeExpenses(familyID uint, startDate, endDate time.Time) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.familyExpenses(familyID).
		Where("expenses.date BETWEEN ? AND ?", startDate, endDate).
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

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

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new budget for a family.
func (s *budgetService) CreateBudget(name string, limit int64, startDate, endDate time.Time, familyID uint) (*models.Budget, error) {
	if limit <= 0 {
		return nil, apperrors.ErrInvalidLimit
	}
	if !startDate.Before(endDate) {
		return nil, apperrors.ErrInvalidPeriod
	}

	var family models.Family
	if err := s.db.First(&family, familyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithStatus(apperrors.ErrFamilyNotFound, http.StatusBadRequest)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget := &models.Budget{
		FamilyID:  familyID,
		Name:      name,
		Limit:     limit,
		StartDate: startDate,
		EndDate:   endDate,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// ListFamilyBudgets returns a paginated list of a family's budgets.
func (s *budgetService) ListFamilyBudgets(familyID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("family_id = ?", familyID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Order("start_date DESC").Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListActiveBudgets returns a family's budgets whose period contains now.
func (s *budgetService) ListActiveBudgets(familyID uint) ([]models.Budget, error) {
	now := time.Now()

	var budgets []models.Budget
	if err := s.db.
		Where("family_id = ? AND start_date <= ? AND end_date >= ?", familyID, now, now).
		Order("start_date DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetByID returns a budget by ID.
func (s *budgetService) GetBudgetByID(id uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.First(&budget, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetBudgetWithExpenses returns a budget with its expense list loaded.
func (s *budgetService) GetBudgetWithExpenses(id uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Expenses").First(&budget, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates a budget's fields, re-checking the limit and
// period invariants against the resulting state.
func (s *budgetService) UpdateBudget(id uint, name string, limit *int64, startDate, endDate *time.Time) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(id)
	if err != nil {
		return nil, err
	}

	if limit != nil && *limit <= 0 {
		return nil, apperrors.ErrInvalidLimit
	}

	newStart := budget.StartDate
	if startDate != nil {
		newStart = *startDate
	}
	newEnd := budget.EndDate
	if endDate != nil {
		newEnd = *endDate
	}
	if !newStart.Before(newEnd) {
		return nil, apperrors.ErrInvalidPeriod
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if limit != nil {
		updates["limit_cents"] = *limit
	}
	if startDate != nil {
		updates["start_date"] = *startDate
	}
	if endDate != nil {
		updates["end_date"] = *endDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget removes a budget. Budgets with recorded expenses are
// delete-restricted.
func (s *budgetService) DeleteBudget(id uint) error {
	budget, err := s.GetBudgetByID(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Expense{}).Where("budget_id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrBudgetHasExpenses
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Usage returns the sum of expense amounts recorded against a budget.
func (s *budgetService) Usage(budgetID uint) (int64, error) {
	if _, err := s.GetBudgetByID(budgetID); err != nil {
		return 0, err
	}

	var total int64
	err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("budget_id = ?", budgetID).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// Remaining returns the budget limit minus its usage. Negative when the
// budget is exceeded.
func (s *budgetService) Remaining(budgetID uint) (int64, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return 0, err
	}

	usage, err := s.Usage(budgetID)
	if err != nil {
		return 0, err
	}
	return budget.Limit - usage, nil
}

// IsExceeded reports whether usage is strictly above the limit.
func (s *budgetService) IsExceeded(budgetID uint) (bool, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return false, err
	}

	usage, err := s.Usage(budgetID)
	if err != nil {
		return false, err
	}
	return usage > budget.Limit, nil
}

// IsNearLimit reports whether usage sits in [threshold%, 100%) of the
// limit. An exceeded budget is not "near" its limit.
func (s *budgetService) IsNearLimit(budgetID uint, thresholdPercent float64) (bool, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return false, err
	}

	usage, err := s.Usage(budgetID)
	if err != nil {
		return false, err
	}

	usagePercent := float64(usage) / float64(budget.Limit) * 100
	return usagePercent >= thresholdPercent && usagePercent < 100, nil
}

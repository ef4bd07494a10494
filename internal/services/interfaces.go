package services

import (
	"time"

	"funfinance/internal/models"
	"funfinance/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, email, password string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	UpdateUsername(id uint, username string) (*models.User, error)
	DeleteUser(id uint) error
	JoinFamily(userID, familyID uint) error
	LeaveFamily(userID uint) error
	GetUserFamily(userID uint) (*models.Family, error)
}

// FamilyServicer defines the contract for family-related business logic,
// including the invitation workflow.
type FamilyServicer interface {
	ListFamilies(page pagination.PageRequest) (*pagination.PageResponse[models.Family], error)
	GetFamilyByID(id uint) (*models.Family, error)
	GetFamilyWithMembers(id uint) (*models.Family, error)
	CreateFamily(name string, creatorUserID uint) (*models.Family, error)
	UpdateFamily(id uint, name string) (*models.Family, error)
	DeleteFamily(id uint) error
	CreateInvitation(familyID uint, email string) (string, error)
	AcceptInvitation(token string, userID uint) error
	ListInvitationsByFamily(familyID uint) ([]models.FamilyInvitation, error)
	ListInvitationsByEmail(email string) ([]models.FamilyInvitation, error)
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(name string, limit int64, startDate, endDate time.Time, familyID uint) (*models.Budget, error)
	ListFamilyBudgets(familyID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	ListActiveBudgets(familyID uint) ([]models.Budget, error)
	GetBudgetByID(id uint) (*models.Budget, error)
	GetBudgetWithExpenses(id uint) (*models.Budget, error)
	UpdateBudget(id uint, name string, limit *int64, startDate, endDate *time.Time) (*models.Budget, error)
	DeleteBudget(id uint) error
	Usage(budgetID uint) (int64, error)
	Remaining(budgetID uint) (int64, error)
	IsExceeded(budgetID uint) (bool, error)
	IsNearLimit(budgetID uint, thresholdPercent float64) (bool, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name, description string, familyID uint) (*models.Category, error)
	ListFamilyCategories(familyID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(id uint) (*models.Category, error)
	UpdateCategory(id uint, name, description string) (*models.Category, error)
	DeleteCategory(id uint) error
	TotalExpenses(categoryID uint) (int64, error)
}

// ExpenseFilter holds optional filter parameters for listing a family's expenses.
type ExpenseFilter struct {
	UserID     *uint
	BudgetID   *uint
	CategoryID *uint
	StartDate  *time.Time
	EndDate    *time.Time
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(description string, amount int64, date time.Time, categoryID, userID, budgetID uint) (*models.Expense, error)
	GetExpenseByID(id uint) (*models.Expense, error)
	ListFamilyExpenses(familyID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	UpdateExpense(id uint, description string, amount *int64, date *time.Time) (*models.Expense, error)
	DeleteExpense(id uint) error
	TotalByUser(userID uint, startDate, endDate time.Time) (int64, error)
	TotalByCategory(categoryID uint, startDate, endDate time.Time) (int64, error)
	GroupByCategory(familyID uint, startDate, endDate time.Time) (map[uint]int64, error)
	GroupByUser(familyID uint, startDate, endDate time.Time) (map[uint]int64, error)
	GroupByDay(familyID uint, startDate, endDate time.Time) (map[string]int64, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}

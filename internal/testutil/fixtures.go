package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"funfinance/internal/models"
	"funfinance/internal/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: fmt.Sprintf("testuser%d", nextID()),
		Email:    email,
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestFamily creates a family with no members.
func CreateTestFamily(t *testing.T, db *gorm.DB) *models.Family {
	t.Helper()

	family := &models.Family{
		Name: fmt.Sprintf("Test Family %d", nextID()),
	}
	if err := db.Create(family).Error; err != nil {
		t.Fatalf("failed to create test family: %v", err)
	}
	return family
}

// CreateTestFamilyWithMember creates a family and joins the given user to it.
func CreateTestFamilyWithMember(t *testing.T, db *gorm.DB, user *models.User) *models.Family {
	t.Helper()

	family := CreateTestFamily(t, db)
	if err := db.Model(user).Update("family_id", family.ID).Error; err != nil {
		t.Fatalf("failed to join test user to family: %v", err)
	}
	user.FamilyID = &family.ID
	return family
}

// CreateTestBudget creates a budget with the given limit (in cents) over a
// 30-day period starting yesterday.
func CreateTestBudget(t *testing.T, db *gorm.DB, familyID uint, limit int64) *models.Budget {
	t.Helper()

	start := time.Now().Add(-24 * time.Hour)
	return CreateTestBudgetWithPeriod(t, db, familyID, limit, start, start.Add(30*24*time.Hour))
}

// CreateTestBudgetWithPeriod creates a budget with an explicit date range.
func CreateTestBudgetWithPeriod(t *testing.T, db *gorm.DB, familyID uint, limit int64, start, end time.Time) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		FamilyID:  familyID,
		Name:      fmt.Sprintf("Test Budget %d", nextID()),
		Limit:     limit,
		StartDate: start,
		EndDate:   end,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestCategory creates a category with a unique name in the family.
func CreateTestCategory(t *testing.T, db *gorm.DB, familyID uint) *models.Category {
	t.Helper()

	category := &models.Category{
		FamilyID: familyID,
		Name:     fmt.Sprintf("Test Category %d", nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense dated now with the given amount (in cents).
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID, budgetID uint, amount int64) *models.Expense {
	t.Helper()
	return CreateTestExpenseOn(t, db, userID, categoryID, budgetID, amount, time.Now())
}

// CreateTestExpenseOn creates an expense with an explicit date.
func CreateTestExpenseOn(t *testing.T, db *gorm.DB, userID, categoryID, budgetID uint, amount int64, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		Amount:      amount,
		Date:        date,
		CategoryID:  categoryID,
		UserID:      userID,
		BudgetID:    budgetID,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestInvitation creates a pending invitation expiring in 7 days.
func CreateTestInvitation(t *testing.T, db *gorm.DB, familyID uint, email string) *models.FamilyInvitation {
	t.Helper()

	invitation := &models.FamilyInvitation{
		FamilyID:  familyID,
		Email:     email,
		Token:     token.New(),
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := db.Create(invitation).Error; err != nil {
		t.Fatalf("failed to create test invitation: %v", err)
	}
	return invitation
}

// CreateTestExpiredInvitation creates an invitation whose expiry is in the past.
func CreateTestExpiredInvitation(t *testing.T, db *gorm.DB, familyID uint, email string) *models.FamilyInvitation {
	t.Helper()

	invitation := &models.FamilyInvitation{
		FamilyID:  familyID,
		Email:     email,
		Token:     token.New(),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := db.Create(invitation).Error; err != nil {
		t.Fatalf("failed to create test expired invitation: %v", err)
	}
	return invitation
}

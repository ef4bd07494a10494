package services

import (
	"net/http"
	"testing"
	"time"

	"funfinance/internal/models"
	"funfinance/internal/pagination"
	"funfinance/internal/testutil"

	"gorm.io/gorm"
)

// expenseFixtures creates a user joined to a family with one budget and
// one category, the shared starting point of most expense tests.
type expenseFixtures struct {
	user     *models.User
	family   *models.Family
	budget   *models.Budget
	category *models.Category
}

func setupExpenseFixtures(t *testing.T, db *gorm.DB) expenseFixtures {
	t.Helper()

	user := testutil.CreateTestUser(t, db)
	family := testutil.CreateTestFamilyWithMember(t, db, user)
	budget := testutil.CreateTestBudget(t, db, family.ID, 100000)
	category := testutil.CreateTestCategory(t, db, family.ID)
	return expenseFixtures{user: user, family: family, budget: budget, category: category}
}

func TestCreateExpense(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)

		expense, err := svc.CreateExpense("Milk", 200, time.Now(), fx.category.ID, fx.user.ID, fx.budget.ID)
		testutil.AssertNoError(t, err)

		if expense.ID == 0 {
			t.Fatal("expected non-zero expense ID")
		}
		if expense.Amount != 200 {
			t.Errorf("expected amount 200, got %d", expense.Amount)
		}
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)

		_, err := svc.CreateExpense("Free", 0, time.Now(), fx.category.ID, fx.user.ID, fx.budget.ID)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)

		_, err := svc.CreateExpense("Refund", -50, time.Now(), fx.category.ID, fx.user.ID, fx.budget.ID)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("date_before_budget_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)

		early := fx.budget.StartDate.Add(-time.Hour)
		_, err := svc.CreateExpense("Early", 100, early, fx.category.ID, fx.user.ID, fx.budget.ID)
		testutil.AssertAppError(t, err, "DATE_OUTSIDE_BUDGET")
	})

	t.Run("date_after_budget_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)

		late := fx.budget.EndDate.Add(time.Hour)
		_, err := svc.CreateExpense("Late", 100, late, fx.category.ID, fx.user.ID, fx.budget.ID)
		testutil.AssertAppError(t, err, "DATE_OUTSIDE_BUDGET")
	})

	t.Run("date_on_period_bounds_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)

		_, err := svc.CreateExpense("First day", 100, fx.budget.StartDate, fx.category.ID, fx.user.ID, fx.budget.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateExpense("Last day", 100, fx.budget.EndDate, fx.category.ID, fx.user.ID, fx.budget.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("category_from_other_family", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)

		otherFamily := testutil.CreateTestFamily(t, db)
		otherCategory := testutil.CreateTestCategory(t, db, otherFamily.ID)

		_, err := svc.CreateExpense("Cross", 100, time.Now(), otherCategory.ID, fx.user.ID, fx.budget.ID)
		testutil.AssertAppError(t, err, "FAMILY_MISMATCH")
	})

	t.Run("missing_references", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)

		_, err := svc.CreateExpense("x", 100, time.Now(), fx.category.ID, 99999, fx.budget.ID)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
		testutil.AssertHTTPStatus(t, err, http.StatusBadRequest)

		_, err = svc.CreateExpense("x", 100, time.Now(), 99999, fx.user.ID, fx.budget.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
		testutil.AssertHTTPStatus(t, err, http.StatusBadRequest)

		_, err = svc.CreateExpense("x", 100, time.Now(), fx.category.ID, fx.user.ID, 99999)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
		testutil.AssertHTTPStatus(t, err, http.StatusBadRequest)
	})
}

func TestGetExpenseByID(t *testing.T) {
	t.Run("loads_associations", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)

		created := testutil.CreateTestExpense(t, db, fx.user.ID, fx.category.ID, fx.budget.ID, 150)

		expense, err := svc.GetExpenseByID(created.ID)
		testutil.AssertNoError(t, err)

		if expense.Category == nil || expense.Category.ID != fx.category.ID {
			t.Error("expected category to be loaded")
		}
		if expense.User == nil || expense.User.ID != fx.user.ID {
			t.Error("expected user to be loaded")
		}
		if expense.Budget == nil || expense.Budget.ID != fx.budget.ID {
			t.Error("expected budget to be loaded")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		_, err := svc.GetExpenseByID(99999)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestListFamilyExpenses(t *testing.T) {
	t.Run("scoped_to_family", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)

		otherUser := testutil.CreateTestUser(t, db)
		otherFamily := testutil.CreateTestFamilyWithMember(t, db, otherUser)
		otherBudget := testutil.CreateTestBudget(t, db, otherFamily.ID, 50000)
		otherCategory := testutil.CreateTestCategory(t, db, otherFamily.ID)

		testutil.CreateTestExpense(t, db, fx.user.ID, fx.category.ID, fx.budget.ID, 100)
		testutil.CreateTestExpense(t, db, fx.user.ID, fx.category.ID, fx.budget.ID, 200)
		testutil.CreateTestExpense(t, db, otherUser.ID, otherCategory.ID, otherBudget.ID, 300)

		result, err := svc.ListFamilyExpenses(fx.family.ID, pagination.PageRequest{Page: 1, PageSize: 20}, ExpenseFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 expenses for the family, got %d", result.TotalItems)
		}
	})

	t.Run("filters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)

		secondUser := testutil.CreateTestUser(t, db)
		testutil.AssertNoError(t, db.Model(secondUser).Update("family_id", fx.family.ID).Error)
		secondCategory := testutil.CreateTestCategory(t, db, fx.family.ID)

		testutil.CreateTestExpense(t, db, fx.user.ID, fx.category.ID, fx.budget.ID, 100)
		testutil.CreateTestExpense(t, db, secondUser.ID, fx.category.ID, fx.budget.ID, 200)
		testutil.CreateTestExpense(t, db, secondUser.ID, secondCategory.ID, fx.budget.ID, 300)

		page := pagination.PageRequest{Page: 1, PageSize: 20}

		byUser, err := svc.ListFamilyExpenses(fx.family.ID, page, ExpenseFilter{UserID: &secondUser.ID})
		testutil.AssertNoError(t, err)
		if byUser.TotalItems != 2 {
			t.Errorf("expected 2 expenses for second user, got %d", byUser.TotalItems)
		}

		byCategory, err := svc.ListFamilyExpenses(fx.family.ID, page, ExpenseFilter{CategoryID: &secondCategory.ID})
		testutil.AssertNoError(t, err)
		if byCategory.TotalItems != 1 {
			t.Errorf("expected 1 expense for second category, got %d", byCategory.TotalItems)
		}
	})

	t.Run("date_range_inclusive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)

		day1 := fx.budget.StartDate.Add(24 * time.Hour)
		day2 := day1.Add(24 * time.Hour)
		day3 := day2.Add(24 * time.Hour)
		testutil.CreateTestExpenseOn(t, db, fx.user.ID, fx.category.ID, fx.budget.ID, 100, day1)
		testutil.CreateTestExpenseOn(t, db, fx.user.ID, fx.category.ID, fx.budget.ID, 200, day2)
		testutil.CreateTestExpenseOn(t, db, fx.user.ID, fx.category.ID, fx.budget.ID, 300, day3)

		result, err := svc.ListFamilyExpenses(fx.family.ID, pagination.PageRequest{Page: 1, PageSize: 20},
			ExpenseFilter{StartDate: &day1, EndDate: &day2})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 expenses in range, got %d", result.TotalItems)
		}
	})
}

func TestUpdateExpense(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)
		expense := testutil.CreateTestExpense(t, db, fx.user.ID, fx.category.ID, fx.budget.ID, 100)

		newAmount := int64(250)
		_, err := svc.UpdateExpense(expense.ID, "Corrected", &newAmount, nil)
		testutil.AssertNoError(t, err)

		got, err := svc.GetExpenseByID(expense.ID)
		testutil.AssertNoError(t, err)
		if got.Amount != 250 {
			t.Errorf("expected amount 250, got %d", got.Amount)
		}
		if got.Description != "Corrected" {
			t.Errorf("expected Corrected, got %s", got.Description)
		}
	})

	t.Run("invalid_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)
		expense := testutil.CreateTestExpense(t, db, fx.user.ID, fx.category.ID, fx.budget.ID, 100)

		bad := int64(-1)
		_, err := svc.UpdateExpense(expense.ID, "", &bad, nil)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("date_outside_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		fx := setupExpenseFixtures(t, db)
		expense := testutil.CreateTestExpense(t, db, fx.user.ID, fx.category.ID, fx.budget.ID, 100)

		late := fx.budget.EndDate.Add(time.Hour)
		_, err := svc.UpdateExpense(expense.ID, "", nil, &late)
		testutil.AssertAppError(t, err, "DATE_OUTSIDE_BUDGET")
	})
}

func TestDeleteExpense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	fx := setupExpenseFixtures(t, db)
	expense := testutil.CreateTestExpense(t, db, fx.user.ID, fx.category.ID, fx.budget.ID, 100)

	testutil.AssertNoError(t, svc.DeleteExpense(expense.ID))

	_, err := svc.GetExpenseByID(expense.ID)
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")

	testutil.AssertAppError(t, svc.DeleteExpense(expense.ID), "EXPENSE_NOT_FOUND")
}

func TestExpenseTotals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	fx := setupExpenseFixtures(t, db)

	secondUser := testutil.CreateTestUser(t, db)
	testutil.AssertNoError(t, db.Model(secondUser).Update("family_id", fx.family.ID).Error)
	secondCategory := testutil.CreateTestCategory(t, db, fx.family.ID)

	day := fx.budget.StartDate.Add(24 * time.Hour)
	testutil.CreateTestExpenseOn(t, db, fx.user.ID, fx.category.ID, fx.budget.ID, 100, day)
	testutil.CreateTestExpenseOn(t, db, fx.user.ID, secondCategory.ID, fx.budget.ID, 250, day)
	testutil.CreateTestExpenseOn(t, db, secondUser.ID, fx.category.ID, fx.budget.ID, 400, day)

	start := fx.budget.StartDate
	end := fx.budget.EndDate

	byUser, err := svc.TotalByUser(fx.user.ID, start, end)
	testutil.AssertNoError(t, err)
	if byUser != 350 {
		t.Errorf("expected user total 350, got %d", byUser)
	}

	byCategory, err := svc.TotalByCategory(fx.category.ID, start, end)
	testutil.AssertNoError(t, err)
	if byCategory != 500 {
		t.Errorf("expected category total 500, got %d", byCategory)
	}

	// Out-of-range dates contribute nothing.
	afterEnd, err := svc.TotalByUser(fx.user.ID, end.Add(time.Hour), end.Add(48*time.Hour))
	testutil.AssertNoError(t, err)
	if afterEnd != 0 {
		t.Errorf("expected 0 outside the range, got %d", afterEnd)
	}
}

func TestExpenseGroupBy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	fx := setupExpenseFixtures(t, db)

	secondUser := testutil.CreateTestUser(t, db)
	testutil.AssertNoError(t, db.Model(secondUser).Update("family_id", fx.family.ID).Error)
	secondCategory := testutil.CreateTestCategory(t, db, fx.family.ID)

	day1 := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 11, 9, 30, 0, 0, time.UTC)
	budget := testutil.CreateTestBudgetWithPeriod(t, db, fx.family.ID, 100000,
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))

	testutil.CreateTestExpenseOn(t, db, fx.user.ID, fx.category.ID, budget.ID, 100, day1)
	testutil.CreateTestExpenseOn(t, db, fx.user.ID, secondCategory.ID, budget.ID, 200, day1)
	testutil.CreateTestExpenseOn(t, db, secondUser.ID, fx.category.ID, budget.ID, 300, day2)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)

	byCategory, err := svc.GroupByCategory(fx.family.ID, start, end)
	testutil.AssertNoError(t, err)
	if byCategory[fx.category.ID] != 400 {
		t.Errorf("expected 400 for first category, got %d", byCategory[fx.category.ID])
	}
	if byCategory[secondCategory.ID] != 200 {
		t.Errorf("expected 200 for second category, got %d", byCategory[secondCategory.ID])
	}

	byUser, err := svc.GroupByUser(fx.family.ID, start, end)
	testutil.AssertNoError(t, err)
	if byUser[fx.user.ID] != 300 {
		t.Errorf("expected 300 for first user, got %d", byUser[fx.user.ID])
	}
	if byUser[secondUser.ID] != 300 {
		t.Errorf("expected 300 for second user, got %d", byUser[secondUser.ID])
	}

	byDay, err := svc.GroupByDay(fx.family.ID, start, end)
	testutil.AssertNoError(t, err)
	if byDay["2026-08-10"] != 300 {
		t.Errorf("expected 300 on 2026-08-10, got %d", byDay["2026-08-10"])
	}
	if byDay["2026-08-11"] != 300 {
		t.Errorf("expected 300 on 2026-08-11, got %d", byDay["2026-08-11"])
	}
}

package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "funfinance/internal/errors"
	"funfinance/internal/models"
	"funfinance/internal/pagination"
	"funfinance/internal/services"
)

// --- mock expense service ---

type mockExpenseService struct {
	createExpenseFn      func(description string, amount int64, date time.Time, categoryID, userID, budgetID uint) (*models.Expense, error)
	getExpenseByIDFn     func(id uint) (*models.Expense, error)
	listFamilyExpensesFn func(familyID uint, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	updateExpenseFn      func(id uint, description string, amount *int64, date *time.Time) (*models.Expense, error)
	deleteExpenseFn      func(id uint) error
	totalByUserFn        func(userID uint, startDate, endDate time.Time) (int64, error)
	totalByCategoryFn    func(categoryID uint, startDate, endDate time.Time) (int64, error)
	groupByCategoryFn    func(familyID uint, startDate, endDate time.Time) (map[uint]int64, error)
	groupByUserFn        func(familyID uint, startDate, endDate time.Time) (map[uint]int64, error)
	groupByDayFn         func(familyID uint, startDate, endDate time.Time) (map[string]int64, error)
}

func (m *mockExpenseService) CreateExpense(description string, amount int64, date time.Time, categoryID, userID, budgetID uint) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(description, amount, date, categoryID, userID, budgetID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) GetExpenseByID(id uint) (*models.Expense, error) {
	if m.getExpenseByIDFn != nil {
		return m.getExpenseByIDFn(id)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) ListFamilyExpenses(familyID uint, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	if m.listFamilyExpensesFn != nil {
		return m.listFamilyExpensesFn(familyID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockExpenseService) UpdateExpense(id uint, description string, amount *int64, date *time.Time) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(id, description, amount, date)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) DeleteExpense(id uint) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(id)
	}
	return nil
}

func (m *mockExpenseService) TotalByUser(userID uint, startDate, endDate time.Time) (int64, error) {
	if m.totalByUserFn != nil {
		return m.totalByUserFn(userID, startDate, endDate)
	}
	return 0, nil
}

func (m *mockExpenseService) TotalByCategory(categoryID uint, startDate, endDate time.Time) (int64, error) {
	if m.totalByCategoryFn != nil {
		return m.totalByCategoryFn(categoryID, startDate, endDate)
	}
	return 0, nil
}

func (m *mockExpenseService) GroupByCategory(familyID uint, startDate, endDate time.Time) (map[uint]int64, error) {
	if m.groupByCategoryFn != nil {
		return m.groupByCategoryFn(familyID, startDate, endDate)
	}
	return map[uint]int64{}, nil
}

func (m *mockExpenseService) GroupByUser(familyID uint, startDate, endDate time.Time) (map[uint]int64, error) {
	if m.groupByUserFn != nil {
		return m.groupByUserFn(familyID, startDate, endDate)
	}
	return map[uint]int64{}, nil
}

func (m *mockExpenseService) GroupByDay(familyID uint, startDate, endDate time.Time) (map[string]int64, error) {
	if m.groupByDayFn != nil {
		return m.groupByDayFn(familyID, startDate, endDate)
	}
	return map[string]int64{}, nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	r.POST("/expenses", handler.CreateExpense)
	r.GET("/expenses", handler.GetExpenses)
	r.GET("/expenses/total-by-user", handler.GetTotalByUser)
	r.GET("/expenses/total-by-category", handler.GetTotalByCategory)
	r.GET("/expenses/by-category", handler.GroupByCategory)
	r.GET("/expenses/by-user", handler.GroupByUser)
	r.GET("/expenses/by-day", handler.GroupByDay)
	r.GET("/expenses/:id", handler.GetExpense)
	r.PUT("/expenses/:id", handler.UpdateExpense)
	r.DELETE("/expenses/:id", handler.DeleteExpense)
	return r
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(description string, amount int64, date time.Time, categoryID, userID, budgetID uint) (*models.Expense, error) {
				return &models.Expense{
					Base:        models.Base{ID: 1},
					Description: description,
					Amount:      amount,
					Date:        date,
					CategoryID:  categoryID,
					UserID:      userID,
					BudgetID:    budgetID,
				}, nil
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"description":"Milk","amount":200,"date":"2026-08-10T00:00:00Z","category_id":1,"user_id":2,"budget_id":3}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		expense := parseJSON(t, rec)["expense"].(map[string]interface{})
		if expense["amount"].(float64) != 200 {
			t.Errorf("expected amount 200, got %v", expense["amount"])
		}
	})

	t.Run("returns 400 on non-positive amount", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"description":"Free","amount":0,"date":"2026-08-10T00:00:00Z","category_id":1,"user_id":2,"budget_id":3}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when date outside budget", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(_ string, _ int64, _ time.Time, _, _, _ uint) (*models.Expense, error) {
				return nil, apperrors.ErrDateOutsideBudget
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"description":"Late","amount":100,"date":"2027-01-01T00:00:00Z","category_id":1,"user_id":2,"budget_id":3}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DATE_OUTSIDE_BUDGET")
	})

	t.Run("returns 400 on family mismatch", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(_ string, _ int64, _ time.Time, _, _, _ uint) (*models.Expense, error) {
				return nil, apperrors.ErrFamilyMismatch
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"description":"Cross","amount":100,"date":"2026-08-10T00:00:00Z","category_id":1,"user_id":2,"budget_id":3}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FAMILY_MISMATCH")
	})
}

func TestExpenseHandler_GetExpenses(t *testing.T) {
	t.Run("requires family_id", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("passes filters through", func(t *testing.T) {
		var gotFilter services.ExpenseFilter
		svc := &mockExpenseService{
			listFamilyExpensesFn: func(_ uint, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Expense{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses?family_id=1&user_id=2&category_id=3&start_date=2026-08-01&end_date=2026-08-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.UserID == nil || *gotFilter.UserID != 2 {
			t.Errorf("expected user filter 2, got %v", gotFilter.UserID)
		}
		if gotFilter.CategoryID == nil || *gotFilter.CategoryID != 3 {
			t.Errorf("expected category filter 3, got %v", gotFilter.CategoryID)
		}
		if gotFilter.BudgetID != nil {
			t.Errorf("expected no budget filter, got %v", *gotFilter.BudgetID)
		}
		if gotFilter.StartDate == nil || gotFilter.StartDate.Format("2006-01-02") != "2026-08-01" {
			t.Errorf("expected start date 2026-08-01, got %v", gotFilter.StartDate)
		}
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses?family_id=1&start_date=yesterday", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_UpdateExpense(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "PUT", "/expenses/1", `{"amount":250}`)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockExpenseService{
			updateExpenseFn: func(_ uint, _ string, _ *int64, _ *time.Time) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "PUT", "/expenses/42", `{"amount":250}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_DeleteExpense(t *testing.T) {
	handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
	r := setupExpenseRouter(handler)

	rec := doRequest(r, "DELETE", "/expenses/1", "")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestExpenseHandler_Aggregates(t *testing.T) {
	t.Run("total by user", func(t *testing.T) {
		svc := &mockExpenseService{
			totalByUserFn: func(_ uint, _, _ time.Time) (int64, error) { return 350, nil },
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/total-by-user?user_id=1&start_date=2026-08-01&end_date=2026-08-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["total"].(float64) != 350 {
			t.Errorf("expected total 350, got %s", rec.Body.String())
		}
	})

	t.Run("requires date range", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/total-by-user?user_id=1", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("group by day", func(t *testing.T) {
		svc := &mockExpenseService{
			groupByDayFn: func(_ uint, _, _ time.Time) (map[string]int64, error) {
				return map[string]int64{"2026-08-10": 300}, nil
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/by-day?family_id=1&start_date=2026-08-01&end_date=2026-08-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		totals := parseJSON(t, rec)["totals"].(map[string]interface{})
		if totals["2026-08-10"].(float64) != 300 {
			t.Errorf("expected 300 on 2026-08-10, got %v", totals["2026-08-10"])
		}
	})
}

// Package errors provides custom error types for the FunFinance API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithStatus creates a new AppError with a different HTTP status code.
// Creation paths use it to report a missing referenced entity as a
// validation failure rather than a missing resource.
func WithStatus(sentinel *AppError, statusCode int) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: statusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound       = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail     = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusBadRequest}
	ErrDuplicateUsername  = &AppError{Code: "DUPLICATE_USERNAME", Message: "A user with this username already exists", StatusCode: http.StatusBadRequest}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrUserHasExpenses    = &AppError{Code: "USER_HAS_EXPENSES", Message: "User has recorded expenses and cannot be deleted", StatusCode: http.StatusBadRequest}
	ErrUserHasNoFamily    = &AppError{Code: "USER_HAS_NO_FAMILY", Message: "User does not belong to a family", StatusCode: http.StatusNotFound}
)

// Family errors.
var (
	ErrFamilyNotFound = &AppError{Code: "FAMILY_NOT_FOUND", Message: "Family not found", StatusCode: http.StatusNotFound}
	ErrFamilyInUse    = &AppError{Code: "FAMILY_IN_USE", Message: "Family has recorded expenses and cannot be deleted", StatusCode: http.StatusBadRequest}
)

// Invitation errors.
var (
	ErrInvitationNotFound = &AppError{Code: "INVITATION_NOT_FOUND", Message: "Invitation not found", StatusCode: http.StatusNotFound}
	ErrInvitationInvalid  = &AppError{Code: "INVITATION_INVALID", Message: "Invitation is expired or already accepted", StatusCode: http.StatusBadRequest}
)

// Budget errors.
var (
	ErrBudgetNotFound    = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrInvalidLimit      = &AppError{Code: "INVALID_LIMIT", Message: "Budget limit must be greater than zero", StatusCode: http.StatusBadRequest}
	ErrInvalidPeriod     = &AppError{Code: "INVALID_PERIOD", Message: "Budget start date must be before its end date", StatusCode: http.StatusBadRequest}
	ErrBudgetHasExpenses = &AppError{Code: "BUDGET_HAS_EXPENSES", Message: "Budget has recorded expenses and cannot be deleted", StatusCode: http.StatusBadRequest}
)

// Category errors.
var (
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this name already exists in the family", StatusCode: http.StatusBadRequest}
	ErrCategoryInUse     = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing expenses", StatusCode: http.StatusBadRequest}
)

// Expense errors.
var (
	ErrExpenseNotFound   = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrInvalidAmount     = &AppError{Code: "INVALID_AMOUNT", Message: "Expense amount must be greater than zero", StatusCode: http.StatusBadRequest}
	ErrDateOutsideBudget = &AppError{Code: "DATE_OUTSIDE_BUDGET", Message: "Expense date must fall within the budget period", StatusCode: http.StatusBadRequest}
	ErrFamilyMismatch    = &AppError{Code: "FAMILY_MISMATCH", Message: "Category and budget must belong to the same family", StatusCode: http.StatusBadRequest}
)

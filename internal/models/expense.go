package models

import "time"

// Expense is a single spending record tied to one user, one category,
// and one budget. Amount is in cents. The expense date must lie within
// its budget's period, and category and budget must belong to the same
// family.
type Expense struct {
	Base
	Description string    `gorm:"not null" json:"description"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	BudgetID    uint      `gorm:"not null;index" json:"budget_id"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Budget   *Budget   `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
}

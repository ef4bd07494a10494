package models

import "time"

// Budget is a named spending limit over a date range, scoped to a
// family. Limit is in cents. Expenses referencing a budget block its
// deletion.
type Budget struct {
	Base
	FamilyID  uint      `gorm:"not null;index" json:"family_id"`
	Name      string    `gorm:"not null" json:"name"`
	Limit     int64     `gorm:"column:limit_cents;not null" json:"limit"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	Family   *Family   `gorm:"foreignKey:FamilyID" json:"family,omitempty"`
	Expenses []Expense `gorm:"foreignKey:BudgetID" json:"expenses,omitempty"`
}

// ContainsDate reports whether d falls within the budget's period,
// bounds inclusive.
func (b *Budget) ContainsDate(d time.Time) bool {
	return !d.Before(b.StartDate) && !d.After(b.EndDate)
}

package models

// Category is a named expense classification, scoped to a family.
// Names are unique within a family (case-sensitive). A category with
// expenses cannot be deleted.
type Category struct {
	Base
	FamilyID    uint   `gorm:"not null;uniqueIndex:idx_categories_family_name" json:"family_id"`
	Name        string `gorm:"not null;uniqueIndex:idx_categories_family_name" json:"name"`
	Description string `json:"description"`

	Family   *Family   `gorm:"foreignKey:FamilyID" json:"family,omitempty"`
	Expenses []Expense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
}

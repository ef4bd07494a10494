package models

// User represents a registered household member. A user belongs to at
// most one family at a time; expenses keep their user reference even
// after the user leaves the family.
type User struct {
	Base
	Username string  `gorm:"uniqueIndex;not null" json:"username"`
	Email    string  `gorm:"uniqueIndex;not null" json:"email"`
	Password string  `gorm:"not null" json:"-"`
	FamilyID *uint   `gorm:"index" json:"family_id,omitempty"`
	Family   *Family `gorm:"foreignKey:FamilyID" json:"family,omitempty"`

	Expenses []Expense `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
}

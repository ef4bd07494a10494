package models

// Family is a group of users sharing budgets and categories.
// Deleting a family cascades to its budgets, categories, and
// invitations; members are detached, not deleted.
type Family struct {
	Base
	Name string `gorm:"not null" json:"name"`

	Members     []User             `gorm:"foreignKey:FamilyID" json:"members,omitempty"`
	Budgets     []Budget           `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE" json:"budgets,omitempty"`
	Categories  []Category         `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	Invitations []FamilyInvitation `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE" json:"invitations,omitempty"`
}

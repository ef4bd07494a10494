package models

import "time"

// FamilyInvitation is a time-limited token allowing an email address to
// join a family. An invitation is valid while it is unaccepted and not
// past its expiry.
type FamilyInvitation struct {
	Base
	FamilyID   uint      `gorm:"not null;index" json:"family_id"`
	Email      string    `gorm:"not null;index" json:"email"`
	Token      string    `gorm:"uniqueIndex;not null" json:"token"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	IsAccepted bool      `gorm:"default:false" json:"is_accepted"`

	Family *Family `gorm:"foreignKey:FamilyID" json:"family,omitempty"`
}

// IsValid reports whether the invitation can still be accepted at t.
func (i *FamilyInvitation) IsValid(t time.Time) bool {
	return !i.IsAccepted && i.ExpiresAt.After(t)
}

package models

import "time"

// Lead statuses as the follow-up pipeline advances.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusEnrolled  = "enrolled"
	LeadStatusClosed    = "closed"
)

// Lead is a prospective-student inquiry captured from the public site.
type Lead struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReferenceID string    `gorm:"size:36;uniqueIndex;not null" json:"reference_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;not null" json:"email"`
	Phone       string    `gorm:"size:32" json:"phone"`
	Skill       string    `gorm:"size:64" json:"skill"`
	Message     string    `gorm:"type:text" json:"message"`
	Status      string    `gorm:"size:16;not null" json:"status"`
	Checksum    string    `gorm:"size:64;index" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package models

import "time"

// AvailabilitySlot is a staff member's declared open time window. Created by
// the staff scheduling flow, deleted once a booked lesson consumes it.
type AvailabilitySlot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StaffID   uint      `gorm:"index;not null" json:"staff_id"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

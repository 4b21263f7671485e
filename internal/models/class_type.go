package models

import "time"

// Duration metrics accepted on class types.
const (
	MetricMinutes = "minutes"
	MetricHours   = "hours"
	MetricDays    = "days"
	MetricWeeks   = "weeks"
	MetricMonths  = "months"
)

// ClassType is a session template defining duration, price and capacity.
// Read-only from the scheduling cluster's perspective.
type ClassType struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Price          float64   `json:"price"`
	MaxStudents    int       `json:"max_students"`
	DurationValue  int       `json:"duration_value"`
	DurationMetric string    `gorm:"size:16" json:"duration_metric"`
	Location       string    `gorm:"size:255" json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DurationMinutes converts the stated duration to minutes. Months use a
// 30-day approximation. Unknown metrics pass the raw value through.
func (t ClassType) DurationMinutes() int {
	switch t.DurationMetric {
	case MetricHours:
		return t.DurationValue * 60
	case MetricDays:
		return t.DurationValue * 1440
	case MetricWeeks:
		return t.DurationValue * 10080
	case MetricMonths:
		return t.DurationValue * 43200
	default:
		return t.DurationValue
	}
}

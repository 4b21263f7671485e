package models

import (
	"time"

	"gorm.io/datatypes"
)

// ClassTypeRef links a course to a class type template and how many sessions of it the course includes.
type ClassTypeRef struct {
	ClassTypeID uint `json:"class_type_id"`
	Quantity    int  `json:"quantity"`
}

// Course is a catalog entry students enroll into. Students must always equal
// the length of StudentIDs; only the enrollment flow mutates the roster.
type Course struct {
	ID             uint                              `gorm:"primaryKey" json:"id"`
	Title          string                            `gorm:"size:255;not null" json:"title"`
	Description    string                            `gorm:"type:text" json:"description"`
	Skill          string                            `gorm:"size:64;index" json:"skill"`
	Level          string                            `gorm:"size:32" json:"level"`
	DurationValue  int                               `json:"duration_value"`
	DurationMetric string                            `gorm:"size:16" json:"duration_metric"`
	InstructorIDs  datatypes.JSONSlice[uint]         `json:"instructor_ids"`
	StudentIDs     datatypes.JSONSlice[uint]         `json:"student_ids"`
	Students       int                               `gorm:"not null;default:0" json:"students"`
	ClassTypes     datatypes.JSONSlice[ClassTypeRef] `gorm:"column:class_types_data" json:"class_types_data"`
	MaterialURL    string                            `gorm:"size:512" json:"material_url"`
	CreatedAt      time.Time                         `json:"created_at"`
	UpdatedAt      time.Time                         `json:"updated_at"`
}

// HasStudent reports whether the given student is already on the roster.
func (c Course) HasStudent(studentID uint) bool {
	for _, id := range c.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

package dto

import (
	"time"

	"github.com/melodia-app/melodia-go-api/internal/models"
)

// CourseCreateRequest carries fields for a new catalog entry.
type CourseCreateRequest struct {
	Title          string                `json:"title" validate:"required,max=255"`
	Description    string                `json:"description"`
	Skill          string                `json:"skill" validate:"required,max=64"`
	Level          string                `json:"level" validate:"max=32"`
	DurationValue  int                   `json:"duration_value" validate:"gte=0"`
	DurationMetric string                `json:"duration_metric" validate:"omitempty,oneof=minutes hours days weeks months"`
	InstructorIDs  []uint                `json:"instructor_ids"`
	ClassTypes     []models.ClassTypeRef `json:"class_types_data"`
}

// CourseResponse is the public view of a course row.
type CourseResponse struct {
	ID             uint                  `json:"id"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Skill          string                `json:"skill"`
	Level          string                `json:"level"`
	DurationValue  int                   `json:"duration_value"`
	DurationMetric string                `json:"duration_metric"`
	InstructorIDs  []uint                `json:"instructor_ids"`
	StudentIDs     []uint                `json:"student_ids"`
	Students       int                   `json:"students"`
	ClassTypes     []models.ClassTypeRef `json:"class_types_data"`
	MaterialURL    string                `json:"material_url,omitempty"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// NewCourseResponse maps a course model to its response shape.
func NewCourseResponse(course models.Course) CourseResponse {
	return CourseResponse{
		ID:             course.ID,
		Title:          course.Title,
		Description:    course.Description,
		Skill:          course.Skill,
		Level:          course.Level,
		DurationValue:  course.DurationValue,
		DurationMetric: course.DurationMetric,
		InstructorIDs:  append([]uint{}, course.InstructorIDs...),
		StudentIDs:     append([]uint{}, course.StudentIDs...),
		Students:       course.Students,
		ClassTypes:     append([]models.ClassTypeRef{}, course.ClassTypes...),
		MaterialURL:    course.MaterialURL,
		UpdatedAt:      course.UpdatedAt,
	}
}

// NewCourseResponseSlice maps a slice of course models.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}
	return responses
}

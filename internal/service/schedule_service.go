package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/melodia-app/melodia-go-api/internal/repository"
)

// DefaultEventDurationMinutes is used whenever a course's class type data
// cannot be resolved.
const DefaultEventDurationMinutes = 60

// ScheduleService computes calendar event metadata from course configuration.
type ScheduleService interface {
	ResolveEventDurationMinutes(ctx context.Context, courseID uint) int
}

type scheduleService struct {
	courses    repository.CourseRepository
	classTypes repository.ClassTypeRepository
	logger     zerolog.Logger
}

// NewScheduleService builds a schedule service.
func NewScheduleService(courses repository.CourseRepository, classTypes repository.ClassTypeRepository, logger zerolog.Logger) ScheduleService {
	return &scheduleService{
		courses:    courses,
		classTypes: classTypes,
		logger:     logger.With().Str("component", "schedule_service").Logger(),
	}
}

// ResolveEventDurationMinutes determines how long a calendar event for the
// course should last, from the first configured class type. Every failure
// path degrades to the 60-minute default; none is surfaced to the caller.
func (s *scheduleService) ResolveEventDurationMinutes(ctx context.Context, courseID uint) int {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("course_id", courseID).Msg("failed to load course, using default event duration")
		return DefaultEventDurationMinutes
	}

	if len(course.ClassTypes) == 0 {
		return DefaultEventDurationMinutes
	}

	ref := course.ClassTypes[0]
	if ref.ClassTypeID == 0 {
		return DefaultEventDurationMinutes
	}

	classType, err := s.classTypes.GetByID(ctx, ref.ClassTypeID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("class_type_id", ref.ClassTypeID).Msg("failed to load class type, using default event duration")
		return DefaultEventDurationMinutes
	}

	minutes := classType.DurationMinutes()
	if minutes <= 0 {
		return DefaultEventDurationMinutes
	}

	return minutes
}

package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/repository"
)

var (
	// ErrCourseNotFound indicates the requested course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrInvalidStudent indicates the student id is missing or malformed.
	ErrInvalidStudent = errors.New("invalid student id")
)

// EnrollmentService adds students to course rosters, keeping the
// denormalized student count equal to the roster length.
type EnrollmentService interface {
	Enroll(ctx context.Context, courseID, studentID uint) (dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	courses repository.CourseRepository
	logger  zerolog.Logger
}

// NewEnrollmentService builds an enrollment service.
func NewEnrollmentService(courses repository.CourseRepository, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		courses: courses,
		logger:  logger.With().Str("component", "enrollment_service").Logger(),
	}
}

// Enroll appends the student to the course roster. Enrolling an already
// enrolled student is a no-op success. The roster and the denormalized count
// are written in a single update.
func (s *enrollmentService) Enroll(ctx context.Context, courseID, studentID uint) (dto.EnrollmentResponse, error) {
	if studentID == 0 {
		return dto.EnrollmentResponse{}, ErrInvalidStudent
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		s.logger.Error().Err(err).Uint("course_id", courseID).Msg("failed to read course roster")
		return dto.EnrollmentResponse{}, err
	}

	if course.HasStudent(studentID) {
		return dto.EnrollmentResponse{
			CourseID:        courseID,
			StudentID:       studentID,
			Students:        course.Students,
			AlreadyEnrolled: true,
		}, nil
	}

	roster := append(course.StudentIDs, studentID)
	if err := s.courses.UpdateRoster(ctx, courseID, roster, len(roster)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		s.logger.Error().Err(err).Uint("course_id", courseID).Uint("student_id", studentID).Msg("failed to update course roster")
		return dto.EnrollmentResponse{}, err
	}

	s.logger.Info().Uint("course_id", courseID).Uint("student_id", studentID).Int("students", len(roster)).Msg("student enrolled")

	return dto.EnrollmentResponse{
		CourseID:  courseID,
		StudentID: studentID,
		Students:  len(roster),
	}, nil
}

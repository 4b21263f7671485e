package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/models"
	"github.com/melodia-app/melodia-go-api/internal/repository"
)

// CourseService exposes catalog use cases.
type CourseService interface {
	List(ctx context.Context, filter repository.CourseFilter) ([]dto.CourseResponse, dto.PaginationMeta, error)
	Get(ctx context.Context, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
}

type courseService struct {
	repo      repository.CourseRepository
	validator *validator.Validate
	events    EventService
	logger    zerolog.Logger
}

// NewCourseService builds a course service.
func NewCourseService(repo repository.CourseRepository, validate *validator.Validate, events EventService, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:      repo,
		validator: validate,
		events:    events,
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) List(ctx context.Context, filter repository.CourseFilter) ([]dto.CourseResponse, dto.PaginationMeta, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(filter.Page, 1),
		PageSize:   filter.PageSize,
		TotalItems: total,
	}
	if filter.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(filter.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.NewCourseResponseSlice(courses), pagination, nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Title:          strings.TrimSpace(payload.Title),
		Description:    payload.Description,
		Skill:          strings.ToLower(strings.TrimSpace(payload.Skill)),
		Level:          strings.ToLower(strings.TrimSpace(payload.Level)),
		DurationValue:  payload.DurationValue,
		DurationMetric: payload.DurationMetric,
		InstructorIDs:  datatypes.NewJSONSlice(payload.InstructorIDs),
		StudentIDs:     datatypes.NewJSONSlice([]uint{}),
		ClassTypes:     datatypes.NewJSONSlice(payload.ClassTypes),
	}

	if err := s.repo.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.events.Publish(ctx, "course", EventCreated, course.ID)
	s.logger.Info().Uint("course_id", course.ID).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

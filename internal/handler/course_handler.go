package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/repository"
	"github.com/melodia-app/melodia-go-api/internal/service"
	"github.com/melodia-app/melodia-go-api/internal/utils"
)

// CourseHandler wires course catalog and enrollment HTTP routes.
type CourseHandler struct {
	courses    service.CourseService
	enrollment service.EnrollmentService
	activity   service.ActivityService
	logger     zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(courses service.CourseService, enrollment service.EnrollmentService, activity service.ActivityService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courses:    courses,
		enrollment: enrollment,
		activity:   activity,
		logger:     logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register attaches course endpoints to the router group.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Post("/:id/enroll", h.enroll)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	filter := repository.CourseFilter{
		Search:   c.Query("search"),
		Skill:    c.Query("skill"),
		Level:    c.Query("level"),
		Sort:     c.Query("sort"),
		Page:     page,
		PageSize: pageSize,
	}

	courses, pagination, err := h.courses.List(requestContext(c), filter)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "courses retrieved", fiber.Map{
		"items":      courses,
		"pagination": pagination,
	})
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	course, err := h.courses.Get(requestContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.courses.Create(requestContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CourseHandler) enroll(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.EnrollmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	ctx := requestContext(c)
	enrollment, err := h.enrollment.Enroll(ctx, courseID, payload.StudentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrInvalidStudent):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
		default:
			return h.internalError(c, err)
		}
	}

	h.activity.Log(ctx, service.ActivityEntry{
		ActorID:   userIDFromContext(c),
		Action:    "course.enrolled",
		Component: "course_detail",
		PagePath:  c.Path(),
		EntityID:  &courseID,
	})

	return utils.SendSuccess(c, "student enrolled", enrollment)
}

func (h *CourseHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}

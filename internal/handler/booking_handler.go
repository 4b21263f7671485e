package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/service"
	"github.com/melodia-app/melodia-go-api/internal/utils"
)

// BookingHandler wires the lesson booking flow.
type BookingHandler struct {
	booking service.BookingService
	logger  zerolog.Logger
}

// NewBookingHandler constructs the handler.
func NewBookingHandler(booking service.BookingService, logger zerolog.Logger) *BookingHandler {
	return &BookingHandler{
		booking: booking,
		logger:  logger.With().Str("component", "booking_handler").Logger(),
	}
}

// Register attaches booking endpoints to the router group.
func (h *BookingHandler) Register(router fiber.Router) {
	router.Post("", h.book)
}

func (h *BookingHandler) book(c *fiber.Ctx) error {
	var payload dto.BookingRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.CourseID == 0 || payload.StudentID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "course_id and student_id are required")
	}

	booking, err := h.booking.BookLesson(requestContext(c), actorFromContext(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrInvalidStudent):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
		default:
			h.logger.Error().Err(err).Msg("booking failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "lesson booked", booking)
}

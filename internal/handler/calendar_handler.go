package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/service"
	"github.com/melodia-app/melodia-go-api/internal/utils"
)

// CalendarHandler serves the availability calendar and its filter state.
type CalendarHandler struct {
	calendar service.CalendarService
	logger   zerolog.Logger
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(calendar service.CalendarService, logger zerolog.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendar: calendar,
		logger:   logger.With().Str("component", "calendar_handler").Logger(),
	}
}

// Register attaches calendar endpoints to the router group.
func (h *CalendarHandler) Register(router fiber.Router) {
	router.Get("", h.view)
	router.Put("/filters", h.updateFilters)
}

func (h *CalendarHandler) view(c *fiber.Ctx) error {
	from, err := parseQueryTime(c, "from")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid from time")
	}
	to, err := parseQueryTime(c, "to")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid to time")
	}

	view, err := h.calendar.View(requestContext(c), sessionIDFromContext(c), from, to)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build calendar view")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "calendar retrieved", view)
}

func (h *CalendarHandler) updateFilters(c *fiber.Ctx) error {
	var state dto.FilterState
	if err := c.BodyParser(&state); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	saved := h.calendar.UpdateFilters(requestContext(c), sessionIDFromContext(c), state)

	return utils.SendSuccess(c, "filters updated", saved)
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/service"
	"github.com/melodia-app/melodia-go-api/internal/utils"
)

// AvailabilityHandler wires availability slot HTTP routes.
type AvailabilityHandler struct {
	availability service.AvailabilityService
	activity     service.ActivityService
	logger       zerolog.Logger
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(availability service.AvailabilityService, activity service.ActivityService, logger zerolog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		activity:     activity,
		logger:       logger.With().Str("component", "availability_handler").Logger(),
	}
}

// Register attaches availability endpoints to the router group.
func (h *AvailabilityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.exists)
	router.Delete("/:id", h.release)
}

func (h *AvailabilityHandler) list(c *fiber.Ctx) error {
	staffIDs := parseQueryIDList(c, "staff_ids")

	from, err := parseQueryTime(c, "from")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid from time")
	}
	to, err := parseQueryTime(c, "to")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid to time")
	}

	slots, err := h.availability.ListSlots(requestContext(c), staffIDs, from, to)
	if err != nil {
		return h.internalError(c, err)
	}
	if slots == nil {
		slots = []dto.AvailabilitySlotResponse{}
	}

	return utils.SendSuccess(c, "availability retrieved", slots)
}

func (h *AvailabilityHandler) create(c *fiber.Ctx) error {
	var payload dto.SlotCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	slot, err := h.availability.CreateSlot(requestContext(c), actorFromContext(c), payload)
	if err != nil {
		if errors.Is(err, service.ErrSlotForbidden) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "availability slot created", slot)
}

func (h *AvailabilityHandler) exists(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	exists, err := h.availability.SlotExists(requestContext(c), id)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "availability slot checked", fiber.Map{"id": id, "exists": exists})
}

func (h *AvailabilityHandler) release(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := requestContext(c)
	if err := h.availability.ReleaseSlot(ctx, actorFromContext(c), id); err != nil {
		if errors.Is(err, service.ErrSlotForbidden) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return h.internalError(c, err)
	}

	h.activity.Log(ctx, service.ActivityEntry{
		ActorID:   userIDFromContext(c),
		Action:    "availability.released",
		Component: "calendar",
		PagePath:  c.Path(),
		EntityID:  &id,
	})

	return utils.SendSuccess(c, "availability slot released", fiber.Map{"id": id})
}

func (h *AvailabilityHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}

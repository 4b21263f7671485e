package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/service"
	"github.com/melodia-app/melodia-go-api/internal/utils"
)

// ActivityHandler records client-side user actions and serves the admin
// audit trail.
type ActivityHandler struct {
	activity service.ActivityService
	logger   zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(activity service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activity: activity,
		logger:   logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches the write endpoint to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Post("", h.record)
}

// RegisterAdmin attaches the audit listing to an admin router group.
func (h *ActivityHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
}

// record is fire-and-forget from the client's perspective: the response is
// accepted regardless of whether the entry was debounced or failed to write.
func (h *ActivityHandler) record(c *fiber.Ctx) error {
	var payload dto.ActivityCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	h.activity.Log(requestContext(c), service.ActivityEntry{
		ActorID:   userIDFromContext(c),
		Action:    payload.Action,
		Component: payload.Component,
		PagePath:  payload.PagePath,
		EntityID:  payload.EntityID,
		Metadata:  payload.Metadata,
	})

	return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "activity recorded", nil)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	actorID, err := parseQueryInt(c, "actor_id")
	if err != nil || actorID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid actor id")
	}

	req := dto.ActivityListRequest{
		Page:      page,
		PageSize:  pageSize,
		ActorID:   uint(actorID),
		Action:    c.Query("action"),
		Component: c.Query("component"),
	}

	response, err := h.activity.List(requestContext(c), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list activity log")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "activity log retrieved", response)
}

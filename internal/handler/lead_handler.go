package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/service"
	"github.com/melodia-app/melodia-go-api/internal/utils"
)

// LeadHandler accepts public trial-lesson inquiries and serves the admin
// lead pipeline.
type LeadHandler struct {
	leads  service.LeadService
	logger zerolog.Logger
}

// NewLeadHandler constructs the handler.
func NewLeadHandler(leads service.LeadService, logger zerolog.Logger) *LeadHandler {
	return &LeadHandler{
		leads:  leads,
		logger: logger.With().Str("component", "lead_handler").Logger(),
	}
}

// Register attaches the public submission endpoint to the router group.
func (h *LeadHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
}

// RegisterAdmin attaches lead management to an admin router group.
func (h *LeadHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
	router.Patch("/:id/status", h.updateStatus)
}

func (h *LeadHandler) submit(c *fiber.Ctx) error {
	var payload dto.LeadRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	lead, err := h.leads.Submit(requestContext(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeadSpam):
			// Answer spam as accepted so bots learn nothing.
			return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "inquiry received", nil)
		case errors.Is(err, service.ErrLeadDuplicate):
			return utils.SendError(c, fiber.StatusConflict, "inquiry already received")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("lead submission failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "inquiry received", lead)
}

func (h *LeadHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	items, pagination, err := h.leads.List(requestContext(c), page, pageSize, c.Query("status"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list leads")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "leads retrieved", fiber.Map{
		"items":      items,
		"pagination": pagination,
	})
}

func (h *LeadHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.leads.UpdateStatus(requestContext(c), id, payload.Status); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	return utils.SendSuccess(c, "lead status updated", fiber.Map{"id": id, "status": payload.Status})
}

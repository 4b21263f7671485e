package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/models"
	"github.com/melodia-app/melodia-go-api/internal/observability"
	"github.com/melodia-app/melodia-go-api/internal/repository"
)

// ErrSlotForbidden indicates the actor may not delete the slot. Distinct
// from transport failures so handlers can answer 403 instead of 500.
var ErrSlotForbidden = errors.New("not allowed to release this availability slot")

// AvailabilityService manages staff availability slots.
type AvailabilityService interface {
	CreateSlot(ctx context.Context, actor Actor, req dto.SlotCreateRequest) (dto.AvailabilitySlotResponse, error)
	ReleaseSlot(ctx context.Context, actor Actor, slotID uint) error
	SlotExists(ctx context.Context, slotID uint) (bool, error)
	ListSlots(ctx context.Context, staffIDs []uint, from, to time.Time) ([]dto.AvailabilitySlotResponse, error)
}

type availabilityService struct {
	repo         repository.AvailabilityRepository
	capabilities *CapabilityService
	logger       zerolog.Logger
}

// NewAvailabilityService builds an availability service.
func NewAvailabilityService(repo repository.AvailabilityRepository, capabilities *CapabilityService, logger zerolog.Logger) AvailabilityService {
	return &availabilityService{
		repo:         repo,
		capabilities: capabilities,
		logger:       logger.With().Str("component", "availability_service").Logger(),
	}
}

func (s *availabilityService) CreateSlot(ctx context.Context, actor Actor, req dto.SlotCreateRequest) (dto.AvailabilitySlotResponse, error) {
	if !s.capabilities.Can(actor.Role, ResourceAvailability, ActionCreate) {
		return dto.AvailabilitySlotResponse{}, ErrSlotForbidden
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return dto.AvailabilitySlotResponse{}, fmt.Errorf("invalid start time: %w", err)
	}

	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return dto.AvailabilitySlotResponse{}, fmt.Errorf("invalid end time: %w", err)
	}

	if !end.After(start) {
		return dto.AvailabilitySlotResponse{}, fmt.Errorf("slot end must be after start")
	}

	slot := models.AvailabilitySlot{
		StaffID:   req.StaffID,
		StartTime: start,
		EndTime:   end,
	}

	if err := s.repo.Create(ctx, &slot); err != nil {
		s.logger.Error().Err(err).Uint("staff_id", req.StaffID).Msg("failed to create availability slot")
		return dto.AvailabilitySlotResponse{}, err
	}

	return dto.NewAvailabilitySlotResponse(slot), nil
}

// ReleaseSlot deletes the slot row. A slot that is already gone counts as
// released. Staff may release their own slots; anyone else needs the
// availability delete capability.
func (s *availabilityService) ReleaseSlot(ctx context.Context, actor Actor, slotID uint) error {
	slot, err := s.repo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.SlotReleases().WithLabelValues("already_gone").Inc()
			return nil
		}
		s.logger.Error().Err(err).Uint("slot_id", slotID).Msg("failed to read availability slot")
		observability.SlotReleases().WithLabelValues("error").Inc()
		return err
	}

	if slot.StaffID != actor.ID && !s.capabilities.Can(actor.Role, ResourceAvailability, ActionDelete) {
		observability.SlotReleases().WithLabelValues("forbidden").Inc()
		return ErrSlotForbidden
	}

	if err := s.repo.Delete(ctx, slotID); err != nil {
		s.logger.Error().Err(err).Uint("slot_id", slotID).Msg("failed to delete availability slot")
		observability.SlotReleases().WithLabelValues("error").Inc()
		return err
	}

	observability.SlotReleases().WithLabelValues("released").Inc()
	s.logger.Info().Uint("slot_id", slotID).Uint("staff_id", slot.StaffID).Msg("availability slot released")

	return nil
}

func (s *availabilityService) SlotExists(ctx context.Context, slotID uint) (bool, error) {
	return s.repo.Exists(ctx, slotID)
}

func (s *availabilityService) ListSlots(ctx context.Context, staffIDs []uint, from, to time.Time) ([]dto.AvailabilitySlotResponse, error) {
	slots, err := s.repo.ListByStaff(ctx, staffIDs, from, to)
	if err != nil {
		return nil, err
	}

	return dto.NewAvailabilitySlotResponseSlice(slots), nil
}

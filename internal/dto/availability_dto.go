package dto

import (
	"time"

	"github.com/melodia-app/melodia-go-api/internal/models"
)

// SlotCreateRequest declares a new open time window for a staff member.
type SlotCreateRequest struct {
	StaffID   uint   `json:"staff_id" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// AvailabilitySlotResponse is the public view of an availability slot.
type AvailabilitySlotResponse struct {
	ID        uint      `json:"id"`
	StaffID   uint      `json:"staff_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// NewAvailabilitySlotResponse maps a slot model to its response shape.
func NewAvailabilitySlotResponse(slot models.AvailabilitySlot) AvailabilitySlotResponse {
	return AvailabilitySlotResponse{
		ID:        slot.ID,
		StaffID:   slot.StaffID,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	}
}

// NewAvailabilitySlotResponseSlice maps a slice of slot models.
func NewAvailabilitySlotResponseSlice(slots []models.AvailabilitySlot) []AvailabilitySlotResponse {
	responses := make([]AvailabilitySlotResponse, 0, len(slots))
	for _, slot := range slots {
		responses = append(responses, NewAvailabilitySlotResponse(slot))
	}
	return responses
}

package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/melodia-app/melodia-go-api/internal/dto"
)

// CalendarService assembles the calendar view for a session's filter
// selection: persisted filters, the resolved staff set, their open slots and
// the event duration when a single course is selected.
type CalendarService interface {
	View(ctx context.Context, sessionID string, from, to time.Time) (dto.CalendarResponse, error)
	UpdateFilters(ctx context.Context, sessionID string, state dto.FilterState) dto.FilterState
}

type calendarService struct {
	filters      FilterStateStore
	resolver     *StaffResolver
	availability AvailabilityService
	schedule     ScheduleService
	logger       zerolog.Logger
}

// NewCalendarService builds a calendar service.
func NewCalendarService(filters FilterStateStore, resolver *StaffResolver, availability AvailabilityService, schedule ScheduleService, logger zerolog.Logger) CalendarService {
	return &calendarService{
		filters:      filters,
		resolver:     resolver,
		availability: availability,
		schedule:     schedule,
		logger:       logger.With().Str("component", "calendar_service").Logger(),
	}
}

func (s *calendarService) View(ctx context.Context, sessionID string, from, to time.Time) (dto.CalendarResponse, error) {
	state := s.filters.Load(ctx, sessionID, dto.EmptyFilterState())
	staffIDs := s.resolver.Resolve(ctx, state)

	slots, err := s.availability.ListSlots(ctx, staffIDs, from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list availability for calendar")
		return dto.CalendarResponse{}, err
	}
	if slots == nil {
		slots = []dto.AvailabilitySlotResponse{}
	}

	duration := DefaultEventDurationMinutes
	if state.FilterType == FilterTypeCourse && state.SelectedFilter != 0 {
		duration = s.schedule.ResolveEventDurationMinutes(ctx, state.SelectedFilter)
	}

	return dto.CalendarResponse{
		Filters:              state,
		StaffIDs:             staffIDs,
		Slots:                slots,
		EventDurationMinutes: duration,
	}, nil
}

func (s *calendarService) UpdateFilters(ctx context.Context, sessionID string, state dto.FilterState) dto.FilterState {
	normalized := normalizeFilterState(state)
	s.filters.Save(ctx, sessionID, normalized)
	return normalized
}

package dto

// FilterState is the calendar filter selection persisted per browser session.
// An empty FilterType means no staff resolution is attempted.
type FilterState struct {
	FilterType      string `json:"filter_type"`
	SelectedFilter  uint   `json:"selected_filter"`
	SelectedFilters []uint `json:"selected_filters"`
}

// EmptyFilterState returns the all-empty fallback selection.
func EmptyFilterState() FilterState {
	return FilterState{SelectedFilters: []uint{}}
}

// CalendarResponse aggregates everything the calendar view needs for the
// current filter selection.
type CalendarResponse struct {
	Filters              FilterState                `json:"filters"`
	StaffIDs             []uint                     `json:"staff_ids"`
	Slots                []AvailabilitySlotResponse `json:"slots"`
	EventDurationMinutes int                        `json:"event_duration_minutes"`
}

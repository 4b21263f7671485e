package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/models"
)

func newCalendarFixture(t *testing.T) (CalendarService, *memoryAvailabilityRepo) {
	t.Helper()

	store, _ := newTestFilterStore(t)

	course := models.Course{
		ID:            1,
		Title:         "Jazz piano",
		InstructorIDs: datatypes.NewJSONSlice([]uint{5}),
		ClassTypes:    datatypes.NewJSONSlice([]models.ClassTypeRef{{ClassTypeID: 10, Quantity: 1}}),
	}
	courses := newMemoryCourseRepo(course)
	classTypes := newMemoryClassTypeRepo(models.ClassType{ID: 10, DurationValue: 45, DurationMetric: models.MetricMinutes})

	availability := newMemoryAvailabilityRepo(slotAt(1, 5, time.Now().Add(time.Hour).UTC()))

	resolver := NewStaffResolver(courses, &stubSkillRepo{}, zerolog.Nop())
	availabilitySvc := NewAvailabilityService(availability, NewCapabilityService(), zerolog.Nop())
	schedule := NewScheduleService(courses, classTypes, zerolog.Nop())

	return NewCalendarService(store, resolver, availabilitySvc, schedule, zerolog.Nop()), availability
}

func TestCalendarViewDefaultsToEmptySelection(t *testing.T) {
	svc, _ := newCalendarFixture(t)

	view, err := svc.View(context.Background(), "fresh-session", time.Now(), time.Now().Add(48*time.Hour))
	require.NoError(t, err)

	require.Equal(t, dto.EmptyFilterState(), view.Filters)
	require.Empty(t, view.StaffIDs)
	require.Empty(t, view.Slots)
	require.Equal(t, DefaultEventDurationMinutes, view.EventDurationMinutes)
}

func TestCalendarViewResolvesCourseSelection(t *testing.T) {
	svc, _ := newCalendarFixture(t)
	ctx := context.Background()

	saved := svc.UpdateFilters(ctx, "session-a", dto.FilterState{
		FilterType:     FilterTypeCourse,
		SelectedFilter: 1,
	})
	require.NotNil(t, saved.SelectedFilters)

	view, err := svc.View(ctx, "session-a", time.Now(), time.Now().Add(48*time.Hour))
	require.NoError(t, err)

	require.Equal(t, []uint{5}, view.StaffIDs)
	require.Len(t, view.Slots, 1)
	require.Equal(t, 45, view.EventDurationMinutes)
}

func TestCalendarViewSurvivesNavigationPerSession(t *testing.T) {
	svc, _ := newCalendarFixture(t)
	ctx := context.Background()

	svc.UpdateFilters(ctx, "session-a", dto.FilterState{FilterType: FilterTypeTeacher, SelectedFilter: 5})

	viewA, err := svc.View(ctx, "session-a", time.Now(), time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	require.Equal(t, FilterTypeTeacher, viewA.Filters.FilterType)
	require.Equal(t, []uint{5}, viewA.StaffIDs)

	viewB, err := svc.View(ctx, "session-b", time.Now(), time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	require.Empty(t, viewB.Filters.FilterType)
	require.Empty(t, viewB.StaffIDs)
}

func TestCalendarViewReleasedSlotDisappears(t *testing.T) {
	svc, availability := newCalendarFixture(t)
	ctx := context.Background()

	svc.UpdateFilters(ctx, "session-a", dto.FilterState{FilterType: FilterTypeTeacher, SelectedFilter: 5})

	before, err := svc.View(ctx, "session-a", time.Now(), time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	require.Len(t, before.Slots, 1)

	delete(availability.slots, 1)

	after, err := svc.View(ctx, "session-a", time.Now(), time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	require.Empty(t, after.Slots)
}

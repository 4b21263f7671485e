package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/models"
	"github.com/melodia-app/melodia-go-api/internal/repository"
)

type recordingEvents struct {
	published []dto.ChangeEvent
}

func (r *recordingEvents) Publish(ctx context.Context, resource, action string, entityID uint) {
	r.published = append(r.published, dto.ChangeEvent{Resource: resource, Action: action, EntityID: entityID})
}

func (r *recordingEvents) Subscribe() (<-chan dto.ChangeEvent, func()) {
	ch := make(chan dto.ChangeEvent)
	return ch, func() { close(ch) }
}

func (r *recordingEvents) Start(ctx context.Context) {}

type failingAvailabilityRepo struct {
	*memoryAvailabilityRepo
	deleteErr error
}

func (f *failingAvailabilityRepo) Delete(ctx context.Context, id uint) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.memoryAvailabilityRepo.Delete(ctx, id)
}

func newBookingFixture(t *testing.T, availability *memoryAvailabilityRepo, deleteErr error) (BookingService, *memoryCourseRepo, *memoryActivityRepo, *recordingEvents) {
	t.Helper()

	courses := newMemoryCourseRepo(models.Course{
		ID:         1,
		Title:      "Jazz piano",
		ClassTypes: datatypes.NewJSONSlice([]models.ClassTypeRef{{ClassTypeID: 10, Quantity: 1}}),
	})
	classTypes := newMemoryClassTypeRepo(models.ClassType{ID: 10, DurationValue: 2, DurationMetric: models.MetricHours})

	var availRepo repository.AvailabilityRepository = availability
	if deleteErr != nil {
		availRepo = &failingAvailabilityRepo{memoryAvailabilityRepo: availability, deleteErr: deleteErr}
	}

	activityRepo := &memoryActivityRepo{}
	events := &recordingEvents{}

	schedule := NewScheduleService(courses, classTypes, zerolog.Nop())
	enrollment := NewEnrollmentService(courses, zerolog.Nop())
	availabilitySvc := NewAvailabilityService(availRepo, NewCapabilityService(), zerolog.Nop())
	activity := NewActivityService(activityRepo, NewActivityDeduper(2000*time.Millisecond, 100), zerolog.Nop())

	return NewBookingService(schedule, enrollment, availabilitySvc, activity, events, zerolog.Nop()), courses, activityRepo, events
}

func TestBookLessonFullFlow(t *testing.T) {
	availability := newMemoryAvailabilityRepo(slotAt(4, 5, time.Now()))
	svc, courses, activityRepo, events := newBookingFixture(t, availability, nil)

	resp, err := svc.BookLesson(context.Background(), Actor{ID: 5, Role: "teacher"}, dto.BookingRequest{
		CourseID:  1,
		StudentID: 30,
		SlotID:    4,
	})
	require.NoError(t, err)

	require.Equal(t, 120, resp.DurationMinutes)
	require.True(t, resp.SlotReleased)
	require.False(t, resp.Enrollment.AlreadyEnrolled)
	require.Equal(t, 1, resp.Enrollment.Students)

	stored := courses.courses[1]
	require.Equal(t, []uint{30}, []uint(stored.StudentIDs))

	_, slotLeft := availability.slots[4]
	require.False(t, slotLeft)

	require.Len(t, activityRepo.entries, 1)
	require.Equal(t, "course.enrolled", activityRepo.entries[0].Action)

	require.Len(t, events.published, 2)
	require.Equal(t, "course", events.published[0].Resource)
	require.Equal(t, EventUpdated, events.published[0].Action)
	require.Equal(t, "availability", events.published[1].Resource)
	require.Equal(t, EventDeleted, events.published[1].Action)
}

func TestBookLessonEnrollmentFailureAborts(t *testing.T) {
	availability := newMemoryAvailabilityRepo(slotAt(4, 5, time.Now()))
	svc, _, activityRepo, events := newBookingFixture(t, availability, nil)

	_, err := svc.BookLesson(context.Background(), Actor{ID: 5, Role: "teacher"}, dto.BookingRequest{
		CourseID:  99,
		StudentID: 30,
		SlotID:    4,
	})
	require.ErrorIs(t, err, ErrCourseNotFound)

	_, slotLeft := availability.slots[4]
	require.True(t, slotLeft, "slot must survive a failed enrollment")
	require.Empty(t, activityRepo.entries)
	require.Empty(t, events.published)
}

func TestBookLessonSlotReleaseIsBestEffort(t *testing.T) {
	availability := newMemoryAvailabilityRepo(slotAt(4, 5, time.Now()))
	svc, courses, _, events := newBookingFixture(t, availability, errors.New("connection reset"))

	resp, err := svc.BookLesson(context.Background(), Actor{ID: 5, Role: "teacher"}, dto.BookingRequest{
		CourseID:  1,
		StudentID: 30,
		SlotID:    4,
	})
	require.NoError(t, err, "a failed slot release must not undo the enrollment")
	require.False(t, resp.SlotReleased)

	stored := courses.courses[1]
	require.Equal(t, []uint{30}, []uint(stored.StudentIDs))

	require.Len(t, events.published, 1)
	require.Equal(t, "course", events.published[0].Resource)
}

func TestBookLessonWithoutSlot(t *testing.T) {
	svc, _, _, events := newBookingFixture(t, newMemoryAvailabilityRepo(), nil)

	resp, err := svc.BookLesson(context.Background(), Actor{ID: 5, Role: "teacher"}, dto.BookingRequest{
		CourseID:  1,
		StudentID: 30,
	})
	require.NoError(t, err)
	require.False(t, resp.SlotReleased)
	require.Len(t, events.published, 1)
}

func TestBookLessonRepeatDoesNotRepublish(t *testing.T) {
	svc, _, _, events := newBookingFixture(t, newMemoryAvailabilityRepo(), nil)
	req := dto.BookingRequest{CourseID: 1, StudentID: 30}
	actor := Actor{ID: 5, Role: "teacher"}

	_, err := svc.BookLesson(context.Background(), actor, req)
	require.NoError(t, err)

	resp, err := svc.BookLesson(context.Background(), actor, req)
	require.NoError(t, err)
	require.True(t, resp.Enrollment.AlreadyEnrolled)
	require.Len(t, events.published, 1, "an idempotent repeat should not publish a change event")
}

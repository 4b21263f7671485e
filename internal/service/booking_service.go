package service

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/observability"
)

// BookingService coordinates the multi-step lesson booking flow: resolve the
// event duration, enroll the student, consume the claimed availability slot
// and record the audit trail. Steps after the enrollment are best-effort;
// there is no rollback on partial failure.
type BookingService interface {
	BookLesson(ctx context.Context, actor Actor, req dto.BookingRequest) (dto.BookingResponse, error)
}

type bookingService struct {
	schedule     ScheduleService
	enrollment   EnrollmentService
	availability AvailabilityService
	activity     ActivityService
	events       EventService
	logger       zerolog.Logger
	tracer       trace.Tracer
}

// NewBookingService builds a booking service.
func NewBookingService(schedule ScheduleService, enrollment EnrollmentService, availability AvailabilityService, activity ActivityService, events EventService, logger zerolog.Logger) BookingService {
	return &bookingService{
		schedule:     schedule,
		enrollment:   enrollment,
		availability: availability,
		activity:     activity,
		events:       events,
		logger:       logger.With().Str("component", "booking_service").Logger(),
		tracer:       otel.Tracer("github.com/melodia-app/melodia-go-api/internal/service/booking"),
	}
}

func (s *bookingService) BookLesson(ctx context.Context, actor Actor, req dto.BookingRequest) (dto.BookingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "booking.lesson", trace.WithAttributes(
		attribute.Int64("booking.course_id", int64(req.CourseID)),
		attribute.Int64("booking.student_id", int64(req.StudentID)),
		attribute.Int64("booking.slot_id", int64(req.SlotID)),
	))
	defer span.End()

	duration := s.schedule.ResolveEventDurationMinutes(ctx, req.CourseID)
	span.SetAttributes(attribute.Int("booking.duration_minutes", duration))

	enrollment, err := s.enrollment.Enroll(ctx, req.CourseID, req.StudentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrollment failed")
		observability.Bookings().WithLabelValues("error").Inc()
		return dto.BookingResponse{}, err
	}

	slotReleased := false
	if req.SlotID != 0 {
		if err := s.availability.ReleaseSlot(ctx, actor, req.SlotID); err != nil {
			span.RecordError(err)
			s.logger.Warn().Err(err).Uint("slot_id", req.SlotID).Msg("enrolled but failed to release claimed slot")
		} else {
			slotReleased = true
		}
	}

	courseID := req.CourseID
	s.activity.Log(ctx, ActivityEntry{
		ActorID:   actor.ID,
		Action:    "course.enrolled",
		Component: "booking",
		EntityID:  &courseID,
		Metadata: map[string]interface{}{
			"student_id":       req.StudentID,
			"slot_id":          req.SlotID,
			"already_enrolled": enrollment.AlreadyEnrolled,
		},
	})

	if !enrollment.AlreadyEnrolled {
		s.events.Publish(ctx, "course", EventUpdated, req.CourseID)
	}
	if slotReleased {
		s.events.Publish(ctx, "availability", EventDeleted, req.SlotID)
	}

	observability.Bookings().WithLabelValues("booked").Inc()
	span.SetStatus(codes.Ok, "booked")

	return dto.BookingResponse{
		Enrollment:      enrollment,
		DurationMinutes: duration,
		SlotReleased:    slotReleased,
	}, nil
}

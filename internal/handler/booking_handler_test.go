package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/handler"
	"github.com/melodia-app/melodia-go-api/internal/service"
)

type stubBookingService struct {
	actor    service.Actor
	request  dto.BookingRequest
	response dto.BookingResponse
	err      error
}

func (s *stubBookingService) BookLesson(ctx context.Context, actor service.Actor, req dto.BookingRequest) (dto.BookingResponse, error) {
	s.actor = actor
	s.request = req
	if s.err != nil {
		return dto.BookingResponse{}, s.err
	}
	return s.response, nil
}

func newBookingTestApp(stub *stubBookingService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(5))
		c.Locals("user_role", "teacher")
		return c.Next()
	})
	h := handler.NewBookingHandler(stub, zerolog.Nop())
	h.Register(app.Group("/api/v1/bookings"))
	return app
}

func postBooking(t *testing.T, app *fiber.App, payload dto.BookingRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestBookingCreated(t *testing.T) {
	stub := &stubBookingService{response: dto.BookingResponse{
		Enrollment:      dto.EnrollmentResponse{CourseID: 1, StudentID: 30, Students: 4},
		DurationMinutes: 120,
		SlotReleased:    true,
	}}
	app := newBookingTestApp(stub)

	resp := postBooking(t, app, dto.BookingRequest{CourseID: 1, StudentID: 30, SlotID: 4})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.Equal(t, uint(5), stub.actor.ID)
	require.Equal(t, "teacher", stub.actor.Role)
	require.Equal(t, uint(4), stub.request.SlotID)

	var payload struct {
		Success bool                `json:"success"`
		Data    dto.BookingResponse `json:"data"`
	}
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Equal(t, 120, payload.Data.DurationMinutes)
	require.True(t, payload.Data.SlotReleased)
}

func TestBookingRequiresIdentifiers(t *testing.T) {
	app := newBookingTestApp(&stubBookingService{})

	resp := postBooking(t, app, dto.BookingRequest{CourseID: 1})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = postBooking(t, app, dto.BookingRequest{StudentID: 30})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBookingUnknownCourse(t *testing.T) {
	app := newBookingTestApp(&stubBookingService{err: service.ErrCourseNotFound})

	resp := postBooking(t, app, dto.BookingRequest{CourseID: 9, StudentID: 30})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/handler"
)

type stubCalendarService struct {
	viewedSession  string
	updatedSession string
	savedState     dto.FilterState
	response       dto.CalendarResponse
}

func (s *stubCalendarService) View(ctx context.Context, sessionID string, from, to time.Time) (dto.CalendarResponse, error) {
	s.viewedSession = sessionID
	return s.response, nil
}

func (s *stubCalendarService) UpdateFilters(ctx context.Context, sessionID string, state dto.FilterState) dto.FilterState {
	s.updatedSession = sessionID
	s.savedState = state
	return state
}

func newCalendarTestApp(stub *stubCalendarService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(3))
		c.Locals("user_role", "teacher")
		return c.Next()
	})
	h := handler.NewCalendarHandler(stub, zerolog.Nop())
	h.Register(app.Group("/api/v1/calendar"))
	return app
}

func TestCalendarViewUsesSessionHeader(t *testing.T) {
	stub := &stubCalendarService{response: dto.CalendarResponse{
		Filters:              dto.EmptyFilterState(),
		StaffIDs:             []uint{5},
		Slots:                []dto.AvailabilitySlotResponse{},
		EventDurationMinutes: 60,
	}}
	app := newCalendarTestApp(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar", nil)
	req.Header.Set("X-Session-ID", "tab-42")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "tab-42", stub.viewedSession)

	var payload struct {
		Success bool                 `json:"success"`
		Data    dto.CalendarResponse `json:"data"`
	}
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Equal(t, []uint{5}, payload.Data.StaffIDs)
	require.Equal(t, 60, payload.Data.EventDurationMinutes)
}

func TestCalendarViewFallsBackToUserSession(t *testing.T) {
	stub := &stubCalendarService{}
	app := newCalendarTestApp(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "3", stub.viewedSession)
}

func TestCalendarViewRejectsBadTimeRange(t *testing.T) {
	app := newCalendarTestApp(&stubCalendarService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar?from=tomorrow", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCalendarUpdateFilters(t *testing.T) {
	stub := &stubCalendarService{}
	app := newCalendarTestApp(stub)

	body, err := json.Marshal(dto.FilterState{FilterType: "course", SelectedFilter: 7})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/calendar/filters", bytes.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	req.Header.Set("X-Session-ID", "tab-42")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, "tab-42", stub.updatedSession)
	require.Equal(t, "course", stub.savedState.FilterType)
	require.Equal(t, uint(7), stub.savedState.SelectedFilter)
}

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/melodia-app/melodia-go-api/internal/dto"
)

func newTestFilterStore(t *testing.T) (FilterStateStore, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	return NewFilterStateStore(client, time.Hour, zerolog.Nop()), mini
}

func TestFilterStateRoundTrip(t *testing.T) {
	store, _ := newTestFilterStore(t)
	ctx := context.Background()

	state := dto.FilterState{
		FilterType:      FilterTypeCourse,
		SelectedFilter:  3,
		SelectedFilters: []uint{3, 5},
	}
	store.Save(ctx, "session-a", state)

	loaded := store.Load(ctx, "session-a", dto.EmptyFilterState())
	require.Equal(t, state, loaded)
}

func TestFilterStateIsSessionScoped(t *testing.T) {
	store, _ := newTestFilterStore(t)
	ctx := context.Background()

	store.Save(ctx, "session-a", dto.FilterState{FilterType: FilterTypeSkill, SelectedFilter: 2})

	loaded := store.Load(ctx, "session-b", dto.EmptyFilterState())
	require.Equal(t, dto.EmptyFilterState(), loaded)
}

func TestFilterStateMissingFallsBackToDefaults(t *testing.T) {
	store, _ := newTestFilterStore(t)

	defaults := dto.FilterState{FilterType: FilterTypeTeacher, SelectedFilter: 1}
	loaded := store.Load(context.Background(), "unknown", defaults)

	require.Equal(t, FilterTypeTeacher, loaded.FilterType)
	require.Equal(t, uint(1), loaded.SelectedFilter)
	require.NotNil(t, loaded.SelectedFilters)
}

func TestFilterStateCorruptBlobFallsBackToDefaults(t *testing.T) {
	store, mini := newTestFilterStore(t)

	require.NoError(t, mini.Set("calendar:filters:session-a", "{not json"))

	loaded := store.Load(context.Background(), "session-a", dto.EmptyFilterState())
	require.Equal(t, dto.EmptyFilterState(), loaded)
}

func TestFilterStateStoredUnderSessionKey(t *testing.T) {
	store, mini := newTestFilterStore(t)

	store.Save(context.Background(), "abc", dto.FilterState{FilterType: FilterTypeStaff, SelectedFilters: []uint{4}})

	blob, err := mini.Get("calendar:filters:abc")
	require.NoError(t, err)

	var stored dto.FilterState
	require.NoError(t, json.Unmarshal([]byte(blob), &stored))
	require.Equal(t, FilterTypeStaff, stored.FilterType)
	require.Equal(t, []uint{4}, stored.SelectedFilters)
}

func TestFilterStateNilClientIsSafe(t *testing.T) {
	store := NewFilterStateStore(nil, time.Hour, zerolog.Nop())
	ctx := context.Background()

	store.Save(ctx, "session-a", dto.FilterState{FilterType: FilterTypeCourse})
	loaded := store.Load(ctx, "session-a", dto.EmptyFilterState())
	require.Equal(t, dto.EmptyFilterState(), loaded)
}

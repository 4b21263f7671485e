package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/melodia-app/melodia-go-api/internal/dto"
)

const filterStateKeyPrefix = "calendar:filters:"

// FilterStateStore persists the calendar filter selection per browser
// session so the view survives navigation. Persistence failures never break
// the in-memory state: loads fall back to defaults, saves are swallowed.
type FilterStateStore interface {
	Load(ctx context.Context, sessionID string, defaults dto.FilterState) dto.FilterState
	Save(ctx context.Context, sessionID string, state dto.FilterState)
}

type filterStateStore struct {
	cache  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewFilterStateStore builds a Redis-backed filter state store.
func NewFilterStateStore(cache *redis.Client, ttl time.Duration, logger zerolog.Logger) FilterStateStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &filterStateStore{
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "filter_state_store").Logger(),
	}
}

func (s *filterStateStore) Load(ctx context.Context, sessionID string, defaults dto.FilterState) dto.FilterState {
	fallback := normalizeFilterState(defaults)

	if s.cache == nil || sessionID == "" {
		return fallback
	}

	blob, err := s.cache.Get(ctx, filterStateKey(sessionID)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read filter state, using defaults")
		}
		return fallback
	}

	var state dto.FilterState
	if err := json.Unmarshal([]byte(blob), &state); err != nil {
		s.logger.Warn().Err(err).Msg("stored filter state unparsable, using defaults")
		return fallback
	}

	return normalizeFilterState(state)
}

func (s *filterStateStore) Save(ctx context.Context, sessionID string, state dto.FilterState) {
	if s.cache == nil || sessionID == "" {
		return
	}

	payload, err := json.Marshal(normalizeFilterState(state))
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to serialize filter state")
		return
	}

	if err := s.cache.Set(ctx, filterStateKey(sessionID), payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist filter state")
	}
}

func filterStateKey(sessionID string) string {
	return fmt.Sprintf("%s%s", filterStateKeyPrefix, sessionID)
}

func normalizeFilterState(state dto.FilterState) dto.FilterState {
	if state.SelectedFilters == nil {
		state.SelectedFilters = []uint{}
	}
	return state
}

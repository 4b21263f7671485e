package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/models"
	"github.com/melodia-app/melodia-go-api/internal/repository"
)

// ActivityEntry captures the details of one user action.
type ActivityEntry struct {
	ActorID   uint
	Action    string
	Component string
	PagePath  string
	EntityID  *uint
	Metadata  map[string]interface{}
}

// ActivityService writes a debounced audit trail of user actions and serves
// the admin listing.
type ActivityService interface {
	// Log is fire-and-forget: anonymous or debounced entries are skipped,
	// insert failures are logged and never surface to the caller.
	Log(ctx context.Context, entry ActivityEntry)
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
}

type activityService struct {
	repo    repository.ActivityLogRepository
	deduper *ActivityDeduper
	logger  zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, deduper *ActivityDeduper, logger zerolog.Logger) ActivityService {
	if deduper == nil {
		deduper = NewActivityDeduper(ActivityDebounceWindow, ActivityDeduperMaxEntries)
	}
	return &activityService{
		repo:    repo,
		deduper: deduper,
		logger:  logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Log(ctx context.Context, entry ActivityEntry) {
	if entry.ActorID == 0 {
		return
	}

	action := strings.ToLower(strings.TrimSpace(entry.Action))
	if action == "" {
		return
	}

	if !s.deduper.ShouldRecord(dedupKey(entry.ActorID, action, entry.Component, entry.EntityID)) {
		return
	}

	model := models.ActivityLog{
		ActorID:   entry.ActorID,
		Action:    action,
		Component: strings.TrimSpace(entry.Component),
		PagePath:  strings.TrimSpace(entry.PagePath),
		EntityID:  entry.EntityID,
		Metadata:  sanitizeMetadata(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", action).Uint("actor_id", entry.ActorID).Msg("failed to persist activity log")
	}
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	filter := repository.ActivityLogFilter{
		Page:      req.Page,
		PageSize:  req.PageSize,
		Action:    strings.TrimSpace(req.Action),
		Component: strings.TrimSpace(req.Component),
	}
	if req.ActorID > 0 {
		filter.ActorID = &req.ActorID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	responses := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityResponse(entry))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.ActivityListResponse{Items: responses, Pagination: pagination}, nil
}

func dedupKey(actorID uint, action, component string, entityID *uint) string {
	entity := ""
	if entityID != nil {
		entity = fmt.Sprintf("%d", *entityID)
	}
	return fmt.Sprintf("%d|%s|%s|%s", actorID, action, strings.TrimSpace(component), entity)
}

func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "email") || strings.Contains(lower, "token") || strings.Contains(lower, "password") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

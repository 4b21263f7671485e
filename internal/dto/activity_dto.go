package dto

import (
	"time"

	"github.com/melodia-app/melodia-go-api/internal/models"
)

// PaginationMeta describes the page window of a list response.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// ActivityCreateRequest records a user action from a client surface.
type ActivityCreateRequest struct {
	Action    string                 `json:"action" validate:"required,max=64"`
	Component string                 `json:"component" validate:"max=64"`
	PagePath  string                 `json:"page_path" validate:"max=255"`
	EntityID  *uint                  `json:"entity_id"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// ActivityListRequest narrows the admin audit trail listing.
type ActivityListRequest struct {
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	ActorID   uint   `json:"actor_id"`
	Action    string `json:"action"`
	Component string `json:"component"`
}

// ActivityResponse is the public view of an audit entry.
type ActivityResponse struct {
	ID        uint                   `json:"id"`
	ActorID   uint                   `json:"actor_id"`
	Action    string                 `json:"action"`
	Component string                 `json:"component"`
	PagePath  string                 `json:"page_path"`
	EntityID  *uint                  `json:"entity_id"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

// ActivityListResponse wraps a page of audit entries.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewActivityResponse maps an activity log model to its response shape.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:        entry.ID,
		ActorID:   entry.ActorID,
		Action:    entry.Action,
		Component: entry.Component,
		PagePath:  entry.PagePath,
		EntityID:  entry.EntityID,
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt,
	}
}

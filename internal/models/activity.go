package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is an append-only audit record of user actions.
type ActivityLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ActorID   uint              `gorm:"not null;index" json:"actor_id"`
	Action    string            `gorm:"size:64;not null" json:"action"`
	Component string            `gorm:"size:64" json:"component"`
	PagePath  string            `gorm:"size:255" json:"page_path"`
	EntityID  *uint             `json:"entity_id"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

package dto

import (
	"time"

	"github.com/melodia-app/melodia-go-api/internal/models"
)

// LeadRequest is the public trial-lesson inquiry form. Website is a honeypot
// field that must stay empty.
type LeadRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=32"`
	Skill    string `json:"skill" validate:"max=64"`
	Message  string `json:"message" validate:"required,max=4000"`
	Honeypot string `json:"website"`
}

// LeadResponse acknowledges an inquiry submission.
type LeadResponse struct {
	ReferenceID string `json:"reference_id"`
	Status      string `json:"status"`
}

// LeadListItem is the admin view of a captured lead.
type LeadListItem struct {
	ID          uint      `json:"id"`
	ReferenceID string    `json:"reference_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Skill       string    `json:"skill"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewLeadListItem maps a lead model to its admin list shape.
func NewLeadListItem(lead models.Lead) LeadListItem {
	return LeadListItem{
		ID:          lead.ID,
		ReferenceID: lead.ReferenceID,
		Name:        lead.Name,
		Email:       lead.Email,
		Phone:       lead.Phone,
		Skill:       lead.Skill,
		Message:     lead.Message,
		Status:      lead.Status,
		CreatedAt:   lead.CreatedAt,
	}
}

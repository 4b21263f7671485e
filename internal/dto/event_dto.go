package dto

import "time"

// ChangeEvent notifies subscribed clients that a table they render changed
// and should be re-fetched.
type ChangeEvent struct {
	Resource string    `json:"resource"`
	Action   string    `json:"action"`
	EntityID uint      `json:"entity_id"`
	SentAt   time.Time `json:"sent_at"`
}

// UploadResponse reports where an uploaded course material landed.
type UploadResponse struct {
	CourseID uint   `json:"course_id"`
	FileURL  string `json:"file_url"`
	MimeType string `json:"mime_type"`
}

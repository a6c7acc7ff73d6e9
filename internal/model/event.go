package model

import (
	"encoding/json"
	"time"
)

// TriggerEvent is the database change notification that invokes the pipeline.
type TriggerEvent struct {
	Type      string             `json:"type"`
	Table     string             `json:"table"`
	Schema    string             `json:"schema"`
	Record    *TestimonialRecord `json:"record"`
	OldRecord json.RawMessage    `json:"old_record"`
}

// TestimonialRecord holds the newly inserted row. Optional columns come in as
// pointers so that absence is distinguishable from the zero value.
type TestimonialRecord struct {
	ID              string   `json:"id"`
	SpaceID         string   `json:"space_id"`
	RespondentName  *string  `json:"respondent_name"`
	RespondentEmail *string  `json:"respondent_email"`
	Content         *string  `json:"content"`
	Rating          *float64 `json:"rating"`
	Type            string   `json:"type"`
	CreatedAt       string   `json:"created_at"`
}

// CanonicalPayload is the platform-agnostic notification body, built once per
// trigger and shared across all endpoint deliveries.
type CanonicalPayload struct {
	Event     string      `json:"event"`
	Timestamp string      `json:"timestamp"`
	Data      PayloadData `json:"data"`
}

type PayloadData struct {
	ID              string   `json:"id"`
	SpaceID         string   `json:"space_id"`
	RespondentName  string   `json:"respondent_name"`
	RespondentEmail string   `json:"respondent_email"`
	Content         string   `json:"content"`
	Rating          *float64 `json:"rating"`
	Type            string   `json:"type"`
	CreatedAt       string   `json:"created_at"`
}

// NewCanonicalPayload projects a record into the canonical shape. Defaults
// are applied here exactly once; formatters never see missing name, email or
// content. Rating stays nullable on purpose.
func NewCanonicalPayload(rec *TestimonialRecord, at time.Time) CanonicalPayload {
	name := "Anonymous"
	if rec.RespondentName != nil && *rec.RespondentName != "" {
		name = *rec.RespondentName
	}
	email := ""
	if rec.RespondentEmail != nil {
		email = *rec.RespondentEmail
	}
	content := ""
	if rec.Content != nil {
		content = *rec.Content
	}
	return CanonicalPayload{
		Event:     EventTestimonialCreated,
		Timestamp: at.Format(time.RFC3339),
		Data: PayloadData{
			ID:              rec.ID,
			SpaceID:         rec.SpaceID,
			RespondentName:  name,
			RespondentEmail: email,
			Content:         content,
			Rating:          rec.Rating,
			Type:            rec.Type,
			CreatedAt:       rec.CreatedAt,
		},
	}
}

// DeliveryResult is the outcome of one attempt to one endpoint. Values are
// immutable; a retry produces a fresh result rather than mutating the old one.
type DeliveryResult struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Error   string `json:"error,omitempty"`
	Attempt int    `json:"attempt"`
}

// DispatchSummary aggregates the final per-endpoint results for one trigger.
type DispatchSummary struct {
	Total   int              `json:"total"`
	Success int              `json:"success"`
	Failed  int              `json:"failed"`
	Details []DeliveryDetail `json:"details"`
}

type DeliveryDetail struct {
	WebhookID string `json:"webhook_id"`
	URL       string `json:"url"`
	Status    int    `json:"status"`
	Success   bool   `json:"success"`
}

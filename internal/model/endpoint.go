package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// EventTestimonialCreated is the only event the dispatch pipeline emits today.
const EventTestimonialCreated = "testimonial.created"

// StringList stores a JSON-encoded list of event names in a single column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported StringList source type %T", src)
	}
}

// Contains reports whether the list holds the given event name.
func (l StringList) Contains(event string) bool {
	for _, e := range l {
		if e == event {
			return true
		}
	}
	return false
}

// WebhookEndpoint is a space-registered delivery target. Rows are written by
// the dashboard configuration UI; this service only reads them.
type WebhookEndpoint struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	SpaceID   string     `gorm:"size:36;not null;index" json:"space_id"`
	URL       string     `gorm:"size:2048;not null" json:"url"`
	Secret    string     `gorm:"size:128" json:"secret,omitempty"`
	Events    StringList `gorm:"type:jsonb;not null" json:"events"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WebhookEndpoint) TableName() string { return "webhook_endpoint" }

package model

import "time"

// DeliveryLog records a single delivery attempt to one endpoint. One row is
// written per attempt, never mutated afterwards; retries produce new rows.
// Streamed/StreamedAt track the best-effort export to the analytics topic.
type DeliveryLog struct {
	ID             uint64     `gorm:"primaryKey" json:"id"`
	EndpointID     string     `gorm:"size:36;not null;index" json:"endpoint_id"`
	EventType      string     `gorm:"size:64;not null" json:"event_type"`
	Payload        string     `gorm:"type:jsonb;not null" json:"payload"`
	ResponseStatus int        `json:"response_status"`
	ResponseBody   string     `gorm:"size:1000" json:"response_body"`
	Attempt        int        `gorm:"not null" json:"attempt"`
	Success        bool       `gorm:"not null" json:"success"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	Streamed       bool       `gorm:"not null;default:false" json:"-"`
	StreamedAt     *time.Time `json:"-"`
}

func (DeliveryLog) TableName() string { return "webhook_delivery_log" }

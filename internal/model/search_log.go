package model

import "time"

// SearchLog records one completed search for auditing. Rows are
// published to RabbitMQ by the request path and persisted by a
// background worker.
type SearchLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecruiterID uint      `gorm:"index" json:"recruiter_id"`
	Query       string    `gorm:"size:512;not null" json:"query"`
	Mode        string    `gorm:"size:16" json:"mode"`
	ResultCount int       `json:"result_count"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

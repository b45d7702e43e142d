package models

import "time"

const StatusCompleted = "COMPLETED"

// Record is one MonitorLog row keyed by column name. Rows are passed through
// whole so columns added to the table show up without code changes.
type Record map[string]any

// LogRecord is the typed shape of the MonitorLog columns the gateway filters
// on. A nil Status marks a failed or still pending task.
type LogRecord struct {
	TaskID    int64     `gorm:"column:taskid"     json:"taskid"`
	Brand     string    `gorm:"column:brand"      json:"brand"`
	Status    *string   `gorm:"column:status"     json:"status"`
	Message   string    `gorm:"column:message"    json:"message"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

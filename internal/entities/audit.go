package entities

import "time"

type AuditEventType string

const (
	AuditEventCreate   AuditEventType = "create"
	AuditEventUpdate   AuditEventType = "update"
	AuditEventDelete   AuditEventType = "delete"
	AuditEventEnrol    AuditEventType = "enrol"
	AuditEventUnenrol  AuditEventType = "unenrol"
	AuditEventAuth     AuditEventType = "auth"
	AuditEventExport   AuditEventType = "export"
	AuditEventMaintain AuditEventType = "maintenance"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index" json:"user_id"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`      // e.g. "student_create", "course_delete_all"
	Description string         `gorm:"size:500" json:"description"` // human-readable summary
	EntityType  string         `gorm:"size:50" json:"entity_type"`  // "student", "course", "enrolment"
	EntityID    *uint          `gorm:"index" json:"entity_id,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON for extra data
	IPAddress   string         `gorm:"size:45" json:"ip_address,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

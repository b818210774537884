package tasks

import (
	"errors"
	"fmt"

	"github.com/mikestefanello/backlite"
)

const (
	TypeCleanupAuditEvents      = "cleanup_audit_events"
	TypeCleanupOrphanEnrolments = "cleanup_orphan_enrolments"
)

// ErrUnknownType is returned by NewTask for names outside Types().
var ErrUnknownType = errors.New("unknown task type")

// TypeInfo describes a task that can be triggered manually.
type TypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// Types lists every registered maintenance task.
func Types() []TypeInfo {
	return []TypeInfo{
		{
			Type:        TypeCleanupAuditEvents,
			Description: "Delete audit events older than the retention period",
			Queue:       CleanupAuditEventsTask{}.Config().Name,
		},
		{
			Type:        TypeCleanupOrphanEnrolments,
			Description: "Delete enrolments that reference missing students or courses",
			Queue:       CleanupOrphanEnrolmentsTask{}.Config().Name,
		},
	}
}

// NewTask builds the task for a type name. retentionDays only applies to
// audit cleanup.
func NewTask(taskType string, retentionDays int) (backlite.Task, error) {
	switch taskType {
	case TypeCleanupAuditEvents:
		return CleanupAuditEventsTask{RetentionDays: retentionDays}, nil
	case TypeCleanupOrphanEnrolments:
		return CleanupOrphanEnrolmentsTask{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, taskType)
	}
}

// Reporter records the outcome of a maintenance run. Implemented by audit.Service.
type Reporter interface {
	LogMaintenance(action, description string, affected int64, err error)
}

func report(r Reporter, action, description string, affected int64, err error) {
	if r != nil {
		r.LogMaintenance(action, description, affected, err)
	}
}

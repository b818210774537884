package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/registrar/internal/database/audit"
	"github.com/mrlokans/registrar/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event %s: %v", event.Action, err)
		}
	}()
}

// Wait blocks until all background writes have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

func entityEvent(userID uint, eventType entities.AuditEventType, entityType string, entityID uint, verb, name string) *entities.AuditEvent {
	return &entities.AuditEvent{
		UserID:      userID,
		EventType:   eventType,
		Action:      entityType + "_" + string(eventType),
		Description: truncate(verb+" "+entityType+": "+name, 500),
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	}
}

// LogCreate records a newly created student or course.
func (s *Service) LogCreate(userID uint, entityType string, entityID uint, name string) {
	s.LogAsync(entityEvent(userID, entities.AuditEventCreate, entityType, entityID, "Created", name))
}

// LogUpdate records a partial update. fields lists the columns that changed.
func (s *Service) LogUpdate(userID uint, entityType string, entityID uint, name string, fields []string) {
	event := entityEvent(userID, entities.AuditEventUpdate, entityType, entityID, "Updated", name)
	event.Metadata = marshalMetadata(map[string]any{"fields": fields})
	s.LogAsync(event)
}

// LogDelete records a deletion event.
func (s *Service) LogDelete(userID uint, entityType string, entityID uint, name string) {
	s.LogAsync(entityEvent(userID, entities.AuditEventDelete, entityType, entityID, "Deleted", name))
}

// LogBulkDelete records a delete-all call and how many rows it removed.
func (s *Service) LogBulkDelete(userID uint, entityType string, count int64) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventDelete,
		Action:      entityType + "_delete_all",
		Description: fmt.Sprintf("Deleted all %ss (%d)", entityType, count),
		EntityType:  entityType,
		Metadata:    marshalMetadata(map[string]any{"deleted": count}),
		Status:      entities.AuditStatusSuccess,
	}
	s.LogAsync(event)
}

func enrolmentEvent(userID uint, eventType entities.AuditEventType, verb string, studentID, courseID uint) *entities.AuditEvent {
	return &entities.AuditEvent{
		UserID:      userID,
		EventType:   eventType,
		Action:      "student_" + string(eventType),
		Description: fmt.Sprintf("Student %d %s course %d", studentID, verb, courseID),
		EntityType:  "enrolment",
		EntityID:    &studentID,
		Metadata:    marshalMetadata(map[string]any{"student_id": studentID, "course_id": courseID}),
		Status:      entities.AuditStatusSuccess,
	}
}

// LogEnrol records a student joining a course.
func (s *Service) LogEnrol(userID, studentID, courseID uint) {
	s.LogAsync(enrolmentEvent(userID, entities.AuditEventEnrol, "enrolled in", studentID, courseID))
}

// LogUnenrol records a student leaving a course.
func (s *Service) LogUnenrol(userID, studentID, courseID uint) {
	s.LogAsync(enrolmentEvent(userID, entities.AuditEventUnenrol, "withdrawn from", studentID, courseID))
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(userID uint, action string, ipAddr string, success bool) {
	event := &entities.AuditEvent{
		UserID:    userID,
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: ipAddr,
		Status:    entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// LogExport records a roster export.
func (s *Service) LogExport(userID uint, description string, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventExport,
		Action:      "roster_export",
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogMaintenance records the outcome of a background maintenance task.
func (s *Service) LogMaintenance(action, description string, affected int64, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventMaintain,
		Action:      action,
		Description: description,
		Metadata:    marshalMetadata(map[string]any{"affected": affected}),
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(filter audit.EventFilter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(filter, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func marshalMetadata(metadata map[string]any) string {
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

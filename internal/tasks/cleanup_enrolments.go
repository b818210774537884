package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// OrphanEnrolmentsCleaner deletes enrolments whose student or course is gone.
type OrphanEnrolmentsCleaner interface {
	DeleteOrphans() (int64, error)
}

// CleanupOrphanEnrolmentsTask removes dangling rows from the enrolments table.
type CleanupOrphanEnrolmentsTask struct{}

func (t CleanupOrphanEnrolmentsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        TypeCleanupOrphanEnrolments,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func CleanupOrphanEnrolmentsProcessor(cleaner OrphanEnrolmentsCleaner, reporter Reporter) backlite.QueueProcessor[CleanupOrphanEnrolmentsTask] {
	return func(ctx context.Context, task CleanupOrphanEnrolmentsTask) error {
		if cleaner == nil {
			return fmt.Errorf("orphan enrolments cleaner not configured")
		}

		deleted, err := cleaner.DeleteOrphans()
		report(reporter, TypeCleanupOrphanEnrolments, "Removed orphan enrolments", deleted, err)
		if err != nil {
			return fmt.Errorf("cleanup orphan enrolments: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d orphan enrolments", deleted)
		return nil
	}
}

func NewCleanupOrphanEnrolmentsQueue(cleaner OrphanEnrolmentsCleaner, reporter Reporter) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanEnrolmentsProcessor(cleaner, reporter))
}

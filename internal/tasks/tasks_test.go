package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
}

func (f *fakeAuditCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.retention = retention
	return f.deleted, f.err
}

type fakeOrphanCleaner struct {
	deleted int64
	err     error
	done    chan struct{}
}

func (f *fakeOrphanCleaner) DeleteOrphans() (int64, error) {
	if f.done != nil {
		f.done <- struct{}{}
	}
	return f.deleted, f.err
}

type fakeReporter struct {
	mu      sync.Mutex
	actions []string
	errs    []error
}

func (f *fakeReporter) LogMaintenance(action, _ string, _ int64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	f.errs = append(f.errs, err)
}

func TestCleanupAuditEventsTaskConfig(t *testing.T) {
	cfg := CleanupAuditEventsTask{RetentionDays: 7}.Config()

	assert.Equal(t, "cleanup_audit_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestCleanupOrphanEnrolmentsTaskConfig(t *testing.T) {
	cfg := CleanupOrphanEnrolmentsTask{}.Config()

	assert.Equal(t, "cleanup_orphan_enrolments", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.Timeout)
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	t.Run("uses task retention", func(t *testing.T) {
		cleaner := &fakeAuditCleaner{deleted: 4}
		reporter := &fakeReporter{}

		err := CleanupAuditEventsProcessor(cleaner, reporter)(context.Background(), CleanupAuditEventsTask{RetentionDays: 7})
		require.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, cleaner.retention)
		assert.Equal(t, []string{TypeCleanupAuditEvents}, reporter.actions)
	})

	t.Run("defaults to thirty days", func(t *testing.T) {
		cleaner := &fakeAuditCleaner{}

		err := CleanupAuditEventsProcessor(cleaner, nil)(context.Background(), CleanupAuditEventsTask{})
		require.NoError(t, err)
		assert.Equal(t, 30*24*time.Hour, cleaner.retention)
	})

	t.Run("propagates failure", func(t *testing.T) {
		cleaner := &fakeAuditCleaner{err: errors.New("database is locked")}
		reporter := &fakeReporter{}

		err := CleanupAuditEventsProcessor(cleaner, reporter)(context.Background(), CleanupAuditEventsTask{})
		assert.ErrorContains(t, err, "database is locked")
		require.Len(t, reporter.errs, 1)
		assert.Error(t, reporter.errs[0])
	})

	t.Run("missing cleaner", func(t *testing.T) {
		err := CleanupAuditEventsProcessor(nil, nil)(context.Background(), CleanupAuditEventsTask{})
		assert.Error(t, err)
	})
}

func TestCleanupOrphanEnrolmentsProcessor(t *testing.T) {
	reporter := &fakeReporter{}
	err := CleanupOrphanEnrolmentsProcessor(&fakeOrphanCleaner{deleted: 3}, reporter)(context.Background(), CleanupOrphanEnrolmentsTask{})
	require.NoError(t, err)
	assert.Equal(t, []string{TypeCleanupOrphanEnrolments}, reporter.actions)

	err = CleanupOrphanEnrolmentsProcessor(&fakeOrphanCleaner{err: errors.New("boom")}, nil)(context.Background(), CleanupOrphanEnrolmentsTask{})
	assert.ErrorContains(t, err, "boom")
}

func TestNewTask(t *testing.T) {
	task, err := NewTask(TypeCleanupAuditEvents, 14)
	require.NoError(t, err)
	assert.Equal(t, CleanupAuditEventsTask{RetentionDays: 14}, task)

	task, err = NewTask(TypeCleanupOrphanEnrolments, 14)
	require.NoError(t, err)
	assert.Equal(t, CleanupOrphanEnrolmentsTask{}, task)

	_, err = NewTask("enrich_book", 0)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestTypes(t *testing.T) {
	types := Types()
	require.Len(t, types, 2)
	for _, info := range types {
		_, err := NewTask(info.Type, 0)
		assert.NoError(t, err, info.Type)
		assert.Equal(t, info.Type, info.Queue)
	}
}

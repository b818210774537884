package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/registrar/internal/tasks"
)

type fakeTaskQueue struct {
	enqueued      []string
	retentionDays int
	status        backlite.TaskStatus
}

func (f *fakeTaskQueue) Enqueue(taskType string, retentionDays int) (string, error) {
	if _, err := tasks.NewTask(taskType, retentionDays); err != nil {
		return "", err
	}
	f.enqueued = append(f.enqueued, taskType)
	f.retentionDays = retentionDays
	return fmt.Sprintf("task-%d", len(f.enqueued)), nil
}

func (f *fakeTaskQueue) Status(_ context.Context, _ string) (backlite.TaskStatus, error) {
	return f.status, nil
}

func setupTasksRouter(queue TaskQueue) *gin.Engine {
	controller := NewTasksController(queue, 14)
	router := gin.New()
	router.GET("/api/tasks/types", controller.ListTaskTypes)
	router.GET("/api/tasks/:id", controller.GetTaskStatus)
	router.POST("/api/tasks/:type/run", controller.RunTask)
	return router
}

func TestTasksController_ListTaskTypes(t *testing.T) {
	router := setupTasksRouter(&fakeTaskQueue{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/types", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), tasks.TypeCleanupAuditEvents)
	assert.Contains(t, w.Body.String(), tasks.TypeCleanupOrphanEnrolments)
}

func TestTasksController_RunTask(t *testing.T) {
	queue := &fakeTaskQueue{}
	router := setupTasksRouter(queue)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tasks/"+tasks.TypeCleanupAuditEvents+"/run", nil))

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"task_id":"task-1"`)
	assert.Equal(t, []string{tasks.TypeCleanupAuditEvents}, queue.enqueued)
	assert.Equal(t, 14, queue.retentionDays)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tasks/reindex_everything/run", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown task type")
}

func TestTasksController_GetTaskStatus(t *testing.T) {
	router := setupTasksRouter(&fakeTaskQueue{status: backlite.TaskStatusSuccess})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/abc", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"abc","status":"success"}`, w.Body.String())
}

func TestTaskStatusToString(t *testing.T) {
	assert.Equal(t, "pending", taskStatusToString(backlite.TaskStatusPending))
	assert.Equal(t, "running", taskStatusToString(backlite.TaskStatusRunning))
	assert.Equal(t, "failure", taskStatusToString(backlite.TaskStatusFailure))
	assert.Equal(t, "not_found", taskStatusToString(backlite.TaskStatusNotFound))
}

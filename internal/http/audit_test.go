package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbaudit "github.com/mrlokans/registrar/internal/database/audit"
	"github.com/mrlokans/registrar/internal/entities"
)

type fakeAuditReader struct {
	filter        dbaudit.EventFilter
	limit, offset int
	events        []entities.AuditEvent
	total         int64
	err           error
}

func (f *fakeAuditReader) GetEvents(filter dbaudit.EventFilter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	f.filter, f.limit, f.offset = filter, limit, offset
	return f.events, f.total, f.err
}

func serveAudit(reader AuditReader, target string) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/api/audit", NewAuditController(reader).GetAuditEvents)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestAuditController_GetAuditEvents(t *testing.T) {
	reader := &fakeAuditReader{
		events: []entities.AuditEvent{{ID: 2, Action: "student_create"}},
		total:  3,
	}

	w := serveAudit(reader, "/api/audit?limit=1&offset=1&type=create&entity=student&user_id=7")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, entities.AuditEventCreate, reader.filter.EventType)
	assert.Equal(t, "student", reader.filter.EntityType)
	assert.Equal(t, uint(7), reader.filter.UserID)
	assert.Equal(t, 1, reader.limit)
	assert.Equal(t, 1, reader.offset)

	body := decodeBody[struct {
		Events  []entities.AuditEvent `json:"events"`
		Total   int64                 `json:"total"`
		HasMore bool                  `json:"has_more"`
	}](t, w)
	assert.Len(t, body.Events, 1)
	assert.Equal(t, int64(3), body.Total)
	assert.True(t, body.HasMore)
}

func TestAuditController_Defaults(t *testing.T) {
	reader := &fakeAuditReader{}

	w := serveAudit(reader, "/api/audit")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, reader.limit)
	assert.Equal(t, dbaudit.EventFilter{}, reader.filter)
	assert.Contains(t, w.Body.String(), `"events":[]`)
}

func TestAuditController_Errors(t *testing.T) {
	w := serveAudit(&fakeAuditReader{}, "/api/audit?user_id=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serveAudit(&fakeAuditReader{err: errors.New("boom")}, "/api/audit")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

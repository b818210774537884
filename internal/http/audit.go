package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	dbaudit "github.com/mrlokans/registrar/internal/database/audit"
	"github.com/mrlokans/registrar/internal/entities"
)

// AuditReader is implemented by audit.Service.
type AuditReader interface {
	GetEvents(filter dbaudit.EventFilter, limit, offset int) ([]entities.AuditEvent, int64, error)
}

type AuditController struct {
	reader AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{reader: reader}
}

// GetAuditEvents returns paginated audit events as JSON, newest first.
// GET /api/audit?limit=&offset=&type=&entity=&user_id=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	limit, offset := parsePagination(c, 50, 200)

	filter := dbaudit.EventFilter{
		EventType:  entities.AuditEventType(c.Query("type")),
		EntityType: c.Query("entity"),
	}
	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid user_id")
			return
		}
		filter.UserID = uint(userID)
	}

	events, total, err := ac.reader.GetEvents(filter, limit, offset)
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	c.JSON(http.StatusOK, gin.H{
		"events":   events,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
		"has_more": int64(offset+len(events)) < total,
	})
}

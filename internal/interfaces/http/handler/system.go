package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kartikpareekak-cloud/shopbackend/internal/infrastructure/persistence"
)

// SystemHandler serves health and liveness endpoints
type SystemHandler struct {
	BaseHandler
	db      *persistence.Database
	started time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{
		db:      db,
		started: time.Now(),
	}
}

// Ping is a trivial liveness probe
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}

// Health reports readiness including database connectivity
func (h *SystemHandler) Health(c *gin.Context) {
	dbStatus := "up"
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			dbStatus = "down"
		}
	}

	h.Success(c, gin.H{
		"status":   "ok",
		"database": dbStatus,
		"uptime":   time.Since(h.started).String(),
	})
}

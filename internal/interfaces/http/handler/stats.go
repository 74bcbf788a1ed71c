package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kartikpareekak-cloud/shopbackend/internal/application/report"
)

// StatsHandler serves the admin dashboard aggregates
type StatsHandler struct {
	BaseHandler
	statsService *report.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *report.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Dashboard returns store-wide counts, sales totals, low-stock products,
// top sellers and the monthly revenue trend
func (h *StatsHandler) Dashboard(c *gin.Context) {
	result, err := h.statsService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

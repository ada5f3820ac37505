package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jmespath "github.com/jmespath-community/go-jmespath"
	"go.uber.org/zap"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/usecase"
)

// StatsHandler serves the aggregate report.
type StatsHandler struct {
	svc    *usecase.JobService
	logger *zap.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(svc *usecase.JobService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, logger: logger}
}

// Get handles GET /api/v1/stats. A ?query= JMESPath expression projects
// the report, e.g. ?query=jobsPerTechnician.Jose
func (h *StatsHandler) Get(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query != "" {
		if _, err := jmespath.Compile(query); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query: " + err.Error()})
			return
		}
	}

	report, err := h.svc.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Get stats failed", zap.Error(err))
		c.JSON(statusFor(domain.KindOf(err)), gin.H{"error": domain.DetailOf(err)})
		return
	}

	if query == "" {
		c.JSON(http.StatusOK, report)
		return
	}

	result, err := project(query, report)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "result": result})
}

// project evaluates query against the report's JSON form so expressions use
// the wire field names.
func project(query string, report domain.StatsReport) (any, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return jmespath.Search(query, doc)
}

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Harsh-BH/fieldtools/internal/usecase"
)

const defaultStreamInterval = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development; restrict in production
	},
}

// StatsStreamHandler pushes the stats report over a WebSocket whenever the
// number of stored jobs changes.
type StatsStreamHandler struct {
	svc      *usecase.JobService
	interval time.Duration
	logger   *zap.Logger
}

// NewStatsStreamHandler creates a new StatsStreamHandler polling the store
// every interval.
func NewStatsStreamHandler(svc *usecase.JobService, interval time.Duration, logger *zap.Logger) *StatsStreamHandler {
	if interval <= 0 {
		interval = defaultStreamInterval
	}
	return &StatsStreamHandler{svc: svc, interval: interval, logger: logger}
}

// Stream handles GET /api/v1/stats/stream (WebSocket upgrade)
func (h *StatsStreamHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Drain client frames so close messages are noticed.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.Debug("Stats stream opened")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	lastTotal := -1
	for {
		report, err := h.svc.GetStats(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			conn.WriteJSON(gin.H{"error": err.Error()})
			return
		}

		if report.TotalJobs != lastTotal {
			if err := conn.WriteJSON(report); err != nil {
				h.logger.Debug("WebSocket write failed (client disconnected)", zap.Error(err))
				return
			}
			lastTotal = report.TotalJobs
		}

		select {
		case <-ctx.Done():
			h.logger.Debug("Stats stream closed")
			return
		case <-ticker.C:
		}
	}
}

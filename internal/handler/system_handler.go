package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/progresspoint/internal/response"
)

const metricsInterval = 5 * time.Second

// ClientCounter reports connected live-feed clients.
type ClientCounter interface {
	Clients() int
}

// SystemHandler reports process health and streams runtime metrics via SSE.
type SystemHandler struct {
	storageDriver string
	feed          ClientCounter
	startTime     time.Time
	log           zerolog.Logger
}

func NewSystemHandler(storageDriver string, feed ClientCounter, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		storageDriver: storageDriver,
		feed:          feed,
		startTime:     time.Now(),
		log:           log.With().Str("component", "system_handler").Logger(),
	}
}

// Health godoc
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "ok",
		"storage": h.storageDriver,
		"uptime":  formatDuration(time.Since(h.startTime)),
	})
}

type systemMetrics struct {
	Timestamp   int64  `json:"timestamp"`
	Uptime      string `json:"uptime"`
	Storage     string `json:"storage"`
	FeedClients int    `json:"feed_clients"`
	Goroutines  int    `json:"goroutines"`
	HeapAlloc   uint64 `json:"heap_alloc"`
	HeapSys     uint64 `json:"heap_sys"`
	NumGC       uint32 `json:"num_gc"`
	GoVersion   string `json:"go_version"`
}

// MetricsSSE godoc
// GET /api/v1/system/metrics
// Sends a metrics frame on connect and then every metricsInterval.
func (h *SystemHandler) MetricsSSE(c *gin.Context) {
	reqCtx := c.Request.Context()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	h.log.Debug().Msg("Metrics stream opened")

	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	h.writeMetrics(c)
	for {
		select {
		case <-reqCtx.Done():
			h.log.Debug().Msg("Metrics stream closed")
			return
		case <-ticker.C:
			h.writeMetrics(c)
		}
	}
}

func (h *SystemHandler) writeMetrics(c *gin.Context) {
	data, err := json.Marshal(h.collect())
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", data)
	c.Writer.Flush()
}

func (h *SystemHandler) collect() systemMetrics {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return systemMetrics{
		Timestamp:   time.Now().Unix(),
		Uptime:      formatDuration(time.Since(h.startTime)),
		Storage:     h.storageDriver,
		FeedClients: h.feed.Clients(),
		Goroutines:  runtime.NumGoroutine(),
		HeapAlloc:   ms.HeapAlloc,
		HeapSys:     ms.Sys,
		NumGC:       ms.NumGC,
		GoVersion:   runtime.Version(),
	}
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	default:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
}

package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/service"
	ws "github.com/stemsi/progresspoint/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler upgrades dashboards onto the live roster feed.
type WSHandler struct {
	hub           *ws.Hub
	rosterService *service.RosterService
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *ws.Hub, rosterService *service.RosterService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:           hub,
		rosterService: rosterService,
		log:           log.With().Str("component", "ws_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// RosterStream godoc
// WS /ws/v1/roster
// Sends the current session and roster, then every roster_updated and
// session_changed event until the client disconnects.
func (h *WSHandler) RosterStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	h.hub.Serve(conn, h.snapshot())
}

func (h *WSHandler) snapshot() *model.RosterEvent {
	ev := &model.RosterEvent{Type: model.EventSessionChanged, Students: []model.Student{}}
	if owner := h.rosterService.Owner(); owner != nil {
		ev.Admin = owner.Username
	}
	if students, err := h.rosterService.Students(); err == nil {
		ev.Students = students
	}
	return ev
}

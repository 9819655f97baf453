package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, hub *Hub, initial *model.RosterEvent) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn, initial)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v interface{}) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(msg, v))
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	initial := &model.RosterEvent{Type: model.EventSessionChanged, Admin: "Mei", Students: []model.Student{{ID: "m1"}}}
	conn := dial(t, hub, initial)

	var got model.RosterEvent
	readJSON(t, conn, &got)
	assert.Equal(t, model.EventSessionChanged, got.Type)
	assert.Equal(t, "Mei", got.Admin)
	assert.Equal(t, 1, hub.Clients())

	hub.Notify(model.RosterEvent{Type: model.EventRosterUpdated, Admin: "Mei", Students: []model.Student{{ID: "m2"}}})
	readJSON(t, conn, &got)
	assert.Equal(t, model.EventRosterUpdated, got.Type)
	require.Len(t, got.Students, 1)
	assert.Equal(t, "m2", got.Students[0].ID)
}

func TestHubPingPong(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	conn := dial(t, hub, &model.RosterEvent{Type: model.EventSessionChanged, Students: []model.Student{}})

	var initial model.RosterEvent
	readJSON(t, conn, &initial)

	require.NoError(t, conn.WriteJSON(RequestEnvelope{Action: ActionPing}))
	var pong PongResponse
	readJSON(t, conn, &pong)
	assert.Equal(t, EventPong, pong.Event)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("nope")))
	var errResp ErrorResponse
	readJSON(t, conn, &errResp)
	assert.Equal(t, EventError, errResp.Event)
}

func TestHubUnregistersOnClose(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	conn := dial(t, hub, &model.RosterEvent{Type: model.EventSessionChanged, Students: []model.Student{}})

	var initial model.RosterEvent
	readJSON(t, conn, &initial)
	require.Equal(t, 1, hub.Clients())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

package model

// Roster feed event types.
const (
	EventRosterUpdated  = "roster_updated"
	EventSessionChanged = "session_changed"
)

// RosterEvent is pushed to live dashboards whenever the visible roster changes.
type RosterEvent struct {
	Type     string    `json:"event"`
	Admin    string    `json:"admin,omitempty"`
	Students []Student `json:"students"`
}

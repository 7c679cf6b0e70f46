package types

import "github.com/ricpacsoe/ric-pac-soe-backend/internal/room"

// ClientMessage is the one inbound envelope; Type selects which fields
// matter. Game-rule violations are dropped silently server-side, so the
// only Error responses a client ever sees are decode failures.
type ClientMessage struct {
	Type     string       `json:"type"` // "place" | "move_blocker" | "new_game" | "chat" | "state" | "leave"
	Row      int          `json:"row"`
	Col      int          `json:"col"`
	Symbol   string       `json:"symbol,omitempty"`
	From     *CellRef     `json:"from,omitempty"`
	To       *CellRef     `json:"to,omitempty"`
	Text     string       `json:"text,omitempty"`
	Settings *room.Config `json:"settings,omitempty"`
}

type CellRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type ServerMessage struct {
	Type  string         `json:"type"` // "joined" | "state" | "error"
	Role  string         `json:"role,omitempty"`
	Seat  *int           `json:"seat,omitempty"`
	State *room.Snapshot `json:"state,omitempty"`
	Error string         `json:"error,omitempty"`
}

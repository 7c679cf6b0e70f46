package room

import "github.com/ricpacsoe/ric-pac-soe-backend/internal/board"

type Msg interface{ isRoomMsg() }

// Join registers a connection as a player (while seats remain and the
// game has not started) or as a spectator. A disconnected seat with the
// same display name is reclaimed instead of allocating a new one.
type Join struct {
	Handle    string
	Name      string
	Spectator bool
	Outbox    chan Snapshot
	Reply     chan JoinResult
}

type JoinResult struct {
	Role string // "player" | "spectator"
	Seat int    // -1 for spectators
}

// Leave frees the actor's seat (or spectator slot) immediately.
type Leave struct{ Handle string }

// Disconnect marks the actor's seat connectionless; the seat survives
// for the reconnect grace period before being vacated.
type Disconnect struct{ Handle string }

type PlacePiece struct {
	Handle   string
	Row, Col int
	Symbol   board.Symbol
}

type MoveBlocker struct {
	Handle           string
	FromRow, FromCol int
	ToRow, ToCol     int
}

// NewGame resets board, stock and scores and starts play. Settings, when
// present, are clamped into their valid ranges first.
type NewGame struct {
	Handle   string
	Settings *Config
}

type Chat struct {
	Handle string
	Text   string
}

type GetState struct{ Reply chan Snapshot }

type GetInfo struct{ Reply chan Info }

type Shutdown struct{}

// vacate fires when a disconnected seat's grace period expires.
type vacate struct{ name string }

func (Join) isRoomMsg()        {}
func (Leave) isRoomMsg()       {}
func (Disconnect) isRoomMsg()  {}
func (PlacePiece) isRoomMsg()  {}
func (MoveBlocker) isRoomMsg() {}
func (NewGame) isRoomMsg()     {}
func (Chat) isRoomMsg()        {}
func (GetState) isRoomMsg()    {}
func (GetInfo) isRoomMsg()     {}
func (Shutdown) isRoomMsg()    {}
func (vacate) isRoomMsg()      {}

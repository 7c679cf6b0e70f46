package room

import (
	"time"

	"github.com/ricpacsoe/ric-pac-soe-backend/internal/board"
	"github.com/ricpacsoe/ric-pac-soe-backend/internal/rules"
)

// Snapshot is the public point-in-time projection broadcast after every
// successful mutation. It carries no references into the room's own
// state, so receivers may hold it as long as they like.
type Snapshot struct {
	Code       string            `json:"code"`
	Settings   Config            `json:"settings"`
	Players    []PlayerView      `json:"players"`
	Spectators []string          `json:"spectators"`
	Turn       int               `json:"turn"`
	Board      board.Board       `json:"board"`
	Started    bool              `json:"started"`
	GameOver   bool              `json:"game_over"`
	Message    string            `json:"message,omitempty"`
	Chat       []ChatEntry       `json:"chat"`
	Highlights []rules.Highlight `json:"highlights,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type PlayerView struct {
	Name      string               `json:"name"`
	Color     string               `json:"color"`
	Score     int                  `json:"score"`
	Stock     map[board.Symbol]int `json:"stock"`
	Last      board.Symbol         `json:"last_symbol,omitempty"`
	Connected bool                 `json:"connected"`
}

type ChatEntry struct {
	From string    `json:"from"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Info is the registry listing projection.
type Info struct {
	Code       string    `json:"code"`
	Players    int       `json:"players"`
	Spectators int       `json:"spectators"`
	Started    bool      `json:"started"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (r *Room) snapshot(highlights []rules.Highlight) Snapshot {
	players := make([]PlayerView, len(r.players))
	for i, p := range r.players {
		stock := make(map[board.Symbol]int, len(p.stock))
		for sym, n := range p.stock {
			stock[sym] = n
		}
		players[i] = PlayerView{
			Name:      p.name,
			Color:     seatColors[i],
			Score:     p.score,
			Stock:     stock,
			Last:      p.last,
			Connected: p.handle != "",
		}
	}
	spectators := make([]string, len(r.spectators))
	for i, s := range r.spectators {
		spectators[i] = s.name
	}
	chat := make([]ChatEntry, len(r.chat))
	copy(chat, r.chat)

	return Snapshot{
		Code:       r.code,
		Settings:   r.cfg,
		Players:    players,
		Spectators: spectators,
		Turn:       r.turn,
		Board:      r.board,
		Started:    r.started,
		GameOver:   r.gameOver,
		Message:    r.message,
		Chat:       chat,
		Highlights: highlights,
		UpdatedAt:  r.updated,
	}
}

package board

import "math/rand"

// Size is the fixed edge length of the play grid.
const Size = 8

type Symbol string

const (
	Rock     Symbol = "rock"
	Paper    Symbol = "paper"
	Scissors Symbol = "scissors"
)

// Symbols lists every placeable symbol, in stock-display order.
var Symbols = []Symbol{Rock, Paper, Scissors}

func ParseSymbol(s string) (Symbol, bool) {
	switch s {
	case "rock":
		return Rock, true
	case "paper":
		return Paper, true
	case "scissors":
		return Scissors, true
	default:
		return "", false
	}
}

type Kind string

const (
	KindEmpty   Kind = "empty"
	KindBlocker Kind = "blocker"
	KindPiece   Kind = "piece"
)

// Cell is a tagged variant: Owner and Symbol are meaningful only when
// Kind is KindPiece.
type Cell struct {
	Kind   Kind   `json:"kind"`
	Owner  int    `json:"owner"`
	Symbol Symbol `json:"symbol,omitempty"`
}

type Board [Size][Size]Cell

// New returns a board with every cell empty.
func New() Board {
	var b Board
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			b[r][c] = Cell{Kind: KindEmpty}
		}
	}
	return b
}

func InBounds(r, c int) bool {
	return r >= 0 && r < Size && c >= 0 && c < Size
}

func (b *Board) IsFull() bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c].Kind == KindEmpty {
				return false
			}
		}
	}
	return true
}

// PlaceRandomBlockers marks count distinct empty cells as blockers,
// sampling without replacement. When fewer than count empty cells remain
// it places as many as it can. Returns the number actually placed.
func (b *Board) PlaceRandomBlockers(count int) int {
	type pos struct{ r, c int }
	var empty []pos
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c].Kind == KindEmpty {
				empty = append(empty, pos{r, c})
			}
		}
	}
	rand.Shuffle(len(empty), func(i, j int) { empty[i], empty[j] = empty[j], empty[i] })
	if count > len(empty) {
		count = len(empty)
	}
	for _, p := range empty[:count] {
		b[p.r][p.c] = Cell{Kind: KindBlocker}
	}
	return count
}

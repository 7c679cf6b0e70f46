package rules

import "github.com/ricpacsoe/ric-pac-soe-backend/internal/board"

// The four undirected line axes: horizontal, vertical, both diagonals.
var axes = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// Beats reports whether a defeats b. The dominance cycle is fixed:
// scissors beat rock, rock beats paper, paper beats scissors.
func Beats(a, b board.Symbol) bool {
	switch a {
	case board.Scissors:
		return b == board.Rock
	case board.Rock:
		return b == board.Paper
	case board.Paper:
		return b == board.Scissors
	default:
		return false
	}
}

// DefeatedBy returns the one symbol that defeats s.
func DefeatedBy(s board.Symbol) board.Symbol {
	switch s {
	case board.Rock:
		return board.Scissors
	case board.Paper:
		return board.Rock
	default:
		return board.Paper
	}
}

type HighlightKind string

const (
	HighlightEliminated HighlightKind = "eliminated"
	HighlightLine       HighlightKind = "line"
	HighlightMisplaced  HighlightKind = "misplaced"
)

// Highlight marks one cell touched by the most recent action. It is
// display-only and never part of authoritative state.
type Highlight struct {
	Row    int           `json:"row"`
	Col    int           `json:"col"`
	Player int           `json:"player"`
	Kind   HighlightKind `json:"kind"`
}

// Effect is the scoring outcome of evaluating a single placement.
type Effect struct {
	Points     map[int]int // seat index -> points gained
	Highlights []Highlight
}

func newEffect() Effect {
	return Effect{Points: map[int]int{}}
}

func (e *Effect) merge(o Effect) {
	for seat, pts := range o.Points {
		e.Points[seat] += pts
	}
	e.Highlights = append(e.Highlights, o.Highlights...)
}

// Evaluate runs the three scoring passes for a piece just placed at
// (r,c), in their fixed order: misplacement bonus (credited to an
// opponent), then elimination (board-mutating), then three-in-a-row.
// The order is observable because the later passes see the board after
// eliminations.
func Evaluate(b *board.Board, r, c int) Effect {
	eff := newEffect()
	eff.merge(Misplacement(b, r, c))
	eff.merge(Eliminate(b, r, c))
	eff.merge(LineBonus(b, r, c))
	return eff
}

// run returns the endpoints of the maximal contiguous run of cells
// sharing the owner and symbol of (r,c) along the given axis. The run
// always contains (r,c) itself.
func run(b *board.Board, r, c, dr, dc int) (sr, sc, er, ec, length int) {
	cell := b[r][c]
	sr, sc = r, c
	for board.InBounds(sr-dr, sc-dc) && sameRun(b[sr-dr][sc-dc], cell) {
		sr, sc = sr-dr, sc-dc
	}
	er, ec = r, c
	for board.InBounds(er+dr, ec+dc) && sameRun(b[er+dr][ec+dc], cell) {
		er, ec = er+dr, ec+dc
	}
	if dr != 0 {
		length = (er-sr)/dr + 1
	} else {
		length = (ec-sc)/dc + 1
	}
	return sr, sc, er, ec, length
}

func sameRun(c, ref board.Cell) bool {
	return c.Kind == board.KindPiece && c.Owner == ref.Owner && c.Symbol == ref.Symbol
}

// Eliminate removes opposing pieces sitting just past either end of the
// placer's run, per axis, when the newly placed symbol defeats them.
// Each removal is worth one point to the placing player, so a single
// placement can score up to eight.
func Eliminate(b *board.Board, r, c int) Effect {
	eff := newEffect()
	placed := b[r][c]
	for _, ax := range axes {
		dr, dc := ax[0], ax[1]
		sr, sc, er, ec, _ := run(b, r, c, dr, dc)
		for _, end := range [2][2]int{{sr - dr, sc - dc}, {er + dr, ec + dc}} {
			tr, tc := end[0], end[1]
			if !board.InBounds(tr, tc) {
				continue
			}
			victim := b[tr][tc]
			if victim.Kind != board.KindPiece || victim.Owner == placed.Owner {
				continue
			}
			if !Beats(placed.Symbol, victim.Symbol) {
				continue
			}
			b[tr][tc] = board.Cell{Kind: board.KindEmpty}
			eff.Points[placed.Owner]++
			eff.Highlights = append(eff.Highlights, Highlight{
				Row: tr, Col: tc, Player: placed.Owner, Kind: HighlightEliminated,
			})
		}
	}
	return eff
}

// LineBonus awards the placing player one point per axis whose run
// through (r,c) is three or longer, regardless of how much longer. The
// highlight covers a three-cell window of the run containing (r,c),
// centered on it when the run allows.
func LineBonus(b *board.Board, r, c int) Effect {
	eff := newEffect()
	placed := b[r][c]
	for _, ax := range axes {
		dr, dc := ax[0], ax[1]
		sr, sc, _, _, length := run(b, r, c, dr, dc)
		if length < 3 {
			continue
		}
		eff.Points[placed.Owner]++

		// index of (r,c) within the run
		var idx int
		if dr != 0 {
			idx = (r - sr) / dr
		} else {
			idx = (c - sc) / dc
		}
		start := idx - 1
		if start < 0 {
			start = 0
		}
		if start > length-3 {
			start = length - 3
		}
		for i := start; i < start+3; i++ {
			eff.Highlights = append(eff.Highlights, Highlight{
				Row: sr + i*dr, Col: sc + i*dc, Player: placed.Owner, Kind: HighlightLine,
			})
		}
	}
	return eff
}

// Misplacement scores an opponent when the placed piece lands inside a
// three-cell window whose other two cells both hold that opponent's
// pieces of the symbol that defeats the placed one. Per axis the windows
// ending at, centered at, and starting at (r,c) are checked in that
// order and only the first qualifying window counts.
func Misplacement(b *board.Board, r, c int) Effect {
	eff := newEffect()
	placed := b[r][c]
	killer := DefeatedBy(placed.Symbol)
	for _, ax := range axes {
		dr, dc := ax[0], ax[1]
		for _, off := range [3]int{-2, -1, 0} {
			or1, oc1 := r+off*dr, c+off*dc
			if qualifies(b, placed, killer, or1, oc1, dr, dc, off) {
				owner := flankOwner(b, placed, or1, oc1, dr, dc, off)
				eff.Points[owner]++
				for i := 0; i < 3; i++ {
					eff.Highlights = append(eff.Highlights, Highlight{
						Row: or1 + i*dr, Col: oc1 + i*dc, Player: owner, Kind: HighlightMisplaced,
					})
				}
				break
			}
		}
	}
	return eff
}

// qualifies checks the window starting at (wr,wc); off is the offset of
// the window start relative to the placed piece, so -off is the placed
// piece's index within the window.
func qualifies(b *board.Board, placed board.Cell, killer board.Symbol, wr, wc, dr, dc, off int) bool {
	self := -off
	for i := 0; i < 3; i++ {
		cr, cc := wr+i*dr, wc+i*dc
		if !board.InBounds(cr, cc) {
			return false
		}
		cell := b[cr][cc]
		if cell.Kind != board.KindPiece {
			return false
		}
		if i == self {
			continue
		}
		if cell.Symbol != killer || cell.Owner == placed.Owner {
			return false
		}
	}
	// the two flanking cells must belong to one single opponent
	var owners []int
	for i := 0; i < 3; i++ {
		if i == self {
			continue
		}
		owners = append(owners, b[wr+i*dr][wc+i*dc].Owner)
	}
	return owners[0] == owners[1]
}

func flankOwner(b *board.Board, placed board.Cell, wr, wc, dr, dc, off int) int {
	self := -off
	for i := 0; i < 3; i++ {
		if i == self {
			continue
		}
		return b[wr+i*dr][wc+i*dc].Owner
	}
	return placed.Owner // unreachable
}

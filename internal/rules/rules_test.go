package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ricpacsoe/ric-pac-soe-backend/internal/board"
)

func put(b *board.Board, r, c, owner int, sym board.Symbol) {
	b[r][c] = board.Cell{Kind: board.KindPiece, Owner: owner, Symbol: sym}
}

func putBlocker(b *board.Board, r, c int) {
	b[r][c] = board.Cell{Kind: board.KindBlocker}
}

func TestBeats(t *testing.T) {
	cases := []struct {
		a, b board.Symbol
		want bool
	}{
		{board.Scissors, board.Rock, true},
		{board.Rock, board.Paper, true},
		{board.Paper, board.Scissors, true},
		{board.Rock, board.Scissors, false},
		{board.Paper, board.Rock, false},
		{board.Scissors, board.Paper, false},
		{board.Rock, board.Rock, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Beats(tc.a, tc.b), "%s vs %s", tc.a, tc.b)
	}
}

func TestDefeatedBy(t *testing.T) {
	assert.Equal(t, board.Scissors, DefeatedBy(board.Rock))
	assert.Equal(t, board.Rock, DefeatedBy(board.Paper))
	assert.Equal(t, board.Paper, DefeatedBy(board.Scissors))
}

func TestEliminateAtRunEnd(t *testing.T) {
	b := board.New()
	put(&b, 0, 0, 1, board.Paper)
	put(&b, 0, 1, 0, board.Rock)
	put(&b, 0, 2, 0, board.Rock)

	eff := Eliminate(&b, 0, 2)

	assert.Equal(t, map[int]int{0: 1}, eff.Points)
	assert.Equal(t, board.KindEmpty, b[0][0].Kind, "defeated piece past the run start must be removed")
	require.Len(t, eff.Highlights, 1)
	assert.Equal(t, Highlight{Row: 0, Col: 0, Player: 0, Kind: HighlightEliminated}, eff.Highlights[0])
}

func TestFlankingAloneDoesNotEliminate(t *testing.T) {
	// rock - scissors - rock: the middle piece is flanked but the new
	// rock does not defeat scissors, so nothing happens
	b := board.New()
	put(&b, 0, 0, 0, board.Rock)
	put(&b, 0, 1, 1, board.Scissors)
	put(&b, 0, 2, 0, board.Rock)

	eff := Evaluate(&b, 0, 2)

	assert.Empty(t, eff.Points)
	assert.Equal(t, board.KindPiece, b[0][1].Kind)
}

func TestEliminateNeverRemovesOwnPiece(t *testing.T) {
	b := board.New()
	put(&b, 0, 0, 0, board.Paper) // own paper, defeated symbol-wise
	put(&b, 0, 1, 0, board.Rock)

	eff := Eliminate(&b, 0, 1)

	assert.Empty(t, eff.Points)
	assert.Equal(t, board.KindPiece, b[0][0].Kind)
}

func TestEliminateIgnoresBlockers(t *testing.T) {
	b := board.New()
	putBlocker(&b, 0, 0)
	put(&b, 0, 1, 0, board.Rock)

	eff := Eliminate(&b, 0, 1)

	assert.Empty(t, eff.Points)
	assert.Equal(t, board.KindBlocker, b[0][0].Kind)
}

func TestEliminateAllEightNeighbours(t *testing.T) {
	b := board.New()
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			put(&b, 3+dr, 3+dc, 1, board.Scissors)
		}
	}
	put(&b, 3, 3, 0, board.Paper)

	eff := Evaluate(&b, 3, 3)

	assert.Equal(t, map[int]int{0: 8}, eff.Points)
	assert.Len(t, eff.Highlights, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			assert.Equal(t, board.KindEmpty, b[3+dr][3+dc].Kind)
		}
	}
}

func TestLineBonusExactlyOnePointPerDirection(t *testing.T) {
	b := board.New()
	put(&b, 0, 0, 0, board.Rock)
	put(&b, 0, 1, 0, board.Rock)
	put(&b, 0, 2, 0, board.Rock)

	eff := LineBonus(&b, 0, 2)

	assert.Equal(t, map[int]int{0: 1}, eff.Points, "a completed row is worth one point, not one per piece")
	require.Len(t, eff.Highlights, 3)
}

func TestLineBonusLongRunStillOnePoint(t *testing.T) {
	b := board.New()
	for c := 0; c < 4; c++ {
		put(&b, 0, c, 0, board.Rock)
	}

	eff := LineBonus(&b, 0, 2)

	assert.Equal(t, map[int]int{0: 1}, eff.Points)
	// window centered on the placed piece since the run allows it
	require.Len(t, eff.Highlights, 3)
	assert.Equal(t, 1, eff.Highlights[0].Col)
	assert.Equal(t, 2, eff.Highlights[1].Col)
	assert.Equal(t, 3, eff.Highlights[2].Col)
}

func TestLineBonusTwoDirections(t *testing.T) {
	b := board.New()
	put(&b, 0, 1, 0, board.Rock)
	put(&b, 0, 2, 0, board.Rock)
	put(&b, 1, 0, 0, board.Rock)
	put(&b, 2, 0, 0, board.Rock)
	put(&b, 0, 0, 0, board.Rock)

	eff := LineBonus(&b, 0, 0)

	assert.Equal(t, map[int]int{0: 2}, eff.Points)
}

func TestMisplacementAwardsTheOpponent(t *testing.T) {
	b := board.New()
	put(&b, 0, 0, 1, board.Scissors)
	put(&b, 0, 2, 1, board.Scissors)
	put(&b, 0, 1, 0, board.Rock) // walked straight into the scissors

	eff := Evaluate(&b, 0, 1)

	assert.Equal(t, map[int]int{1: 1}, eff.Points)
	require.Len(t, eff.Highlights, 3)
	for _, h := range eff.Highlights {
		assert.Equal(t, 1, h.Player)
		assert.Equal(t, HighlightMisplaced, h.Kind)
	}
}

func TestMisplacementMixedOwnersDisqualifies(t *testing.T) {
	b := board.New()
	put(&b, 0, 0, 1, board.Scissors)
	put(&b, 0, 2, 2, board.Scissors)
	put(&b, 0, 1, 0, board.Rock)

	eff := Misplacement(&b, 0, 1)

	assert.Empty(t, eff.Points, "flanks split across two opponents must not score")
}

func TestMisplacementOwnFlanksDisqualify(t *testing.T) {
	b := board.New()
	put(&b, 0, 0, 0, board.Scissors)
	put(&b, 0, 2, 0, board.Scissors)
	put(&b, 0, 1, 0, board.Rock)

	eff := Misplacement(&b, 0, 1)

	assert.Empty(t, eff.Points)
}

func TestMisplacementOnePointPerDirection(t *testing.T) {
	// two overlapping qualifying windows on the same axis: only the
	// first (the one ending at the placed piece) scores
	b := board.New()
	put(&b, 0, 0, 1, board.Scissors)
	put(&b, 0, 1, 1, board.Scissors)
	put(&b, 0, 3, 1, board.Scissors)
	put(&b, 0, 2, 0, board.Rock)

	eff := Misplacement(&b, 0, 2)

	assert.Equal(t, map[int]int{1: 1}, eff.Points)
	require.Len(t, eff.Highlights, 3)
	assert.Equal(t, 0, eff.Highlights[0].Col, "the window ending at the placement wins")
	assert.Equal(t, 2, eff.Highlights[2].Col)
}

func TestMisplacementWindowRequiresAllPieces(t *testing.T) {
	b := board.New()
	put(&b, 0, 0, 1, board.Scissors)
	putBlocker(&b, 0, 2)
	put(&b, 0, 1, 0, board.Rock)

	eff := Misplacement(&b, 0, 1)

	assert.Empty(t, eff.Points)
}

func TestEvaluateCombinesAllThreePasses(t *testing.T) {
	b := board.New()
	// horizontal: rock walks between two of player 1's scissors
	put(&b, 1, 0, 1, board.Scissors)
	put(&b, 1, 2, 1, board.Scissors)
	// vertical: completes a three-run of player 0's rocks
	put(&b, 2, 1, 0, board.Rock)
	put(&b, 3, 1, 0, board.Rock)
	// diagonal: player 1's paper sits past the run end
	put(&b, 0, 0, 1, board.Paper)
	put(&b, 1, 1, 0, board.Rock)

	eff := Evaluate(&b, 1, 1)

	assert.Equal(t, map[int]int{0: 2, 1: 1}, eff.Points)
	assert.Len(t, eff.Highlights, 7) // 3 misplaced + 1 eliminated + 3 line
	assert.Equal(t, board.KindEmpty, b[0][0].Kind)
	assert.Equal(t, board.KindPiece, b[1][0].Kind, "scissors are not defeated by rock")
}

package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameFirstClickSafety(t *testing.T) {
	t.Parallel()
	params := GameParams{Width: 9, Height: 9, MineCount: 10}
	for sy := range params.Height {
		for sx := range params.Width {
			r := rand.New(rand.NewPCG(uint64(sx), uint64(sy)))
			state, err := NewGame(params, sx, sy, r)
			require.NoError(t, err)
			assert.False(t, state.Dead)

			// The whole 3x3 neighborhood must be mine-free, so the
			// first click always opens a zero and cascades.
			opened := state.PlayerGrid[sy*params.Width+sx]
			assert.Equal(t, CellState(0), opened, "start %d:%d", sx, sy)

			placed := 0
			for _, mined := range state.Mines {
				if mined {
					placed++
				}
			}
			assert.Equal(t, params.MineCount, placed)
		}
	}
}

func TestNewGameRejectsBadParams(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	tests := []struct {
		name   string
		params GameParams
	}{
		{"too small", GameParams{Width: 1, Height: 1, MineCount: 1}},
		{"no mines", GameParams{Width: 9, Height: 9, MineCount: 0}},
		{"too many mines", GameParams{Width: 3, Height: 3, MineCount: 1}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewGame(test.params, 0, 0, r)
			assert.Error(t, err)
		})
	}
}

// fixedGame builds a 4x3 board with known mines for move tests:
//
//	m . . .
//	. . . .
//	. . . m
func fixedGame() *GameState {
	params := GameParams{Width: 4, Height: 3, MineCount: 2}
	mines := make([]bool, 12)
	mines[0] = true
	mines[11] = true
	playerGrid := make(Grid, 12)
	for i := range playerGrid {
		playerGrid[i] = Unknown
	}
	return &GameState{GameParams: params, Mines: mines, PlayerGrid: playerGrid}
}

func TestOpenCellFloodFill(t *testing.T) {
	s := fixedGame()
	s.OpenCell(2, 0)

	// (2,0) is a zero: the cascade fills its region and stops at the
	// numbered border, without leaking into the far corner.
	assert.Equal(t, CellState(0), s.PlayerGrid[0*4+2])
	assert.Equal(t, CellState(0), s.PlayerGrid[0*4+3])
	assert.Equal(t, CellState(1), s.PlayerGrid[0*4+1])
	assert.Equal(t, CellState(1), s.PlayerGrid[1*4+2])
	assert.Equal(t, CellState(1), s.PlayerGrid[1*4+3])
	assert.Equal(t, Unknown, s.PlayerGrid[0*4+0], "mine stays covered")
	assert.Equal(t, Unknown, s.PlayerGrid[2*4+0], "cascade does not cross the border")
	assert.False(t, s.Dead)
	assert.False(t, s.Won)
}

func TestOpenCellMineKills(t *testing.T) {
	s := fixedGame()
	s.OpenCell(0, 0)
	assert.True(t, s.Dead)
	assert.Equal(t, ExplodedMine, s.PlayerGrid[0])
	assert.Equal(t, Unknown, s.PlayerGrid[11], "other mine stays hidden")
}

func TestWinLeavesMinesCovered(t *testing.T) {
	s := fixedGame()
	s.OpenCell(2, 0)
	require.False(t, s.Won)
	s.OpenCell(1, 2) // second cascade leaves only the two mine squares covered
	require.True(t, s.Won)
	assert.Equal(t, UnflaggedMine, s.PlayerGrid[0])
	assert.Equal(t, UnflaggedMine, s.PlayerGrid[11])
}

func TestFlagToggleAndMinesRemaining(t *testing.T) {
	s := fixedGame()
	assert.Equal(t, 2, s.MinesRemaining())

	s.FlagCell(0, 0)
	assert.Equal(t, Flagged, s.PlayerGrid[0])
	assert.Equal(t, 1, s.MinesRemaining())

	s.FlagCell(1, 0)
	s.FlagCell(3, 2)
	assert.Equal(t, 0, s.MinesRemaining(), "over-flagging never goes negative")

	s.FlagCell(0, 0)
	assert.Equal(t, Unknown, s.PlayerGrid[0])
}

func TestChordCell(t *testing.T) {
	s := fixedGame()
	s.OpenCell(2, 1) // "1" next to the bottom-right mine
	require.Equal(t, CellState(1), s.PlayerGrid[1*4+2])

	s.FlagCell(3, 2)
	s.ChordCell(2, 1)

	// Every covered non-flag neighbor of (2,1) opens, the zeros among
	// them cascade, and only the flag and the far mine stay covered,
	// which wins the game.
	assert.NotEqual(t, Unknown, s.PlayerGrid[0*4+2])
	assert.NotEqual(t, Unknown, s.PlayerGrid[2*4+2])
	assert.Equal(t, Flagged, s.PlayerGrid[2*4+3])
	assert.False(t, s.Dead)
	assert.True(t, s.Won)
}

func TestForfeitRevealsGrid(t *testing.T) {
	s := fixedGame()
	s.FlagCell(0, 0)
	s.FlagCell(1, 0)
	s.Forfeit()

	assert.True(t, s.Dead)
	assert.Equal(t, CorrectlyFlagged, s.PlayerGrid[0])
	assert.Equal(t, FalselyFlagged, s.PlayerGrid[1])
	assert.Equal(t, UnflaggedMine, s.PlayerGrid[11])
}

func TestStateGobRoundTrip(t *testing.T) {
	s := fixedGame()
	s.OpenCell(2, 0)

	buf, err := s.Bytes()
	require.NoError(t, err)
	decoded, err := DecodeGameState(buf)
	require.NoError(t, err)
	assert.Equal(t, s, decoded)
}

func TestCloneIsIndependent(t *testing.T) {
	s := fixedGame()
	snapshot, err := s.Clone()
	require.NoError(t, err)

	s.OpenCell(0, 0)
	assert.True(t, s.Dead)
	assert.False(t, snapshot.Dead)
	assert.Equal(t, Unknown, snapshot.PlayerGrid[0])
}

func TestParseGridRoundTrip(t *testing.T) {
	grid, width := ParseGrid(`
		1 . *
		0 2 ?
	`)
	require.Equal(t, 3, width)
	require.Len(t, grid, 6)
	assert.Equal(t, CellState(1), grid[0])
	assert.Equal(t, Unknown, grid[1])
	assert.Equal(t, Flagged, grid[2])
	assert.Equal(t, CellState(0), grid[3])
	assert.Equal(t, CellState(2), grid[4])
	assert.Equal(t, Question, grid[5])
}

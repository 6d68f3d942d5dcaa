package handlers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeplab/minesweeper-server/internal/game"
	"github.com/sweeplab/minesweeper-server/internal/solver"
)

func TestParseCreateNewGameDTO(t *testing.T) {
	query, err := url.ParseQuery("width=9&height=9&mine_count=10&x=4&y=4")
	require.NoError(t, err)

	dto, err := ParseCreateNewGameDTO(query)
	require.NoError(t, err)
	assert.Equal(t, CreateNewGameDTO{Width: 9, Height: 9, MineCount: 10}, dto)

	pos, err := ParsePosition(query)
	require.NoError(t, err)
	assert.Equal(t, Position{X: 4, Y: 4}, pos)

	_, err = ParseCreateNewGameDTO(url.Values{"width": {"9"}})
	assert.Error(t, err, "missing required params")
}

func TestParseGameMove(t *testing.T) {
	for _, valid := range []string{"open", "flag", "chord"} {
		move, err := ParseGameMove(valid)
		require.NoError(t, err)
		assert.Equal(t, GameMove(valid), move)
	}
	_, err := ParseGameMove("poke")
	assert.Error(t, err)
}

func TestNewHintsDTO(t *testing.T) {
	grid, width := game.ParseGrid(`
		. . .
		1 1 .
	`)
	probs := solver.CalculateProbabilities(grid, width, 1)
	dto := NewHintsDTO(probs, 1)

	assert.Len(t, dto.Probabilities, 4)
	assert.Equal(t, 0.5, dto.Probabilities["0:0"])
	assert.Equal(t, 0.5, dto.Probabilities["1:0"])
	assert.Equal(t, []string{"2:0", "2:1"}, dto.Safe)
	assert.Empty(t, dto.Mines)
	assert.Equal(t, 1, dto.MinesRemaining)
}

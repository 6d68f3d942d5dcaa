package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeplab/minesweeper-server/internal/game"
)

func calculate(t *testing.T, layout string, minesRemaining int) ProbabilityMap {
	t.Helper()
	grid, width := game.ParseGrid(layout)
	require.NotEmpty(t, grid)
	return CalculateProbabilities(grid, width, minesRemaining)
}

func TestProbabilitiesAreComplete(t *testing.T) {
	layout := `
		* . 1 0
		. . 1 0
		1 1 1 0
	`
	grid, width := game.ParseGrid(layout)
	probs := CalculateProbabilities(grid, width, 1)

	covered := 0
	for i, s := range grid {
		cell := Cell{X: i % width, Y: i / width}
		if s == game.Unknown || s == game.Question {
			covered++
			p, ok := probs[cell]
			assert.True(t, ok, "no probability for covered cell %s", cell)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		} else {
			_, ok := probs[cell]
			assert.False(t, ok, "probability for non-covered cell %s", cell)
		}
	}
	assert.Len(t, probs, covered)
}

func TestTwoCellsNoSlack(t *testing.T) {
	// A "2" whose only covered neighbors are two cells: both must be
	// mines, exactly.
	probs := calculate(t, `
		2 .
		2 .
	`, 2)

	require.Len(t, probs, 2)
	assert.Equal(t, 1.0, probs[Cell{X: 1, Y: 0}])
	assert.Equal(t, 1.0, probs[Cell{X: 1, Y: 1}])
}

func TestSubsetResolvesFiftyFifty(t *testing.T) {
	// The left clue covers {A, B} with one mine; the middle clue
	// covers {A, B, C, D} with the same single mine. Subtracting the
	// first from the second proves C and D safe, leaving A and B an
	// exact coin flip.
	probs := calculate(t, `
		. . .
		1 1 .
	`, 1)

	require.Len(t, probs, 4)
	assert.Equal(t, 0.5, probs[Cell{X: 0, Y: 0}])
	assert.Equal(t, 0.5, probs[Cell{X: 1, Y: 0}])
	assert.Equal(t, 0.0, probs[Cell{X: 2, Y: 0}])
	assert.Equal(t, 0.0, probs[Cell{X: 2, Y: 1}])
}

func TestComponentsSolveIndependently(t *testing.T) {
	// Two covered clusters with no shared clue: changing a clue on the
	// right must not move probabilities on the left.
	before := calculate(t, `
		. 1 0 1 .
		. 1 0 1 .
	`, 2)
	after := calculate(t, `
		. 1 0 2 .
		. 1 0 2 .
	`, 3)

	left := []Cell{{X: 0, Y: 0}, {X: 0, Y: 1}}
	for _, cell := range left {
		assert.Equal(t, before[cell], after[cell], "left cluster moved at %s", cell)
	}
	assert.Equal(t, 0.5, before[Cell{X: 4, Y: 0}])
	assert.Equal(t, 1.0, after[Cell{X: 4, Y: 0}])
	assert.Equal(t, 1.0, after[Cell{X: 4, Y: 1}])
}

func TestNonFrontierCellsShareResidualBudget(t *testing.T) {
	// (1,0) is a certain mine; of the 2 remaining mines that leaves 1
	// to spread across the three cells no clue reaches.
	probs := calculate(t, `
		1 . . . .
	`, 2)

	require.Len(t, probs, 4)
	assert.Equal(t, 1.0, probs[Cell{X: 1, Y: 0}])
	for _, cell := range []Cell{{X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0}} {
		assert.InDelta(t, 1.0/3.0, probs[cell], 1e-9)
	}
}

func TestFlagsReduceConstraints(t *testing.T) {
	// The flag absorbs one mine from each adjacent clue: the "2" then
	// pins (1,0) as the remaining mine, which satisfies the other clue
	// and proves the rest safe.
	probs := calculate(t, `
		* . .
		2 2 .
	`, 1)

	require.Len(t, probs, 3)
	assert.Equal(t, 1.0, probs[Cell{X: 1, Y: 0}])
	assert.Equal(t, 0.0, probs[Cell{X: 2, Y: 0}])
	assert.Equal(t, 0.0, probs[Cell{X: 2, Y: 1}])
	_, flaggedHasValue := probs[Cell{X: 0, Y: 0}]
	assert.False(t, flaggedHasValue, "flagged cells get no probability")
}

func TestOversizedComponentFallsBack(t *testing.T) {
	// 26 covered cells tied into one component: past the exact-solver
	// ceiling, so every value comes from the density estimate. Nothing
	// here is certain, so nothing may read exactly 0 or 1.
	layout := `
		. . . . . . . . . . . . .
		2 3 3 3 3 3 3 3 3 3 3 3 2
		. . . . . . . . . . . . .
	`
	probs := calculate(t, layout, 13)

	require.Len(t, probs, 26)
	for cell, p := range probs {
		assert.Greater(t, p, 0.0, "cell %s", cell)
		assert.Less(t, p, 1.0, "cell %s", cell)
	}
}

func TestDeterminism(t *testing.T) {
	layout := `
		. . . . .
		1 2 . 2 .
		0 1 . 2 .
		0 1 2 3 .
	`
	first := calculate(t, layout, 5)
	second := calculate(t, layout, 5)
	assert.Equal(t, first, second)
}

func TestEmptyBoard(t *testing.T) {
	probs := calculate(t, `
		0 0
		0 0
	`, 0)
	assert.Empty(t, probs)
}

func TestNoCluesUniformBase(t *testing.T) {
	probs := calculate(t, `
		. .
		. .
	`, 2)

	require.Len(t, probs, 4)
	for cell, p := range probs {
		assert.InDelta(t, 0.5, p, 1e-9, "cell %s", cell)
	}
}

func TestDefinitiveCells(t *testing.T) {
	probs := calculate(t, `
		. . .
		1 1 .
	`, 1)

	safe, mined := probs.DefinitiveCells()
	assert.Equal(t, []Cell{{X: 2, Y: 0}, {X: 2, Y: 1}}, safe)
	assert.Empty(t, mined)

	probs = calculate(t, `
		2 .
		2 .
	`, 2)
	safe, mined = probs.DefinitiveCells()
	assert.Empty(t, safe)
	assert.Equal(t, []Cell{{X: 1, Y: 0}, {X: 1, Y: 1}}, mined)
}

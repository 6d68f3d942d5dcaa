// Package solver estimates, for every covered square on a minesweeper
// board, the probability that it hides a mine. It reasons purely from
// the player's knowledge (revealed numeric clues and flags), never
// from ground truth, so its output is safe to show as a learning aid.
//
// The pipeline: extract constraints from the grid, propagate logical
// deductions to a fixpoint, partition the surviving constraints into
// independent components, enumerate small components exactly and
// approximate the rest. The engine always produces a complete answer;
// malformed input degrades its precision, never its availability.
package solver

import (
	"slices"

	"github.com/sweeplab/minesweeper-server/internal/game"
)

// ProbabilityMap maps every covered, unflagged cell to a mine
// probability in [0, 1]. It is a fresh value per computation and
// should be discarded after any board mutation.
type ProbabilityMap map[Cell]float64

// CalculateProbabilities computes the mine probability of every
// covered, unflagged cell. minesRemaining is the number of mines not
// yet accounted for by flags; it only influences cells out of reach of
// any clue. The grid is read, never written.
func CalculateProbabilities(grid game.Grid, width, minesRemaining int) ProbabilityMap {
	unknown, constraints := extract(grid, width)

	probs := make(ProbabilityMap, len(unknown))
	if len(unknown) == 0 {
		return probs
	}

	constraints, known := propagate(constraints)

	// Certainties first: exactly 0 and exactly 1, not approximations.
	for cell := range known.safe {
		if unknown[cell] {
			probs[cell] = 0
		}
	}
	for cell := range known.mine {
		if unknown[cell] {
			probs[cell] = 1
		}
	}

	for _, group := range partition(constraints) {
		var solved map[Cell]float64
		if len(group.cells) <= maxExactCells {
			solved = solveExact(group)
		} else {
			solved = estimateByDensity(group)
		}
		for cell, p := range solved {
			probs[cell] = p
		}
	}

	// Cells beyond any constraint's reach share whatever part of the
	// mine budget the frontier does not already account for.
	expected := 0.0
	for _, p := range probs {
		expected += p
	}
	var nonFrontier []Cell
	for cell := range unknown {
		if _, ok := probs[cell]; !ok {
			nonFrontier = append(nonFrontier, cell)
		}
	}
	if len(nonFrontier) > 0 {
		p := clamp01((float64(minesRemaining) - expected) / float64(len(nonFrontier)))
		for _, cell := range nonFrontier {
			probs[cell] = p
		}
	}

	// Catch-all so no covered cell is ever left without a value.
	base := clamp01(float64(minesRemaining) / float64(len(unknown)))
	for cell := range unknown {
		if _, ok := probs[cell]; !ok {
			probs[cell] = base
		}
	}
	return probs
}

// DefinitiveCells partitions the certain subset of the map: cells with
// probability exactly 0 (safe to open) and exactly 1 (mines). Both
// slices come back sorted.
func (m ProbabilityMap) DefinitiveCells() (safe, mined []Cell) {
	for cell, p := range m {
		switch p {
		case 0:
			safe = append(safe, cell)
		case 1:
			mined = append(mined, cell)
		}
	}
	slices.SortFunc(safe, compareCells)
	slices.SortFunc(mined, compareCells)
	return safe, mined
}

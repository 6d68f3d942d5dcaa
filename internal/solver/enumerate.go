package solver

import "math/bits"

/*
 * Exact per-component enumeration. Each subset of the component's cell
 * set is one candidate mine assignment; an assignment is valid iff it
 * satisfies every constraint exactly. The caps are tuned for
 * interactive responsiveness, not derived from anything: components
 * beyond maxExactCells go to the density estimate instead, and
 * enumeration stops early once enough valid solutions are in hand.
 */
const (
	maxExactCells   = 20
	maxCombinations = 1 << 20
	maxSolutions    = 10000
)

// solveExact enumerates every mine assignment for one component and
// returns, per cell, the fraction of valid assignments that mine it.
// A component with no valid assignment at all (inconsistent input,
// should not happen) gets a neutral 0.5 everywhere.
func solveExact(group *component) map[Cell]float64 {
	n := len(group.cells)

	index := make(map[Cell]int, n)
	for i, cell := range group.cells {
		index[cell] = i
	}
	masks := make([]uint32, len(group.constraints))
	for ci, c := range group.constraints {
		for cell := range c.cells {
			masks[ci] |= 1 << index[cell]
		}
	}

	var (
		solutions int
		mined     = make([]int, n)
	)
	total := min(1<<n, maxCombinations)
	for assignment := 0; assignment < total && solutions < maxSolutions; assignment++ {
		valid := true
		for ci, c := range group.constraints {
			if bits.OnesCount32(uint32(assignment)&masks[ci]) != c.mines {
				valid = false
				break
			}
		}
		if !valid {
			continue
		}
		solutions++
		for i := range n {
			if assignment&(1<<i) != 0 {
				mined[i]++
			}
		}
	}

	probs := make(map[Cell]float64, n)
	for i, cell := range group.cells {
		if solutions == 0 {
			probs[cell] = 0.5
		} else {
			probs[cell] = float64(mined[i]) / float64(solutions)
		}
	}
	return probs
}

// estimateByDensity is the oversized-component approximation: each
// cell gets the unweighted mean of mines/|cells| over the constraints
// touching it.
func estimateByDensity(group *component) map[Cell]float64 {
	var (
		sums   = make(map[Cell]float64, len(group.cells))
		counts = make(map[Cell]int, len(group.cells))
	)
	for _, c := range group.constraints {
		if len(c.cells) == 0 {
			continue
		}
		ratio := float64(c.mines) / float64(len(c.cells))
		for cell := range c.cells {
			sums[cell] += ratio
			counts[cell]++
		}
	}
	probs := make(map[Cell]float64, len(sums))
	for cell, sum := range sums {
		probs[cell] = clamp01(sum / float64(counts[cell]))
	}
	return probs
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveExactCountsSolutions(t *testing.T) {
	a := Cell{X: 0, Y: 0}
	b := Cell{X: 1, Y: 0}
	c := Cell{X: 2, Y: 0}

	// {a,b,c} with one mine, and {b,c} with one mine: valid layouts
	// are {b} and {c}, so a is safe and b, c split evenly.
	group := &component{
		cells: []Cell{a, b, c},
		constraints: []*constraint{
			newConstraint(cellSet(a, b, c), 1),
			newConstraint(cellSet(b, c), 1),
		},
	}
	probs := solveExact(group)

	require.Len(t, probs, 3)
	assert.Equal(t, 0.0, probs[a])
	assert.Equal(t, 0.5, probs[b])
	assert.Equal(t, 0.5, probs[c])
}

func TestSolveExactUnsatisfiableIsNeutral(t *testing.T) {
	a := Cell{X: 0, Y: 0}
	b := Cell{X: 1, Y: 0}

	// No assignment can put both zero and two mines on {a, b}.
	// Every cell must still come back with a value, at 0.5.
	group := &component{
		cells: []Cell{a, b},
		constraints: []*constraint{
			newConstraint(cellSet(a, b), 0),
			newConstraint(cellSet(a, b), 2),
		},
	}
	probs := solveExact(group)

	assert.Equal(t, map[Cell]float64{a: 0.5, b: 0.5}, probs)
}

func TestEstimateByDensityAveragesRatios(t *testing.T) {
	a := Cell{X: 0, Y: 0}
	b := Cell{X: 1, Y: 0}
	c := Cell{X: 2, Y: 0}

	// b sits under two constraints with densities 1/2 and 1/3.
	group := &component{
		cells: []Cell{a, b, c},
		constraints: []*constraint{
			newConstraint(cellSet(a, b), 1),
			newConstraint(cellSet(a, b, c), 1),
		},
	}
	probs := estimateByDensity(group)

	require.Len(t, probs, 3)
	assert.InDelta(t, (0.5+1.0/3.0)/2, probs[a], 1e-9)
	assert.InDelta(t, (0.5+1.0/3.0)/2, probs[b], 1e-9)
	assert.InDelta(t, 1.0/3.0, probs[c], 1e-9)
}

func TestPartitionSplitsDisjointConstraints(t *testing.T) {
	a := Cell{X: 0, Y: 0}
	b := Cell{X: 1, Y: 0}
	c := Cell{X: 5, Y: 5}
	d := Cell{X: 6, Y: 5}
	e := Cell{X: 6, Y: 6}

	components := partition([]*constraint{
		newConstraint(cellSet(a, b), 1),
		newConstraint(cellSet(c, d), 1),
		newConstraint(cellSet(d, e), 1),
	})

	require.Len(t, components, 2)
	assert.Equal(t, []Cell{a, b}, components[0].cells)
	assert.Equal(t, []Cell{c, d, e}, components[1].cells)
	assert.Len(t, components[0].constraints, 1)
	assert.Len(t, components[1].constraints, 2)
}

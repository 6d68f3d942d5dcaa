package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cellSet(cells ...Cell) map[Cell]bool {
	set := make(map[Cell]bool, len(cells))
	for _, c := range cells {
		set[c] = true
	}
	return set
}

func TestPropagateSubsetDerivation(t *testing.T) {
	a := Cell{X: 0, Y: 0}
	b := Cell{X: 1, Y: 0}
	c := Cell{X: 2, Y: 0}
	d := Cell{X: 3, Y: 0}

	tests := []struct {
		name        string
		constraints []*constraint
		safe, mine  []Cell
	}{
		{
			name: "difference of zero mines proves safe",
			constraints: []*constraint{
				newConstraint(cellSet(a, b), 1),
				newConstraint(cellSet(a, b, c, d), 1),
			},
			safe: []Cell{c, d},
		},
		{
			name: "difference equal to its size proves mines",
			constraints: []*constraint{
				newConstraint(cellSet(a, b), 0),
				newConstraint(cellSet(a, b, c, d), 2),
			},
			safe: []Cell{a, b},
			mine: []Cell{c, d},
		},
		{
			name: "narrowing feeds further deduction",
			constraints: []*constraint{
				newConstraint(cellSet(a), 1),
				newConstraint(cellSet(a, b), 1),
				newConstraint(cellSet(b, c), 1),
			},
			safe: []Cell{b},
			mine: []Cell{a, c},
		},
		{
			name: "no derivation without strict subset",
			constraints: []*constraint{
				newConstraint(cellSet(a, b), 1),
				newConstraint(cellSet(b, c), 1),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, known := propagate(test.constraints)
			assert.Len(t, known.safe, len(test.safe))
			assert.Len(t, known.mine, len(test.mine))
			for _, cell := range test.safe {
				assert.True(t, known.safe[cell], "%s should be safe", cell)
			}
			for _, cell := range test.mine {
				assert.True(t, known.mine[cell], "%s should be a mine", cell)
			}
		})
	}
}

func TestPropagateClampsInconsistentCounts(t *testing.T) {
	a := Cell{X: 0, Y: 0}
	b := Cell{X: 1, Y: 0}

	// a is a known mine from the first constraint; the second claims
	// zero mines over {a, b}. Narrowing clamps its count at zero
	// instead of going negative, and b simply resolves safe.
	live, known := propagate([]*constraint{
		newConstraint(cellSet(a), 1),
		newConstraint(cellSet(a, b), 0),
	})

	assert.Empty(t, live)
	assert.True(t, known.mine[a])
	assert.True(t, known.safe[b])
}

func TestPropagateTerminates(t *testing.T) {
	// A dense overlapping family that keeps subset derivation busy;
	// the pass cap has to stop it regardless of what it finds.
	cells := make([]Cell, 12)
	for i := range cells {
		cells[i] = Cell{X: i, Y: 0}
	}
	var constraints []*constraint
	for i := 0; i+4 <= len(cells); i++ {
		constraints = append(constraints, newConstraint(cellSet(cells[i:i+4]...), 2))
	}
	for i := 0; i+6 <= len(cells); i += 2 {
		constraints = append(constraints, newConstraint(cellSet(cells[i:i+6]...), 3))
	}

	live, known := propagate(constraints)
	for _, c := range live {
		assert.GreaterOrEqual(t, c.mines, 0)
		assert.LessOrEqual(t, c.mines, len(c.cells))
	}
	for cell := range known.safe {
		assert.False(t, known.mine[cell], "%s in both known sets", cell)
	}
}

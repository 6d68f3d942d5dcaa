package solver

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/sweeplab/minesweeper-server/internal/game"
)

// Cell identifies one board square. Cells are plain values: two cells
// are the same square iff X and Y match, and (Y, X) gives them a total
// order so that everything downstream can iterate deterministically.
type Cell struct {
	X, Y int
}

func (c Cell) String() string {
	return strconv.Itoa(c.X) + ":" + strconv.Itoa(c.Y)
}

func compareCells(a, b Cell) int {
	if v := cmp.Compare(a.Y, b.Y); v != 0 {
		return v
	}
	return cmp.Compare(a.X, b.X)
}

// constraint says that exactly `mines` of `cells` hide mines. One is
// extracted per revealed numeric square, and more are derived during
// propagation. Constraints are narrowed in place as cells resolve.
type constraint struct {
	cells map[Cell]bool
	mines int
}

func newConstraint(cells map[Cell]bool, mines int) *constraint {
	return &constraint{cells: cells, mines: mines}
}

func (c *constraint) sortedCells() []Cell {
	cells := make([]Cell, 0, len(c.cells))
	for cell := range c.cells {
		cells = append(cells, cell)
	}
	slices.SortFunc(cells, compareCells)
	return cells
}

// signature is the structural identity used to deduplicate derived
// constraints: same cell set, same mine count.
func (c *constraint) signature() string {
	var b strings.Builder
	for _, cell := range c.sortedCells() {
		b.WriteString(cell.String())
		b.WriteByte(' ')
	}
	b.WriteByte('=')
	b.WriteString(strconv.Itoa(c.mines))
	return b.String()
}

// strictSubsetOf reports whether every cell of c also belongs to other,
// and other has at least one more.
func (c *constraint) strictSubsetOf(other *constraint) bool {
	if len(c.cells) >= len(other.cells) {
		return false
	}
	for cell := range c.cells {
		if !other.cells[cell] {
			return false
		}
	}
	return true
}

func covered(s game.CellState) bool {
	return s == game.Unknown || s == game.Question
}

// extract scans the player grid once and produces the set of covered,
// unflagged cells plus one constraint per revealed numeric square that
// still has covered neighbors. Flagged neighbors are subtracted from
// the square's count; a constraint that would require a negative number
// of mines means the flags around it are wrong, and carries no usable
// information, so it is dropped rather than reported.
func extract(grid game.Grid, width int) (map[Cell]bool, []*constraint) {
	height := len(grid) / width

	unknown := make(map[Cell]bool)
	for i, s := range grid {
		if covered(s) {
			unknown[Cell{X: i % width, Y: i / width}] = true
		}
	}

	var constraints []*constraint
	for i, s := range grid {
		if s < 1 || s > 8 {
			continue
		}
		x, y := i%width, i/width
		mines := int(s)
		cells := make(map[Cell]bool)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				switch n := grid[ny*width+nx]; {
				case n == game.Flagged:
					mines--
				case covered(n):
					cells[Cell{X: nx, Y: ny}] = true
				}
			}
		}
		if len(cells) == 0 || mines < 0 {
			continue
		}
		constraints = append(constraints, newConstraint(cells, mines))
	}
	return unknown, constraints
}

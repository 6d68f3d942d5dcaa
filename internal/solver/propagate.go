package solver

/*
 * Iterative logical deduction over the constraint list. Each pass
 * narrows constraints against what is already known, applies the two
 * basic rules (0 mines left => all safe, mines == cells => all mines),
 * and derives difference constraints from strict subset pairs. The
 * pass cap exists because subset derivation can in pathological cases
 * keep producing marginal new constraints; hitting it just stops
 * refinement early, it is not an error.
 */

const maxPropagationPasses = 100

// knownCells holds the cells resolved with certainty. Both sets only
// ever grow within one computation, and a resolved cell is never
// re-evaluated.
type knownCells struct {
	safe map[Cell]bool
	mine map[Cell]bool
}

func (k knownCells) markSafe(cell Cell) bool {
	if k.safe[cell] || k.mine[cell] {
		return false
	}
	k.safe[cell] = true
	return true
}

func (k knownCells) markMine(cell Cell) bool {
	if k.safe[cell] || k.mine[cell] {
		return false
	}
	k.mine[cell] = true
	return true
}

// narrow drops resolved cells from the constraint, decrementing the
// mine count for each known mine removed. The count is clamped to
// [0, len(cells)] so a bad flag layout degrades to "no information"
// instead of propagating nonsense.
func (c *constraint) narrow(known knownCells) bool {
	changed := false
	for cell := range c.cells {
		switch {
		case known.safe[cell]:
			delete(c.cells, cell)
			changed = true
		case known.mine[cell]:
			delete(c.cells, cell)
			c.mines--
			changed = true
		}
	}
	if c.mines < 0 {
		c.mines = 0
	}
	if c.mines > len(c.cells) {
		c.mines = len(c.cells)
	}
	return changed
}

// deduce applies the basic rules, emptying the constraint if it
// resolves completely.
func (c *constraint) deduce(known knownCells) bool {
	if len(c.cells) == 0 {
		return false
	}
	changed := false
	switch {
	case c.mines == 0:
		for cell := range c.cells {
			if known.markSafe(cell) {
				changed = true
			}
		}
		clear(c.cells)
	case c.mines == len(c.cells):
		for cell := range c.cells {
			if known.markMine(cell) {
				changed = true
			}
		}
		clear(c.cells)
		c.mines = 0
	}
	return changed
}

func propagate(constraints []*constraint) ([]*constraint, knownCells) {
	known := knownCells{
		safe: make(map[Cell]bool),
		mine: make(map[Cell]bool),
	}

	seen := make(map[string]bool, len(constraints))
	for _, c := range constraints {
		seen[c.signature()] = true
	}

	for range maxPropagationPasses {
		changed := false

		for _, c := range constraints {
			if c.narrow(known) {
				changed = true
			}
			if c.deduce(known) {
				changed = true
			}
		}

		live := constraints[:0]
		for _, c := range constraints {
			if len(c.cells) > 0 {
				live = append(live, c)
			}
		}
		constraints = live

		// Subset derivation: a strict subset c1 of c2 implies a new
		// constraint over c2 minus c1. Immediate resolutions are
		// applied on the spot; anything else is kept for future
		// passes, deduplicated structurally to bound growth.
		var derived []*constraint
		for _, c1 := range constraints {
			for _, c2 := range constraints {
				if c1 == c2 || !c1.strictSubsetOf(c2) {
					continue
				}
				diff := make(map[Cell]bool, len(c2.cells)-len(c1.cells))
				for cell := range c2.cells {
					if !c1.cells[cell] {
						diff[cell] = true
					}
				}
				mines := max(c2.mines-c1.mines, 0)
				d := newConstraint(diff, mines)
				switch {
				case mines == 0 || mines == len(diff):
					if d.deduce(known) {
						changed = true
					}
				default:
					if sig := d.signature(); !seen[sig] {
						seen[sig] = true
						derived = append(derived, d)
						changed = true
					}
				}
			}
		}
		constraints = append(constraints, derived...)

		if !changed {
			break
		}
	}

	live := constraints[:0]
	for _, c := range constraints {
		if len(c.cells) > 0 {
			live = append(live, c)
		}
	}
	return live, known
}

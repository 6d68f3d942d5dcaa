package solver

import "slices"

// unionFind over constraint indices, with path halving. Small and
// throwaway: one instance lives for one partitioning.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}

// component is a maximal group of constraints connected by shared
// cells. Mine placement in one component is treated as independent of
// every other; the shared global mine budget is only reconciled by the
// fallback layer.
type component struct {
	cells       []Cell // sorted
	constraints []*constraint
}

// partition groups constraints into components: any two constraints
// sharing at least one surviving cell end up under the same union-find
// root. Components come back in first-constraint order, cells sorted,
// so the whole pipeline stays deterministic.
func partition(constraints []*constraint) []*component {
	uf := newUnionFind(len(constraints))
	owner := make(map[Cell]int)
	for i, c := range constraints {
		for cell := range c.cells {
			if j, ok := owner[cell]; ok {
				uf.union(j, i)
			} else {
				owner[cell] = i
			}
		}
	}

	var (
		components []*component
		byRoot     = make(map[int]*component)
	)
	for i, c := range constraints {
		root := uf.find(i)
		group, ok := byRoot[root]
		if !ok {
			group = &component{}
			byRoot[root] = group
			components = append(components, group)
		}
		group.constraints = append(group.constraints, c)
	}

	for _, group := range components {
		cells := make(map[Cell]bool)
		for _, c := range group.constraints {
			for cell := range c.cells {
				cells[cell] = true
			}
		}
		for cell := range cells {
			group.cells = append(group.cells, cell)
		}
		slices.SortFunc(group.cells, compareCells)
	}
	return components
}

package matcher

import (
	"cmp"
	"math"
	"slices"

	"gamelink/internal/catalog"
)

// padCost fills cells without an eligible edge; it exceeds any 1-score cost
// so padded cells are only used when nothing better exists.
const padCost = 2.0

// assignOptimal maximizes total score over the eligible candidates. The
// candidate graph is split into connected components and each component is
// solved independently.
func assignOptimal(eligible []catalog.MatchCandidate) []catalog.MatchCandidate {
	var pairs []catalog.MatchCandidate
	for _, comp := range components(eligible) {
		pairs = append(pairs, solveComponent(comp)...)
	}
	return pairs
}

// components groups candidates that share an A or B record, transitively.
func components(cands []catalog.MatchCandidate) [][]catalog.MatchCandidate {
	parent := make(map[nodeID]nodeID)
	var find func(n nodeID) nodeID
	find = func(n nodeID) nodeID {
		p, ok := parent[n]
		if !ok || p == n {
			parent[n] = n
			return n
		}
		root := find(p)
		parent[n] = root
		return root
	}
	union := func(a, b nodeID) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}
	for _, c := range cands {
		union(nodeID{side: 'a', index: c.A.Index}, nodeID{side: 'b', index: c.B.Index})
	}

	groups := make(map[nodeID][]catalog.MatchCandidate)
	var roots []nodeID
	for _, c := range cands {
		root := find(nodeID{side: 'a', index: c.A.Index})
		if _, ok := groups[root]; !ok {
			roots = append(roots, root)
		}
		groups[root] = append(groups[root], c)
	}
	out := make([][]catalog.MatchCandidate, 0, len(roots))
	for _, r := range roots {
		out = append(out, groups[r])
	}
	return out
}

type nodeID struct {
	side  byte
	index int
}

// solveComponent runs the Hungarian method on one component. Rows and
// columns are ordered by record content so the result does not depend on
// input order.
func solveComponent(comp []catalog.MatchCandidate) []catalog.MatchCandidate {
	if len(comp) == 1 {
		return comp
	}
	rows := uniqueRefs(comp, func(c catalog.MatchCandidate) catalog.RecordRef { return c.A })
	cols := uniqueRefs(comp, func(c catalog.MatchCandidate) catalog.RecordRef { return c.B })
	rowPos := make(map[int]int, len(rows))
	for i, r := range rows {
		rowPos[r.Index] = i
	}
	colPos := make(map[int]int, len(cols))
	for j, c := range cols {
		colPos[c.Index] = j
	}

	n := max(len(rows), len(cols))
	cost := make([][]float64, n)
	edge := make([][]int, n)
	for i := range cost {
		cost[i] = make([]float64, n)
		edge[i] = make([]int, n)
		for j := range cost[i] {
			cost[i][j] = padCost
			edge[i][j] = -1
		}
	}
	for k, c := range comp {
		i, j := rowPos[c.A.Index], colPos[c.B.Index]
		if edge[i][j] >= 0 {
			continue
		}
		cost[i][j] = 1 - c.Score
		edge[i][j] = k
	}

	var pairs []catalog.MatchCandidate
	for i, j := range hungarian(cost) {
		if i >= len(rows) || j < 0 || j >= len(cols) {
			continue
		}
		if k := edge[i][j]; k >= 0 {
			pairs = append(pairs, comp[k])
		}
	}
	return pairs
}

func uniqueRefs(comp []catalog.MatchCandidate, pick func(catalog.MatchCandidate) catalog.RecordRef) []catalog.RecordRef {
	seen := make(map[int]struct{})
	var refs []catalog.RecordRef
	for _, c := range comp {
		ref := pick(c)
		if _, ok := seen[ref.Index]; ok {
			continue
		}
		seen[ref.Index] = struct{}{}
		refs = append(refs, ref)
	}
	slices.SortFunc(refs, func(x, y catalog.RecordRef) int {
		return cmp.Or(cmp.Compare(x.Key, y.Key), cmp.Compare(x.Origin, y.Origin), cmp.Compare(x.Index, y.Index))
	})
	return refs
}

// hungarian solves the square assignment problem minimizing total cost.
// It returns, for each row, the assigned column.
func hungarian(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}
	if len(cost[0]) != n {
		return nil
	}

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := 0; j <= n; j++ {
			minv[j] = math.Inf(1)
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
			if j0 == 0 {
				break
			}
		}
	}

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}
	for j := 1; j <= n; j++ {
		if p[j] > 0 {
			assign[p[j]-1] = j - 1
		}
	}
	return assign
}

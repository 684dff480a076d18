package flow

// DefaultMaxPasses bounds the number of relaxation passes in [AssignLanes].
const DefaultMaxPasses = 12

// Lanes is the outcome of lane assignment.
type Lanes struct {
	// Lane maps node id to its lane index.
	Lane map[string]int

	// Passes is the number of relaxation passes that ran.
	Passes int

	// Converged reports whether the assignment reached a fixed point, that
	// is, every non-overridden node with predecessors sits one lane past
	// its furthest predecessor. It is false when a cycle kept pushing
	// nodes outward until the pass cap was hit.
	Converged bool
}

// AssignLanes assigns every node a lane using iterative longest-path
// layering.
//
// Nodes with an explicit lane keep it. All other nodes start in lane 0.
// Each pass visits nodes in input order and moves a node with
// predecessors to 1 + the largest predecessor lane when that is further
// out than where it sits; updates are visible to later nodes in the same
// pass. Passes repeat until nothing moves or maxPasses is reached. The cap
// keeps cyclic graphs bounded; in that case the lanes from the last pass
// are kept and Converged is false.
//
// maxPasses below 1 is treated as [DefaultMaxPasses].
func AssignLanes(nodes []Node, edges []Edge, maxPasses int) Lanes {
	if maxPasses < 1 {
		maxPasses = DefaultMaxPasses
	}

	preds := make(map[string][]string, len(nodes))
	for _, e := range edges {
		preds[e.To] = append(preds[e.To], e.From)
	}

	lane := make(map[string]int, len(nodes))
	for _, n := range nodes {
		if n.Lane != nil {
			lane[n.ID] = *n.Lane
		} else {
			lane[n.ID] = 0
		}
	}

	relax := func(apply bool) bool {
		changed := false
		for _, n := range nodes {
			if n.Lane != nil || len(preds[n.ID]) == 0 {
				continue
			}
			m := lane[preds[n.ID][0]]
			for _, p := range preds[n.ID][1:] {
				m = max(m, lane[p])
			}
			if lane[n.ID] <= m {
				changed = true
				if !apply {
					return true
				}
				lane[n.ID] = m + 1
			}
		}
		return changed
	}

	out := Lanes{Lane: lane}
	for out.Passes < maxPasses {
		out.Passes++
		if !relax(true) {
			out.Converged = true
			return out
		}
	}
	out.Converged = !relax(false)
	return out
}

// FindCycles returns the edges that close a cycle, found by depth-first
// search from every source node and then from any node left unvisited.
// Removing the returned edges leaves the graph acyclic. Self-loops are
// reported as cycles.
func FindCycles(nodes []Node, edges []Edge) []Edge {
	const (
		white = iota
		gray
		black
	)

	children := make(map[string][]Edge, len(nodes))
	indegree := make(map[string]int, len(nodes))
	for _, e := range edges {
		children[e.From] = append(children[e.From], e)
		indegree[e.To]++
	}

	color := make(map[string]int, len(nodes))
	var back []Edge

	// Explicit stack of (node, next child edge) frames.
	type frame struct {
		id   string
		next int
	}
	visit := func(root string) {
		color[root] = gray
		stack := []frame{{id: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			out := children[top.id]
			if top.next == len(out) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			e := out[top.next]
			top.next++
			switch color[e.To] {
			case white:
				color[e.To] = gray
				stack = append(stack, frame{id: e.To})
			case gray:
				back = append(back, e)
			}
		}
	}

	for _, n := range nodes {
		if indegree[n.ID] == 0 && color[n.ID] == white {
			visit(n.ID)
		}
	}
	for _, n := range nodes {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	return back
}

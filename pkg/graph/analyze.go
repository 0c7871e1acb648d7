package graph

// =============================================================================
// In-Memory Graph Analysis
// =============================================================================

// DegreeCentrality returns the normalized degree centrality for every node:
// degree / (n - 1), where degree counts both incoming and outgoing
// relationships. Single-node graphs map to centrality 0.
func (s *Snapshot) DegreeCentrality() map[string]float64 {
	degree := make(map[string]int, len(s.Nodes))
	for _, n := range s.Nodes {
		degree[n.ID] = 0
	}
	for _, r := range s.Relationships {
		degree[r.SourceID]++
		degree[r.TargetID]++
	}

	out := make(map[string]float64, len(degree))
	denom := float64(len(s.Nodes) - 1)
	for id, d := range degree {
		if denom <= 0 {
			out[id] = 0
			continue
		}
		out[id] = float64(d) / denom
	}
	return out
}

// ConnectedComponents partitions node ids into weakly connected components.
// Relationship direction is ignored. Components are returned in discovery
// order; nodes within a component in traversal order.
func (s *Snapshot) ConnectedComponents() [][]string {
	adj := make(map[string][]string, len(s.Nodes))
	for _, n := range s.Nodes {
		adj[n.ID] = nil
	}
	for _, r := range s.Relationships {
		adj[r.SourceID] = append(adj[r.SourceID], r.TargetID)
		adj[r.TargetID] = append(adj[r.TargetID], r.SourceID)
	}

	visited := make(map[string]bool, len(s.Nodes))
	var components [][]string

	for _, n := range s.Nodes {
		if visited[n.ID] {
			continue
		}
		var comp []string
		stack := []string{n.ID}
		visited[n.ID] = true
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, id)
			for _, next := range adj[id] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
		components = append(components, comp)
	}
	return components
}

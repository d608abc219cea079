package graph

import "github.com/loomhq/loom/internal/domain"

// Upstream walks the graph backward from nodeID and returns every
// transitively reachable ancestor, nearest-first, deduplicated. A
// visited set makes cyclic graphs terminate; a node already seen is
// neither re-added nor re-traversed. Within one ring, ancestors
// appear in edge declaration order, so the result is stable for a
// given graph.
//
// The function is pure — no caching, no store access — so config
// panels can call it on every keystroke. O(V + E).
func Upstream(nodeID string, nodes []domain.Node, edges []domain.Edge) []domain.Node {
	byID := make(map[string]*domain.Node, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}
	if _, ok := byID[nodeID]; !ok {
		return nil
	}

	incoming := make(map[string][]string, len(nodes))
	for _, e := range edges {
		incoming[e.Target] = append(incoming[e.Target], e.Source)
	}

	visited := map[string]bool{nodeID: true}
	queue := []string{nodeID}
	var ancestors []domain.Node

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, src := range incoming[current] {
			if visited[src] {
				continue
			}
			visited[src] = true
			if n, ok := byID[src]; ok {
				ancestors = append(ancestors, n.Clone())
				queue = append(queue, src)
			}
		}
	}
	return ancestors
}

package graph

import (
	"container/heap"
	"math"
	"trip-planner-service/internal/ports"

	"github.com/rotisserie/eris"
)

type edge struct {
	to     string
	weight float64
}

// MemoryGraph is an in-process directed weighted graph answering shortest
// path queries with Dijkstra. It is built once per refinement and discarded.
type MemoryGraph struct {
	order []string
	adj   map[string][]edge
}

var _ ports.Graph = (*MemoryGraph)(nil)

func NewMemoryGraph() *MemoryGraph {
	return &MemoryGraph{adj: make(map[string][]edge)}
}

// Factory adapts NewMemoryGraph to the ports.Graph constructor shape.
func Factory() ports.Graph { return NewMemoryGraph() }

// AddNode is idempotent.
func (g *MemoryGraph) AddNode(id string) error {
	if id == "" {
		return eris.New("add node: empty id")
	}
	if _, ok := g.adj[id]; ok {
		return nil
	}
	g.adj[id] = nil
	g.order = append(g.order, id)
	return nil
}

// AddWeightedEdge adds from->to. A repeated edge keeps the lighter weight.
func (g *MemoryGraph) AddWeightedEdge(from, to string, weight float64) error {
	if _, ok := g.adj[from]; !ok {
		return eris.Wrapf(ports.ErrNodeNotFound, "add edge: from %q", from)
	}
	if _, ok := g.adj[to]; !ok {
		return eris.Wrapf(ports.ErrNodeNotFound, "add edge: to %q", to)
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return eris.Errorf("add edge: invalid weight %v for %s->%s", weight, from, to)
	}

	for i, e := range g.adj[from] {
		if e.to == to {
			if weight < e.weight {
				g.adj[from][i].weight = weight
			}
			return nil
		}
	}
	g.adj[from] = append(g.adj[from], edge{to: to, weight: weight})
	return nil
}

func (g *MemoryGraph) Nodes() int { return len(g.order) }

// ShortestPath runs Dijkstra from `from` and stops once `to` is settled.
// Equal-distance frontiers are popped in node insertion order so results
// are deterministic.
func (g *MemoryGraph) ShortestPath(from, to string) ([]string, error) {
	if _, ok := g.adj[from]; !ok {
		return nil, eris.Wrapf(ports.ErrNodeNotFound, "shortest path: source %q", from)
	}
	if _, ok := g.adj[to]; !ok {
		return nil, eris.Wrapf(ports.ErrNodeNotFound, "shortest path: target %q", to)
	}

	index := make(map[string]int, len(g.order))
	for i, id := range g.order {
		index[id] = i
	}

	dist := map[string]float64{from: 0}
	prev := make(map[string]string)
	settled := make(map[string]bool, len(g.order))

	pq := &nodePQ{}
	heap.Push(pq, &nodeItem{id: from, dist: 0, seq: index[from]})

	for pq.Len() > 0 {
		u := heap.Pop(pq).(*nodeItem)
		if settled[u.id] {
			continue
		}
		settled[u.id] = true
		if u.id == to {
			break
		}

		for _, e := range g.adj[u.id] {
			if settled[e.to] {
				continue
			}
			nd := u.dist + e.weight
			if d, ok := dist[e.to]; !ok || nd < d {
				dist[e.to] = nd
				prev[e.to] = u.id
				heap.Push(pq, &nodeItem{id: e.to, dist: nd, seq: index[e.to]})
			}
		}
	}

	if !settled[to] {
		return nil, eris.Wrapf(ports.ErrNoPath, "shortest path: %s -> %s", from, to)
	}

	path := []string{to}
	for cur := to; cur != from; {
		cur = prev[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

type nodeItem struct {
	id   string
	dist float64
	seq  int
}

type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }
func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}
func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x any)   { *pq = append(*pq, x.(*nodeItem)) }
func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	*pq = old[:n-1]
	return it
}

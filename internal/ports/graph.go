package ports

import "errors"

var (
	ErrNoPath       = errors.New("no path between nodes")
	ErrNodeNotFound = errors.New("node not found")
)

// Graph is a directed, weighted graph able to answer shortest path queries.
// Weights must be non-negative.
type Graph interface {
	AddNode(id string) error
	AddWeightedEdge(from, to string, weight float64) error
	// ShortestPath returns node ids from..to inclusive.
	ShortestPath(from, to string) ([]string, error)
}

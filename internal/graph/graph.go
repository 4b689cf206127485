// Package graph builds the per-run index over an architecture sketch:
// identifier lookup maps, adjacency lists, and structural validation.
// The engine resolves node and edge references exclusively through an
// Index; the input graph itself is never mutated.
package graph

import (
	"errors"
	"fmt"

	"github.com/sdcanvas/simulation-core/internal/behavior"
	"github.com/sdcanvas/simulation-core/pkg/models"
)

// Structural errors. They indicate an upstream validation bug in the
// loader or editor, so index construction fails fast on any of them.
var (
	ErrDuplicateNodeID = errors.New("duplicate node id")
	ErrDanglingEdge    = errors.New("edge references unknown node")
	ErrSelfLoop        = errors.New("edge connects a node to itself")
	ErrEmptyNodeID     = errors.New("node id cannot be empty")
)

// Index is the resolved view of a graph for one simulation run.
type Index struct {
	nodes     map[string]*models.SystemNode
	nodeOrder map[string]int // declaration order, for deterministic ties
	out       map[string][]*models.SystemEdge
	in        map[string][]*models.SystemEdge

	// Nodes and Edges preserve declaration order. Annotation nodes are
	// excluded: they carry no traffic.
	Nodes []*models.SystemNode
	Edges []*models.SystemEdge
}

// NewIndex validates the graph's structural integrity and builds the
// lookup index. Edges touching annotation nodes are dropped silently;
// the editor only produces them transiently while a note is being
// repositioned.
func NewIndex(g *models.Graph) (*Index, error) {
	idx := &Index{
		nodes:     make(map[string]*models.SystemNode, len(g.Nodes)),
		nodeOrder: make(map[string]int, len(g.Nodes)),
		out:       make(map[string][]*models.SystemEdge),
		in:        make(map[string][]*models.SystemEdge),
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.ID == "" {
			return nil, fmt.Errorf("node %d: %w", i, ErrEmptyNodeID)
		}
		if _, exists := idx.nodes[n.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
		}
		if _, err := behavior.GetNodeBehavior(n.Kind); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		idx.nodes[n.ID] = n
		if n.Kind != models.NodeKindAnnotation {
			idx.nodeOrder[n.ID] = len(idx.Nodes)
			idx.Nodes = append(idx.Nodes, n)
		}
	}

	for i := range g.Edges {
		e := &g.Edges[i]
		from, okFrom := idx.nodes[e.From]
		to, okTo := idx.nodes[e.To]
		if !okFrom {
			return nil, fmt.Errorf("edge %s: %w: from %q", e.ID, ErrDanglingEdge, e.From)
		}
		if !okTo {
			return nil, fmt.Errorf("edge %s: %w: to %q", e.ID, ErrDanglingEdge, e.To)
		}
		if e.From == e.To {
			return nil, fmt.Errorf("edge %s: %w: %q", e.ID, ErrSelfLoop, e.From)
		}
		if from.Kind == models.NodeKindAnnotation || to.Kind == models.NodeKindAnnotation {
			continue
		}
		idx.Edges = append(idx.Edges, e)
		idx.out[e.From] = append(idx.out[e.From], e)
		idx.in[e.To] = append(idx.in[e.To], e)
	}

	return idx, nil
}

// Node returns the node with the given identifier.
func (idx *Index) Node(id string) (*models.SystemNode, bool) {
	n, ok := idx.nodes[id]
	return n, ok
}

// Outbound returns a node's outbound edges in declaration order.
func (idx *Index) Outbound(id string) []*models.SystemEdge {
	return idx.out[id]
}

// Inbound returns a node's inbound edges in declaration order.
func (idx *Index) Inbound(id string) []*models.SystemEdge {
	return idx.in[id]
}

// Order returns the declaration position of a simulated node, used for
// stable tie-breaking. Unknown identifiers sort last.
func (idx *Index) Order(id string) int {
	if o, ok := idx.nodeOrder[id]; ok {
		return o
	}
	return len(idx.Nodes)
}

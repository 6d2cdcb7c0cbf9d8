// Package dependency resolves task dependencies to bar anchors and checks
// the dependency graph for cycles.
package dependency

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Graph is the dependency set as a directed graph over record IDs.
type Graph struct {
	g     *simple.DirectedGraph
	ids   map[string]int64
	names map[int64]string
	self  []string
}

// Build maps record IDs to graph nodes. Self references cannot be stored in
// a simple graph and are kept aside as one-node cycles.
func Build(deps []domain.Dependency) *Graph {
	gr := &Graph{
		g:     simple.NewDirectedGraph(),
		ids:   make(map[string]int64),
		names: make(map[int64]string),
	}
	for _, d := range deps {
		if d.From == d.To {
			gr.node(d.From)
			gr.self = append(gr.self, d.From)
			continue
		}
		from, to := gr.node(d.From), gr.node(d.To)
		if gr.g.HasEdgeFromTo(from.ID(), to.ID()) {
			continue
		}
		gr.g.SetEdge(gr.g.NewEdge(from, to))
	}
	return gr
}

func (gr *Graph) node(id string) graph.Node {
	if n, ok := gr.ids[id]; ok {
		return gr.g.Node(n)
	}
	n := gr.g.NewNode()
	gr.g.AddNode(n)
	gr.ids[id] = n.ID()
	gr.names[n.ID()] = id
	return n
}

// Len is the number of distinct record IDs referenced.
func (gr *Graph) Len() int { return len(gr.ids) }

// Cycles returns every elementary cycle as a list of record IDs, sorted for
// stable output.
func (gr *Graph) Cycles() [][]string {
	var out [][]string
	for _, id := range gr.self {
		out = append(out, []string{id})
	}
	for _, cyc := range topo.DirectedCyclesIn(gr.g) {
		// gonum repeats the first node at the end
		if len(cyc) > 1 && cyc[0].ID() == cyc[len(cyc)-1].ID() {
			cyc = cyc[:len(cyc)-1]
		}
		names := make([]string, len(cyc))
		for i, n := range cyc {
			names[i] = gr.names[n.ID()]
		}
		out = append(out, names)
	}
	sort.Slice(out, func(i, j int) bool {
		return fmt.Sprint(out[i]) < fmt.Sprint(out[j])
	})
	return out
}

// Order returns record IDs in dependency order, or an error when the graph
// has cycles.
func (gr *Graph) Order() ([]string, error) {
	if len(gr.self) > 0 {
		return nil, fmt.Errorf("dependency order: %s depends on itself", gr.self[0])
	}
	nodes, err := topo.SortStabilized(gr.g, func(ns []graph.Node) {
		sort.Slice(ns, func(i, j int) bool { return gr.names[ns[i].ID()] < gr.names[ns[j].ID()] })
	})
	if err != nil {
		return nil, fmt.Errorf("dependency order: %w", err)
	}
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = gr.names[n.ID()]
	}
	return out, nil
}

// Validate reports dependencies with unknown types or endpoints.
func Validate(deps []domain.Dependency, known func(id string) bool) []error {
	var errs []error
	for i, d := range deps {
		if !domain.ValidDependencyTypes[d.Type] {
			errs = append(errs, fmt.Errorf("dependencies[%d]: unknown type %q", i, d.Type))
		}
		if d.From == "" || d.To == "" {
			errs = append(errs, fmt.Errorf("dependencies[%d]: from and to are required", i))
			continue
		}
		if known == nil {
			continue
		}
		if !known(d.From) {
			errs = append(errs, fmt.Errorf("dependencies[%d]: unknown task %q", i, d.From))
		}
		if !known(d.To) {
			errs = append(errs, fmt.Errorf("dependencies[%d]: unknown task %q", i, d.To))
		}
	}
	return errs
}

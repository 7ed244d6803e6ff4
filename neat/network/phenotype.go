// Package network builds an executable phenotype out of a genome - a
// topologically validated evaluation order over the genome's enabled
// subgraph - and runs the forward-pass activation.
package network

import (
	"math/rand"

	"github.com/go-evolve/neat/neat"
	"github.com/go-evolve/neat/neat/genetics"
	"github.com/pkg/errors"
)

// Phenotype is a genome paired with a topological evaluation order: for
// every enabled connection u->v in the genome, u precedes v in TopoOrder.
// TopoOrder contains every node in the genome exactly once.
type Phenotype struct {
	Genome    *genetics.Genome
	TopoOrder []int
}

// Build produces a Phenotype from g by topologically sorting its
// enabled-edge subgraph with Kahn's algorithm: compute in-degree for every
// node, seed the frontier with in-degree-zero nodes, repeatedly pop one,
// append it to the order and decrement its successors' in-degree, enqueuing
// any that reach zero. If the resulting order is shorter than the node
// count, the enabled subgraph has a cycle and Build fails with
// ErrInvalidTopology. AddConnection and AddNode can together produce a
// cyclic genome, so a mutation retry loop such as FromMutation relies on
// this check to discard it.
func Build(g *genetics.Genome) (*Phenotype, error) {
	inDegree := make(map[int]int, len(g.Nodes))
	successors := make(map[int][]int, len(g.Nodes))
	for _, n := range g.Nodes {
		inDegree[n.Id] = 0
	}
	for _, c := range g.Connections {
		if !c.Enabled {
			continue
		}
		inDegree[c.OutNode]++
		successors[c.InNode] = append(successors[c.InNode], c.OutNode)
	}

	frontier := make([]int, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if inDegree[n.Id] == 0 {
			frontier = append(frontier, n.Id)
		}
	}

	order := make([]int, 0, len(g.Nodes))
	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		order = append(order, id)
		for _, succ := range successors[id] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				frontier = append(frontier, succ)
			}
		}
	}

	if len(order) < len(g.Nodes) {
		return nil, errors.Wrapf(neat.ErrInvalidTopology,
			"enabled subgraph has a cycle: topological order covers %d of %d nodes", len(order), len(g.Nodes))
	}

	return &Phenotype{Genome: g, TopoOrder: order}, nil
}

// Clone returns a deep copy of the phenotype: its genome is cloned and its
// topological order copied, so the result shares no state with p and can be
// mutated independently - used for elitism, where the best member of a
// species must survive into the next generation unaliased.
func (p *Phenotype) Clone() *Phenotype {
	order := make([]int, len(p.TopoOrder))
	copy(order, p.TopoOrder)
	return &Phenotype{Genome: p.Genome.Clone(), TopoOrder: order}
}

// FromMutation clones parent, mutates the clone, and attempts Build,
// retrying up to opts.MaxPhenotypeRetries times with a fresh mutation of the
// original parent each time a build fails with a cyclic topology. Exceeding
// the bound surfaces ErrInvalidTopology.
func FromMutation(rng *rand.Rand, parent *genetics.Genome, innovator *genetics.InnovationRegistry, opts *neat.Options) (*Phenotype, error) {
	var lastErr error
	for attempt := 0; attempt < opts.MaxPhenotypeRetries; attempt++ {
		child := parent.Clone()
		child.Mutate(rng, innovator, opts)
		phenotype, err := Build(child)
		if err == nil {
			return phenotype, nil
		}
		lastErr = err
	}
	return nil, errors.Wrapf(lastErr, "exceeded %d phenotype-build retries", opts.MaxPhenotypeRetries)
}

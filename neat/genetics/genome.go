package genetics

import (
	"sort"

	"github.com/go-evolve/neat/neat"
	"github.com/pkg/errors"
)

// Genome is the heritable encoding of a feed-forward neural network: a
// fixed set of node ids plus a list of connection genes between them.
//
// NumInputs includes the constant bias input at node id 0, so a network
// configured with I real inputs stores NumInputs == I+1. Node ids
// 1..NumInputs-1 are the real inputs, NumInputs..NumInputs+NumOutputs-1 are
// the outputs, and any id beyond that is a hidden node created by add-node
// mutation.
type Genome struct {
	NumInputs   int
	NumOutputs  int
	Nodes       []*NodeGene
	Connections []*ConnectionGene
}

// NewGenome constructs a minimal genome with no connections: a bias node,
// numRealInputs real inputs and numOutputs outputs, densely numbered
// starting at 0.
func NewGenome(numRealInputs, numOutputs int) *Genome {
	numInputs := numRealInputs + 1
	nodes := make([]*NodeGene, 0, numInputs+numOutputs)
	for id := 0; id < numInputs+numOutputs; id++ {
		nodes = append(nodes, &NodeGene{Id: id})
	}
	return &Genome{
		NumInputs:   numInputs,
		NumOutputs:  numOutputs,
		Nodes:       nodes,
		Connections: make([]*ConnectionGene, 0),
	}
}

// Clone returns a deep copy of the genome: the caller may freely mutate the
// copy without affecting the original.
func (g *Genome) Clone() *Genome {
	nodes := make([]*NodeGene, len(g.Nodes))
	for i, n := range g.Nodes {
		nn := *n
		nodes[i] = &nn
	}
	conns := make([]*ConnectionGene, len(g.Connections))
	for i, c := range g.Connections {
		conns[i] = c.clone()
	}
	return &Genome{
		NumInputs:   g.NumInputs,
		NumOutputs:  g.NumOutputs,
		Nodes:       nodes,
		Connections: conns,
	}
}

// lastNodeId returns the greatest node id in this genome.
func (g *Genome) lastNodeId() int {
	max := 0
	for _, n := range g.Nodes {
		if n.Id > max {
			max = n.Id
		}
	}
	return max
}

// hasNodeId reports whether id is a member of this genome's node set.
func (g *Genome) hasNodeId(id int) bool {
	for _, n := range g.Nodes {
		if n.Id == id {
			return true
		}
	}
	return false
}

// isInput reports whether id names the bias node or a real input node.
func (g *Genome) isInput(id int) bool {
	return id >= 0 && id < g.NumInputs
}

// isOutput reports whether id names an output node.
func (g *Genome) isOutput(id int) bool {
	return id >= g.NumInputs && id < g.NumInputs+g.NumOutputs
}

// insertConnection inserts c into Connections, keeping the slice sorted by
// innovation number as required by the data model.
func (g *Genome) insertConnection(c *ConnectionGene) {
	i := sort.Search(len(g.Connections), func(i int) bool {
		return g.Connections[i].InnovationNum >= c.InnovationNum
	})
	g.Connections = append(g.Connections, nil)
	copy(g.Connections[i+1:], g.Connections[i:])
	g.Connections[i] = c
}

// maxInnovation returns the greatest innovation number among this genome's
// connections, or -1 if it has none.
func (g *Genome) maxInnovation() int64 {
	if len(g.Connections) == 0 {
		return -1
	}
	return g.Connections[len(g.Connections)-1].InnovationNum
}

// hasEdge reports whether this genome already has a connection gene (enabled
// or not) between the ordered pair (in, out).
func (g *Genome) hasEdge(in, out int) bool {
	for _, c := range g.Connections {
		if c.sameEdge(in, out) {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of the data model that are not
// enforced by construction: every connection's endpoints must name existing
// nodes, no two enabled connections may share an (in,out) pair, no
// connection may target the bias or an input node, and every weight must be
// finite. It is the check the persistence boundary runs on decoded genomes
// (see neat/persist); it does not look for cycles, which is the phenotype
// builder's separate check.
func (g *Genome) Validate() error {
	if g.NumInputs < 1 {
		return errors.Wrap(neat.ErrInvalidGenome, "num_inputs must include the bias node")
	}
	if g.NumOutputs < 1 {
		return errors.Wrap(neat.ErrInvalidGenome, "num_outputs must be at least 1")
	}
	seenNode := make(map[int]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seenNode[n.Id] {
			return errors.Wrapf(neat.ErrInvalidGenome, "duplicate node id %d", n.Id)
		}
		seenNode[n.Id] = true
	}
	seenEnabledEdge := make(map[edgeKey]bool)
	for _, c := range g.Connections {
		if !seenNode[c.InNode] {
			return errors.Wrapf(neat.ErrInvalidGenome, "connection references unknown in_node %d", c.InNode)
		}
		if !seenNode[c.OutNode] {
			return errors.Wrapf(neat.ErrInvalidGenome, "connection references unknown out_node %d", c.OutNode)
		}
		if g.isInput(c.OutNode) {
			return errors.Wrapf(neat.ErrInvalidGenome, "connection %d->%d targets a bias/input node", c.InNode, c.OutNode)
		}
		if math64IsNaNOrInf(c.Weight) {
			return errors.Wrapf(neat.ErrInvalidGenome, "connection %d->%d has non-finite weight %f", c.InNode, c.OutNode, c.Weight)
		}
		if c.Enabled {
			key := edgeKey{in: c.InNode, out: c.OutNode}
			if seenEnabledEdge[key] {
				return errors.Wrapf(neat.ErrInvalidGenome, "duplicate enabled connection %d->%d", c.InNode, c.OutNode)
			}
			seenEnabledEdge[key] = true
		}
	}
	return nil
}

package genetics

import (
	"math/rand"

	"github.com/go-evolve/neat/neat"
)

// AddConnection attempts to grow a new structural edge between two nodes
// that are not already connected in either direction, are not both
// inputs/bias or both outputs, and are oriented low-id -> high-id. The
// orientation rule does not by itself keep the enabled subgraph acyclic:
// AddNode gives the new node the highest id and adds an edge from it to the
// old target, so a later low->high edge can close a cycle through it. Such
// genomes are rejected by network.Build. If no eligible pair exists the
// mutation is a no-op.
func (g *Genome) AddConnection(rng *rand.Rand, innovator *InnovationRegistry) {
	candidates := g.candidateConnectionPairs()
	if len(candidates) == 0 {
		return
	}
	pick := candidates[rng.Intn(len(candidates))]
	innov := innovator.IssueInnovation(pick.in, pick.out)
	g.insertConnection(NewConnectionGene(pick.in, pick.out, 1.0, innov))
}

// candidateConnectionPairs enumerates every (a,b) pair with a.Id < b.Id that
// is not already represented among this genome's connections (in either
// direction) and is not input<->input or output<->output.
func (g *Genome) candidateConnectionPairs() []edgeKey {
	var candidates []edgeKey
	for i := 0; i < len(g.Nodes); i++ {
		for j := 0; j < len(g.Nodes); j++ {
			a, b := g.Nodes[i].Id, g.Nodes[j].Id
			if a >= b {
				continue
			}
			if g.isInput(a) && g.isInput(b) {
				continue
			}
			if g.isOutput(a) && g.isOutput(b) {
				continue
			}
			if g.hasEdge(a, b) || g.hasEdge(b, a) {
				continue
			}
			candidates = append(candidates, edgeKey{in: a, out: b})
		}
	}
	return candidates
}

// AddNode splits one randomly chosen enabled connection u->v by inserting a
// new hidden node on its path: u->new with the old connection's weight and
// new->v with weight 1.0, both freshly innovated. The old connection is
// disabled and its weight reset to 1.0. The result is topologically
// equivalent to the parent - the new node simply lies on the path the old
// connection used to traverse directly.
func (g *Genome) AddNode(rng *rand.Rand, innovator *InnovationRegistry) {
	enabled := g.enabledConnections()
	if len(enabled) == 0 {
		return
	}
	c := enabled[rng.Intn(len(enabled))]

	newID := g.lastNodeId() + 1
	g.Nodes = append(g.Nodes, &NodeGene{Id: newID})

	innov1 := innovator.IssueInnovation(c.InNode, newID)
	innov2 := innovator.IssueInnovation(newID, c.OutNode)
	g.insertConnection(NewConnectionGene(c.InNode, newID, c.Weight, innov1))
	g.insertConnection(NewConnectionGene(newID, c.OutNode, 1.0, innov2))

	c.Enabled = false
	c.Weight = 1.0
}

func (g *Genome) enabledConnections() []*ConnectionGene {
	var out []*ConnectionGene
	for _, c := range g.Connections {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}

// MutateWeightsAndToggle applies, independently to every connection gene:
// a ToggleEnabledProb chance of flipping Enabled, then a WeightMutationProb
// chance of changing Weight - perturbed by a zero-mean Gaussian with
// WeightPerturbProb, or else replaced by a uniform draw from
// [-WeightReplaceRange, WeightReplaceRange].
func (g *Genome) MutateWeightsAndToggle(rng *rand.Rand, opts *neat.Options) {
	for _, c := range g.Connections {
		if rng.Float64() < opts.ToggleEnabledProb {
			c.Enabled = !c.Enabled
		}
		if rng.Float64() < opts.WeightMutationProb {
			if rng.Float64() < opts.WeightPerturbProb {
				c.Weight += rng.NormFloat64() * opts.WeightPerturbStdDev
			} else {
				c.Weight = (rng.Float64()*2 - 1) * opts.WeightReplaceRange
			}
		}
	}
}

// Mutate always runs MutateWeightsAndToggle, then with ConnectionMutationProb
// runs AddConnection, then with NodeMutationProb runs AddNode. The caller is
// expected to validate the resulting genome against the phenotype builder
// and discard/retry on InvalidTopology - see Phenotype.FromMutation.
func (g *Genome) Mutate(rng *rand.Rand, innovator *InnovationRegistry, opts *neat.Options) {
	g.MutateWeightsAndToggle(rng, opts)
	if rng.Float64() < opts.ConnectionMutationProb {
		g.AddConnection(rng, innovator)
	}
	if rng.Float64() < opts.NodeMutationProb {
		g.AddNode(rng, innovator)
	}
}

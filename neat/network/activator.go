package network

import (
	"math"

	"github.com/go-evolve/neat/neat"
	"github.com/pkg/errors"
)

// Activate runs one forward pass of the phenotype on inputs, which must have
// length NumInputs-1 (the real inputs, excluding the bias). It is pure: it
// never mutates the phenotype or its genome, and is deterministic given
// inputs.
//
// Node 0 (bias) is set to exactly 1.0 before any summation. Each other node
// in TopoOrder not already seeded from inputs is evaluated as
// tanh(sum over incoming enabled edges of value[in_node]*weight); a node
// with no incoming enabled edge evaluates to tanh(0) == 0. The result is
// the values at the output node ids, in id order.
func (p *Phenotype) Activate(inputs []float64) ([]float64, error) {
	g := p.Genome
	if len(inputs) != g.NumInputs-1 {
		return nil, errors.Wrapf(neat.ErrInputArityMismatch,
			"expected %d inputs, got %d", g.NumInputs-1, len(inputs))
	}

	incoming := make(map[int][]*incomingEdge, len(g.Nodes))
	for _, c := range g.Connections {
		if !c.Enabled {
			continue
		}
		incoming[c.OutNode] = append(incoming[c.OutNode], &incomingEdge{from: c.InNode, weight: c.Weight})
	}

	values := make(map[int]float64, len(g.Nodes))
	values[0] = 1.0
	for i := 1; i < g.NumInputs; i++ {
		values[i] = inputs[i-1]
	}

	for _, id := range p.TopoOrder {
		if _, ok := values[id]; ok {
			continue
		}
		var sum float64
		for _, e := range incoming[id] {
			v := values[e.from] // missing source values default to the zero value, 0.0
			sum += v * e.weight
		}
		values[id] = math.Tanh(sum)
	}

	outputs := make([]float64, g.NumOutputs)
	for i := 0; i < g.NumOutputs; i++ {
		outputs[i] = values[g.NumInputs+i]
	}
	return outputs, nil
}

type incomingEdge struct {
	from   int
	weight float64
}

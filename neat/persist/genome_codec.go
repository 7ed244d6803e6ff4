// Package persist is the external persistence collaborator: it converts a
// genetics.Genome to and from bytes. The core package never depends on it
// and makes no assumption about byte layout - only that
// DecodeGenome(EncodeGenome(g)) round-trips (num_inputs, num_outputs, the
// node set and the connection set sorted by innovation number), and that
// malformed streams are rejected: a stream that is not valid JSON with a
// JSON decoding error, a genome that breaks a structural invariant with
// neat.ErrInvalidGenome.
package persist

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/go-evolve/neat/neat/genetics"
	"github.com/pkg/errors"
)

// wireGenome is the on-disk encoding of a genome: plain JSON rather than a
// bespoke line format, since nothing in the contract calls for a specific
// byte layout.
type wireGenome struct {
	NumInputs   int              `json:"num_inputs"`
	NumOutputs  int              `json:"num_outputs"`
	Nodes       []wireNode       `json:"nodes"`
	Connections []wireConnection `json:"connections"`
}

type wireNode struct {
	Id int `json:"id"`
}

type wireConnection struct {
	InNode        int     `json:"in_node"`
	OutNode       int     `json:"out_node"`
	Weight        float64 `json:"weight"`
	Enabled       bool    `json:"enabled"`
	InnovationNum int64   `json:"innov"`
}

// EncodeGenome writes g to w as JSON.
func EncodeGenome(w io.Writer, g *genetics.Genome) error {
	wire := wireGenome{
		NumInputs:   g.NumInputs,
		NumOutputs:  g.NumOutputs,
		Nodes:       make([]wireNode, len(g.Nodes)),
		Connections: make([]wireConnection, len(g.Connections)),
	}
	for i, n := range g.Nodes {
		wire.Nodes[i] = wireNode{Id: n.Id}
	}
	for i, c := range g.Connections {
		wire.Connections[i] = wireConnection{
			InNode:        c.InNode,
			OutNode:       c.OutNode,
			Weight:        c.Weight,
			Enabled:       c.Enabled,
			InnovationNum: c.InnovationNum,
		}
	}
	enc := json.NewEncoder(w)
	return enc.Encode(&wire)
}

// DecodeGenome reads a genome from r and validates it against the data
// model's structural invariants, rejecting with neat.ErrInvalidGenome any
// stream with non-finite weights, duplicate (in,out) pairs among enabled
// connections, or connections referencing unknown nodes.
func DecodeGenome(r io.Reader) (*genetics.Genome, error) {
	var wire wireGenome
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wire); err != nil {
		return nil, errors.Wrap(err, "failed to decode genome")
	}

	g := &genetics.Genome{
		NumInputs:   wire.NumInputs,
		NumOutputs:  wire.NumOutputs,
		Nodes:       make([]*genetics.NodeGene, len(wire.Nodes)),
		Connections: make([]*genetics.ConnectionGene, len(wire.Connections)),
	}
	for i, n := range wire.Nodes {
		g.Nodes[i] = &genetics.NodeGene{Id: n.Id}
	}
	for i, c := range wire.Connections {
		g.Connections[i] = &genetics.ConnectionGene{
			InNode:        c.InNode,
			OutNode:       c.OutNode,
			Weight:        c.Weight,
			Enabled:       c.Enabled,
			InnovationNum: c.InnovationNum,
		}
	}

	sort.Slice(g.Connections, func(i, j int) bool {
		return g.Connections[i].InnovationNum < g.Connections[j].InnovationNum
	})

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

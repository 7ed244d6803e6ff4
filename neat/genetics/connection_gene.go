package genetics

import "fmt"

// ConnectionGene is a weighted, directed edge between two node ids. Its
// InnovationNum is the structural identity shared by every genome that has
// independently grown the same (InNode, OutNode) edge within a generation -
// it tracks structure, not whether the edge is currently enabled.
type ConnectionGene struct {
	InNode  int
	OutNode int
	Weight  float64
	Enabled bool
	// InnovationNum is the global innovation number of this edge, assigned
	// by an InnovationRegistry.
	InnovationNum int64
}

// NewConnectionGene constructs an enabled connection gene.
func NewConnectionGene(in, out int, weight float64, innov int64) *ConnectionGene {
	return &ConnectionGene{
		InNode:        in,
		OutNode:       out,
		Weight:        weight,
		Enabled:       true,
		InnovationNum: innov,
	}
}

// clone returns a deep copy of this gene.
func (c *ConnectionGene) clone() *ConnectionGene {
	cp := *c
	return &cp
}

// sameEdge reports whether this gene connects the ordered pair (in, out),
// regardless of weight, innovation number or enabled state.
func (c *ConnectionGene) sameEdge(in, out int) bool {
	return c.InNode == in && c.OutNode == out
}

func (c *ConnectionGene) String() string {
	state := "enabled"
	if !c.Enabled {
		state = "disabled"
	}
	return fmt.Sprintf("[%d->%d innov=%d w=%.4f %s]", c.InNode, c.OutNode, c.InnovationNum, c.Weight, state)
}

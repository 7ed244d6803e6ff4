package network

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-evolve/neat/neat"
	"github.com/go-evolve/neat/neat/genetics"
)

func TestBuild_OrdersFeedForwardGraph(t *testing.T) {
	g := genetics.NewGenome(2, 1) // nodes: 0 bias, 1,2 inputs, 3 output
	g.Connections = append(g.Connections,
		genetics.NewConnectionGene(1, 3, 1.0, 0),
		genetics.NewConnectionGene(2, 3, 1.0, 1))

	p, err := Build(g)
	require.NoError(t, err)
	assert.Len(t, p.TopoOrder, 4)

	pos := make(map[int]int, len(p.TopoOrder))
	for i, id := range p.TopoOrder {
		pos[id] = i
	}
	assert.Less(t, pos[1], pos[3])
	assert.Less(t, pos[2], pos[3])
}

func TestBuild_IgnoresDisabledEdgesForOrdering(t *testing.T) {
	g := genetics.NewGenome(1, 1)
	hidden := &genetics.NodeGene{Id: 3}
	g.Nodes = append(g.Nodes, hidden)
	c := genetics.NewConnectionGene(2, 3, 1.0, 0) // output -> hidden, disabled
	c.Enabled = false
	g.Connections = append(g.Connections, c)

	p, err := Build(g)
	require.NoError(t, err)
	assert.Len(t, p.TopoOrder, 4)
}

func TestBuild_DetectsCycle(t *testing.T) {
	g := genetics.NewGenome(1, 1)
	hidden := &genetics.NodeGene{Id: 3}
	g.Nodes = append(g.Nodes, hidden)
	g.Connections = append(g.Connections,
		genetics.NewConnectionGene(1, 3, 1.0, 0),
		genetics.NewConnectionGene(3, 2, 1.0, 1),
		genetics.NewConnectionGene(2, 3, 1.0, 2), // closes a cycle: 3 -> 2 -> 3
	)

	_, err := Build(g)
	require.Error(t, err)
	assert.ErrorIs(t, err, neat.ErrInvalidTopology)
}

func TestPhenotypeClone_IsDeepCopy(t *testing.T) {
	g := genetics.NewGenome(2, 1)
	g.Connections = append(g.Connections, genetics.NewConnectionGene(1, 3, 1.0, 0))
	p, err := Build(g)
	require.NoError(t, err)

	clone := p.Clone()
	assert.NotSame(t, p.Genome, clone.Genome)
	assert.Equal(t, p.TopoOrder, clone.TopoOrder)

	clone.Genome.Connections[0].Weight = 99.0
	clone.TopoOrder[0] = -1
	assert.Equal(t, 1.0, p.Genome.Connections[0].Weight, "mutating the clone's genome must not affect the original")
	assert.NotEqual(t, -1, p.TopoOrder[0], "mutating the clone's topo order must not affect the original")
}

func TestFromMutation_BuildsPhenotypeFromClone(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	innovator := genetics.NewInnovationRegistry()
	opts := neat.DefaultOptions()
	parent := genetics.NewGenome(2, 1)
	parent.Connections = append(parent.Connections,
		genetics.NewConnectionGene(1, 3, 1.0, innovator.IssueInnovation(1, 3)))

	p, err := FromMutation(rng, parent, innovator, opts)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.NotSame(t, parent, p.Genome, "FromMutation must operate on a clone, not the parent itself")
}

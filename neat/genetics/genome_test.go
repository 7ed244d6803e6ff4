package genetics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenome_NodeLayout(t *testing.T) {
	g := NewGenome(2, 1)
	require.Len(t, g.Nodes, 4) // bias + 2 real inputs + 1 output
	assert.Equal(t, 3, g.NumInputs)
	assert.Equal(t, 1, g.NumOutputs)
	assert.Empty(t, g.Connections)

	assert.True(t, g.isInput(0)) // bias
	assert.True(t, g.isInput(1))
	assert.True(t, g.isInput(2))
	assert.True(t, g.isOutput(3))
	assert.False(t, g.isInput(3))
}

func TestGenome_Clone_IsDeepCopy(t *testing.T) {
	g := NewGenome(2, 1)
	g.insertConnection(NewConnectionGene(1, 3, 0.5, 0))

	clone := g.Clone()
	clone.Connections[0].Weight = 99.0
	clone.Nodes = append(clone.Nodes, &NodeGene{Id: 100})

	assert.Equal(t, 0.5, g.Connections[0].Weight, "mutating the clone must not affect the original")
	assert.Len(t, g.Nodes, 4)
}

func TestGenome_InsertConnection_KeepsSortedByInnovation(t *testing.T) {
	g := NewGenome(2, 1)
	g.insertConnection(NewConnectionGene(1, 3, 1.0, 5))
	g.insertConnection(NewConnectionGene(2, 3, 1.0, 1))
	g.insertConnection(NewConnectionGene(0, 3, 1.0, 3))

	var innovs []int64
	for _, c := range g.Connections {
		innovs = append(innovs, c.InnovationNum)
	}
	assert.Equal(t, []int64{1, 3, 5}, innovs)
}

func TestGenome_Validate_RejectsUnknownNodeReference(t *testing.T) {
	g := NewGenome(2, 1)
	g.Connections = append(g.Connections, NewConnectionGene(1, 999, 1.0, 0))
	assert.Error(t, g.Validate())
}

func TestGenome_Validate_RejectsConnectionIntoInput(t *testing.T) {
	g := NewGenome(2, 1)
	g.Connections = append(g.Connections, NewConnectionGene(3, 1, 1.0, 0))
	assert.Error(t, g.Validate())
}

func TestGenome_Validate_RejectsDuplicateEnabledEdge(t *testing.T) {
	g := NewGenome(2, 1)
	g.Connections = append(g.Connections,
		NewConnectionGene(1, 3, 1.0, 0),
		NewConnectionGene(1, 3, 2.0, 1))
	assert.Error(t, g.Validate())
}

func TestGenome_Validate_AllowsDuplicateDisabledAndEnabledPair(t *testing.T) {
	g := NewGenome(2, 1)
	disabled := NewConnectionGene(1, 3, 1.0, 0)
	disabled.Enabled = false
	enabled := NewConnectionGene(1, 3, 2.0, 1)
	g.Connections = append(g.Connections, disabled, enabled)
	assert.NoError(t, g.Validate())
}

func TestGenome_Validate_RejectsNonFiniteWeight(t *testing.T) {
	g := NewGenome(2, 1)
	g.Connections = append(g.Connections, NewConnectionGene(1, 3, math.NaN(), 0))
	assert.Error(t, g.Validate())
}

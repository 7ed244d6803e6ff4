package persist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-evolve/neat/neat"
	"github.com/go-evolve/neat/neat/genetics"
)

func TestEncodeDecodeGenome_RoundTrips(t *testing.T) {
	g := genetics.NewGenome(2, 1)
	g.Connections = append(g.Connections,
		genetics.NewConnectionGene(0, 3, 0.5, 0),
		genetics.NewConnectionGene(1, 3, -1.25, 1),
	)

	var buf bytes.Buffer
	require.NoError(t, EncodeGenome(&buf, g))

	decoded, err := DecodeGenome(&buf)
	require.NoError(t, err)

	assert.Equal(t, g.NumInputs, decoded.NumInputs)
	assert.Equal(t, g.NumOutputs, decoded.NumOutputs)
	assert.Len(t, decoded.Nodes, len(g.Nodes))
	require.Len(t, decoded.Connections, len(g.Connections))
	for i, c := range g.Connections {
		assert.Equal(t, c.InNode, decoded.Connections[i].InNode)
		assert.Equal(t, c.OutNode, decoded.Connections[i].OutNode)
		assert.Equal(t, c.Weight, decoded.Connections[i].Weight)
		assert.Equal(t, c.InnovationNum, decoded.Connections[i].InnovationNum)
	}
}

func TestDecodeGenome_SortsByInnovationNumber(t *testing.T) {
	doc := `{"num_inputs":3,"num_outputs":1,"nodes":[{"id":0},{"id":1},{"id":2},{"id":3}],
	"connections":[
		{"in_node":1,"out_node":3,"weight":1.0,"enabled":true,"innov":5},
		{"in_node":2,"out_node":3,"weight":1.0,"enabled":true,"innov":1}
	]}`

	g, err := DecodeGenome(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, g.Connections, 2)
	assert.Equal(t, int64(1), g.Connections[0].InnovationNum)
	assert.Equal(t, int64(5), g.Connections[1].InnovationNum)
}

func TestDecodeGenome_RejectsInvalidGenome(t *testing.T) {
	doc := `{"num_inputs":2,"num_outputs":1,"nodes":[{"id":0},{"id":1},{"id":2}],
	"connections":[{"in_node":0,"out_node":999,"weight":1.0,"enabled":true,"innov":0}]}`

	_, err := DecodeGenome(strings.NewReader(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, neat.ErrInvalidGenome)
}

func TestDecodeGenome_RejectsMalformedJSON(t *testing.T) {
	_, err := DecodeGenome(strings.NewReader("not json"))
	assert.Error(t, err)
}

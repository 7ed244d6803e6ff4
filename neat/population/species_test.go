package population

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-evolve/neat/neat"
	"github.com/go-evolve/neat/neat/genetics"
	"github.com/go-evolve/neat/neat/network"
)

func buildPhenotype(t *testing.T, g *genetics.Genome) *network.Phenotype {
	t.Helper()
	p, err := network.Build(g)
	require.NoError(t, err)
	return p
}

func TestSortMembersByFitnessDescending_SinksNaN(t *testing.T) {
	m := make([]*network.Phenotype, 3)
	for i := range m {
		m[i] = buildPhenotype(t, genetics.NewGenome(1, 1))
	}
	fits := []float64{1.0, nan(), 5.0}

	sorted, sortedFits := SortMembersByFitnessDescending(m, fits)
	require.Len(t, sorted, 3)
	assert.Equal(t, 5.0, sortedFits[0])
	assert.Equal(t, 1.0, sortedFits[1])
	assert.True(t, sortedFits[2] != sortedFits[2], "NaN must sink to the bottom")
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestSortSpecies_GroupsWithinThresholdFoundsNewOtherwise(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	innovator := genetics.NewInnovationRegistry()
	opts := neat.DefaultOptions()

	base := genetics.NewGenome(2, 1)
	base.Connections = append(base.Connections, genetics.NewConnectionGene(1, 3, 0.0, 0))
	near := base.Clone()
	near.Connections[0].Weight = 0.01 // well within threshold

	far := genetics.NewGenome(2, 1)
	far.Connections = append(far.Connections, genetics.NewConnectionGene(1, 3, 50.0, 0))

	seed := newSpecies(innovator.IssueSpeciesID(), buildPhenotype(t, base))
	phenotypes := []*network.Phenotype{buildPhenotype(t, near), buildPhenotype(t, far)}

	result := SortSpecies(rng, []*Species{seed}, phenotypes, innovator, opts)
	assert.GreaterOrEqual(t, len(result), 2, "the distant genome must found its own species")

	total := 0
	for _, sp := range result {
		total += len(sp.Members)
	}
	assert.Equal(t, 1+len(phenotypes), total, "every phenotype must land in exactly one species")
}

func TestSpeciesPopulate_FirstSlotIsEliteClone(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	innovator := genetics.NewInnovationRegistry()
	opts := neat.DefaultOptions()

	g := genetics.NewGenome(2, 1)
	g.Connections = append(g.Connections, genetics.NewConnectionGene(1, 3, 1.0, innovator.IssueInnovation(1, 3)))
	best := buildPhenotype(t, g)

	sp := newSpecies(1, best)
	out, err := sp.Populate(rng, nil, 3, innovator, opts)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, best.Genome.Connections[0].Weight, out[0].Genome.Connections[0].Weight)
	assert.NotSame(t, best.Genome, out[0].Genome, "the elite slot must be a clone, not the original genome")
}

func TestSpeciesPopulate_RejectsEmptySpeciesOrZeroSlots(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	innovator := genetics.NewInnovationRegistry()
	opts := neat.DefaultOptions()

	empty := &Species{Id: 1}
	_, err := empty.Populate(rng, nil, 1, innovator, opts)
	assert.Error(t, err)

	g := genetics.NewGenome(1, 1)
	sp := newSpecies(2, buildPhenotype(t, g))
	_, err = sp.Populate(rng, nil, 0, innovator, opts)
	assert.Error(t, err)
}

func TestSampleTwoDistinct_NeverRepeats(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		a, b := sampleTwoDistinct(rng, 5)
		assert.NotEqual(t, a, b)
		assert.True(t, a >= 0 && a < 5)
		assert.True(t, b >= 0 && b < 5)
	}
}

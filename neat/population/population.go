package population

import (
	"fmt"
	"math/rand"

	"github.com/go-evolve/neat/neat"
	"github.com/go-evolve/neat/neat/genetics"
	"github.com/go-evolve/neat/neat/network"
	"github.com/pkg/errors"
)

// specimenLocation points a global specimen index at a (species, member)
// pair. It is rebuilt every time the species list is mutated and is only
// valid for the generation in which it was built.
type specimenLocation struct {
	speciesIndex int
	memberIndex  int
}

// Population is the top-level orchestrator: it owns the species list, the
// single shared InnovationRegistry, and the single shared random source for
// the whole evolutionary run. Genomes are copied, never aliased, into
// species type specimens and child phenotypes.
type Population struct {
	innovator  *genetics.InnovationRegistry
	rng        *rand.Rand
	opts       *neat.Options
	species    []*Species
	size       int
	numInputs  int // real inputs, not including bias
	numOutputs int
	generation int
	indexCache []specimenLocation
}

// New constructs a population of size populationSize, each an independently
// mutated minimal genome configured for numInputs real inputs (the bias
// node is added internally) and numOutputs outputs, clustered into initial
// species. seed makes the whole run - construction, mutation and
// reproduction - reproducible.
func New(numInputs, numOutputs, populationSize int, opts *neat.Options, seed int64) (*Population, error) {
	if populationSize <= 0 {
		return nil, errors.Errorf("neat: population size must be positive, got %d", populationSize)
	}
	if numInputs <= 0 || numOutputs <= 0 {
		return nil, errors.New("neat: numInputs and numOutputs must be positive")
	}

	p := &Population{
		innovator:  genetics.NewInnovationRegistry(),
		rng:        rand.New(rand.NewSource(seed)),
		opts:       opts,
		size:       populationSize,
		numInputs:  numInputs,
		numOutputs: numOutputs,
	}

	phenotypes := make([]*network.Phenotype, 0, populationSize)
	for i := 0; i < populationSize; i++ {
		empty := genetics.NewGenome(numInputs, numOutputs)
		pt, err := network.FromMutation(p.rng, empty, p.innovator, opts)
		if err != nil {
			return nil, errors.Wrap(err, "neat: failed to build initial phenotype")
		}
		phenotypes = append(phenotypes, pt)
	}

	p.species = SortSpecies(p.rng, nil, phenotypes, p.innovator, opts)
	p.rebuildIndexCache()

	return p, nil
}

// Generation returns the number of completed Evolve calls.
func (p *Population) Generation() int {
	return p.generation
}

// Size returns the population size, stable across generations.
func (p *Population) Size() int {
	return p.size
}

// GetSpecimens returns every phenotype in the current generation, ordered
// by concatenating species in order then members in order - the same order
// that global indices (and so ActivateIndex and the fitness vector passed
// to Evolve) must use.
func (p *Population) GetSpecimens() []*network.Phenotype {
	out := make([]*network.Phenotype, 0, p.size)
	for _, sp := range p.species {
		out = append(out, sp.Members...)
	}
	return out
}

// ActivateIndex runs Phenotype.Activate for the i-th specimen in the
// current GetSpecimens order.
func (p *Population) ActivateIndex(i int, inputs []float64) ([]float64, error) {
	if i < 0 || i >= len(p.indexCache) {
		return nil, errors.Errorf("neat: specimen index %d out of range [0,%d)", i, len(p.indexCache))
	}
	loc := p.indexCache[i]
	return p.species[loc.speciesIndex].Members[loc.memberIndex].Activate(inputs)
}

// Stats is a read-only snapshot of per-generation bookkeeping, convenient
// for callers recording a fitness/complexity history without recomputing
// it from GetSpecimens (see neat/stats.History.Append).
type Stats struct {
	Generation   int
	SpeciesCount int
	MemberCounts []int
}

// Stats returns a snapshot of the current generation's shape.
func (p *Population) Stats() Stats {
	counts := make([]int, len(p.species))
	for i, sp := range p.species {
		counts[i] = len(sp.Members)
	}
	return Stats{Generation: p.generation, SpeciesCount: len(p.species), MemberCounts: counts}
}

func (p *Population) rebuildIndexCache() {
	cache := make([]specimenLocation, 0, p.size)
	for si, sp := range p.species {
		for mi := range sp.Members {
			cache = append(cache, specimenLocation{speciesIndex: si, memberIndex: mi})
		}
	}
	p.indexCache = cache
}

// Evolve consumes fitnesses - aligned to the specimen order of the current
// GetSpecimens/ActivateIndex - and replaces the population with the next
// generation: species fitness and reproductive slots are computed, species
// reproduce (elitism, truncation, crossover/mutation), and the resulting
// phenotypes are re-clustered into species.
//
// All read-only validation (arity, total-fitness positivity) happens
// before any state is mutated, so that on any returned error the
// population is observably unchanged.
func (p *Population) Evolve(fitnesses []float64) error {
	if len(fitnesses) != p.size {
		return errors.Wrapf(neat.ErrFitnessArityMismatch,
			"expected %d fitness values, got %d", p.size, len(fitnesses))
	}

	perSpecies := make([]speciesFitnessSummary, len(p.species))
	var totalFitness float64
	for si, sp := range p.species {
		fits := make([]float64, len(sp.Members))
		for mi := range sp.Members {
			fits[mi] = fitnesses[p.globalIndexOf(si, mi)]
		}
		sortedMembers, sortedFits := SortMembersByFitnessDescending(sp.Members, fits)
		mean := meanOf(sortedFits)
		perSpecies[si] = speciesFitnessSummary{sortedMembers: sortedMembers, sortedFits: sortedFits, mean: mean}
		totalFitness += mean
	}

	if totalFitness <= 0 {
		neat.WarnLog(fmt.Sprintf("POPULATION: generation %d died - total species fitness %f is non-positive", p.generation, totalFitness))
		return errors.Wrap(neat.ErrEmptyPopulation, "total species fitness is non-positive")
	}

	slots := allotSlots(p.rng, perSpecies, totalFitness, p.size)
	neat.DebugLog(fmt.Sprintf("POPULATION: generation %d total fitness: %f, slots per species: %v", p.generation, totalFitness, slots))

	// Snapshot every species so that a reproduction failure below can put
	// the species list back as it was before this call.
	saved := make([]Species, len(p.species))
	for si, sp := range p.species {
		saved[si] = *sp
	}

	// Apply the sorted member order now that validation has passed - from
	// here on the population is committed to producing a new generation.
	for si, sp := range p.species {
		sp.Members = perSpecies[si].sortedMembers
	}

	p.innovator.ClearGenerationMemo()

	var newPopulation []*network.Phenotype
	for si, sp := range p.species {
		slot := slots[si]
		if slot == 0 {
			neat.DebugLog(fmt.Sprintf("POPULATION: species [%d] has not survived - no reproductive slots allotted", sp.Id))
			continue // this species goes extinct
		}
		sp.SpeciesFitness = nil

		keep := len(sp.Members) / 2
		if keep < 1 {
			keep = 1
		}
		sp.Members = sp.Members[:keep]
		sp.ChooseTypeSpecimen(p.rng)

		children, err := sp.Populate(p.rng, nil, slot, p.innovator, p.opts)
		if err != nil {
			for i, s := range p.species {
				*s = saved[i]
			}
			return errors.Wrapf(err, "neat: species %d failed to reproduce", sp.Id)
		}
		neat.DebugLog(fmt.Sprintf("POPULATION: species [%d] produced %d offspring from %d surviving members", sp.Id, len(children), keep))
		newPopulation = append(newPopulation, children...)
	}

	survivors := make([]*Species, 0, len(p.species))
	for si, sp := range p.species {
		if slots[si] == 0 {
			continue
		}
		sp.Members = nil // keep the type specimen, drop the old members
		survivors = append(survivors, sp)
	}

	p.species = SortSpecies(p.rng, survivors, newPopulation, p.innovator, p.opts)
	p.rebuildIndexCache()
	p.generation++
	neat.DebugLog(fmt.Sprintf("POPULATION: generation %d complete - %d species, %d organisms", p.generation, len(p.species), len(newPopulation)))

	return nil
}

func (p *Population) globalIndexOf(speciesIndex, memberIndex int) int {
	idx := 0
	for i := 0; i < speciesIndex; i++ {
		idx += len(p.species[i].Members)
	}
	return idx + memberIndex
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// speciesFitnessSummary holds the fitness-sorted membership of one species
// during Evolve, before any state is committed.
type speciesFitnessSummary struct {
	sortedMembers []*network.Phenotype
	sortedFits    []float64
	mean          float64
}

// allotSlots computes floor(speciesFitness_i/totalFitness * populationSize)
// reproductive slots per species, then redistributes the floor-rounding
// loss by giving +1 to the first `remainder` species in a random
// permutation - so no species is systematically favored by redistribution.
func allotSlots(rng *rand.Rand, perSpecies []speciesFitnessSummary, totalFitness float64, populationSize int) []int {
	slots := make([]int, len(perSpecies))
	assigned := 0
	for i, sf := range perSpecies {
		s := int(sf.mean / totalFitness * float64(populationSize))
		if s < 0 {
			s = 0 // a species with non-positive mean fitness earns no slots
		}
		slots[i] = s
		assigned += s
	}
	remainder := populationSize - assigned
	if remainder > 0 {
		order := rng.Perm(len(slots))
		for i := 0; i < remainder && i < len(order); i++ {
			slots[order[i]]++
		}
	}
	return slots
}

// Package population implements speciation and the generational update
// loop on top of the genetics and network packages: clustering phenotypes
// into species by compatibility distance, allotting reproductive slots by
// fitness, and running the sexual/asexual reproduction protocol.
package population

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/go-evolve/neat/neat"
	"github.com/go-evolve/neat/neat/genetics"
	"github.com/go-evolve/neat/neat/network"
	"github.com/pkg/errors"
)

// Species is a cluster of phenotypes within compatibility threshold of a
// shared type specimen. TypeSpecimen is a clone, used only for distance
// comparison - it is re-drawn from a surviving member at the start of every
// reproduction step, so it may differ from any currently-live member.
type Species struct {
	Id             int
	TypeSpecimen   *genetics.Genome
	Members        []*network.Phenotype
	SpeciesFitness *float64
}

// newSpecies creates a species seeded with specimen's genome cloned as the
// type specimen, with specimen as its sole initial member.
func newSpecies(id int, specimen *network.Phenotype) *Species {
	return &Species{
		Id:           id,
		TypeSpecimen: specimen.Genome.Clone(),
		Members:      []*network.Phenotype{specimen},
	}
}

// ChooseTypeSpecimen uniformly picks one of the current members' genomes
// and clones it as the new type specimen. A no-op on an empty species,
// which will be culled by the caller instead.
func (s *Species) ChooseTypeSpecimen(rng *rand.Rand) {
	if len(s.Members) == 0 {
		return
	}
	pick := s.Members[rng.Intn(len(s.Members))]
	s.TypeSpecimen = pick.Genome.Clone()
}

// SortMembersByFitnessDescending sorts members by fits descending, pairing
// them positionally (fits[i] is the fitness of members[i] before the sort).
// Ties, and any NaN fitness, sort as Less - NaN sinks to the bottom - so
// rank 0 after sorting is always a well-defined best member. Returns fits
// reordered to match the new member order.
func SortMembersByFitnessDescending(members []*network.Phenotype, fits []float64) ([]*network.Phenotype, []float64) {
	type pair struct {
		member *network.Phenotype
		fit    float64
	}
	pairs := make([]pair, len(members))
	for i := range members {
		pairs[i] = pair{member: members[i], fit: fits[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return fitnessLess(pairs[j].fit, pairs[i].fit)
	})
	sortedMembers := make([]*network.Phenotype, len(pairs))
	sortedFits := make([]float64, len(pairs))
	for i, p := range pairs {
		sortedMembers[i] = p.member
		sortedFits[i] = p.fit
	}
	return sortedMembers, sortedFits
}

// fitnessLess reports a < b with NaN treated as less than every non-NaN
// value (two NaNs compare as equal), so NaN fitnesses always sink to the bottom of a
// descending sort instead of producing an undefined order.
func fitnessLess(a, b float64) bool {
	if a != a { // a is NaN
		return b == b // true unless b is also NaN
	}
	if b != b { // b is NaN, a is not
		return false
	}
	return a < b
}

// CompatibilityDistanceToSpecimen is a convenience wrapper around
// Genome.CompatibilityDistance comparing g against this species' current
// type specimen.
func (s *Species) CompatibilityDistanceToSpecimen(g *genetics.Genome, opts *neat.Options) float64 {
	return g.CompatibilityDistance(s.TypeSpecimen, opts)
}

// SortSpecies re-clusters phenotypes into species list by compatibility
// distance to each species' type specimen. Both the phenotype order and,
// for every phenotype, the order in which candidate species are tried are
// shuffled, so that no species systematically wins ties and no phenotype
// systematically gets first pick - this is what keeps the clustering free
// of order bias. A phenotype that is not within opts.CompatibilityThreshold
// of any existing species founds a new one, numbered by innovator.
func SortSpecies(rng *rand.Rand, list []*Species, phenotypes []*network.Phenotype, innovator *genetics.InnovationRegistry, opts *neat.Options) []*Species {
	shuffled := make([]*network.Phenotype, len(phenotypes))
	copy(shuffled, phenotypes)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	for _, p := range shuffled {
		order := rng.Perm(len(list))
		var match *Species
		for _, idx := range order {
			candidate := list[idx]
			if candidate.CompatibilityDistanceToSpecimen(p.Genome, opts) < opts.CompatibilityThreshold {
				match = candidate
				break
			}
		}
		if match != nil {
			match.Members = append(match.Members, p)
		} else {
			newID := innovator.IssueSpeciesID()
			neat.DebugLog(fmt.Sprintf("SPECIES: no compatible species found for organism - creating new species [%d]", newID))
			list = append(list, newSpecies(newID, p))
		}
	}
	neat.DebugLog(fmt.Sprintf("SPECIES: sorted %d organisms into %d species", len(phenotypes), len(list)))
	return list
}

// Populate fills out reproductive slots for one species. The first slot is
// always given to the elite - a verbatim clone of the top-ranked current
// member (index 0, which SortMembersByFitnessDescending guarantees is the
// best). Remaining slots reproduce asexually when exactly one member
// survives, or sexually by sampling two distinct members and crossing the
// better-ranked (fit) with the other (unfit) otherwise. Requires a non-empty
// Members and slots >= 1.
func (s *Species) Populate(rng *rand.Rand, out []*network.Phenotype, slots int, innovator *genetics.InnovationRegistry, opts *neat.Options) ([]*network.Phenotype, error) {
	if len(s.Members) == 0 {
		return nil, errors.New("neat: cannot populate from an empty species")
	}
	if slots < 1 {
		return nil, errors.New("neat: populate requires at least one reproductive slot")
	}

	neat.DebugLog(fmt.Sprintf("SPECIES: species [%d] reproducing %d slots from %d surviving members", s.Id, slots, len(s.Members)))

	out = append(out, s.Members[0].Clone())

	for i := 1; i < slots; i++ {
		var child *network.Phenotype
		var err error
		if len(s.Members) == 1 {
			neat.DebugLog(fmt.Sprintf("SPECIES: species [%d] ---> reproduce asexually", s.Id))
			child, err = network.FromMutation(rng, s.Members[0].Genome, innovator, opts)
		} else {
			a, b := sampleTwoDistinct(rng, len(s.Members))
			fit, unfit := s.Members[a].Genome, s.Members[b].Genome
			if a > b {
				fit, unfit = unfit, fit
			}
			neat.DebugLog(fmt.Sprintf("SPECIES: species [%d] ---> reproduce by crossing members [%d] and [%d]", s.Id, a, b))
			childGenome := genetics.Crossover(rng, fit, unfit)
			child, err = network.FromMutation(rng, childGenome, innovator, opts)
		}
		if err != nil {
			return nil, errors.Wrap(err, "neat: reproduction failed")
		}
		out = append(out, child)
	}
	return out, nil
}

// sampleTwoDistinct draws two distinct indices in [0,n) uniformly without
// replacement, requiring n >= 2.
func sampleTwoDistinct(rng *rand.Rand, n int) (int, int) {
	a := rng.Intn(n)
	b := rng.Intn(n - 1)
	if b >= a {
		b++
	}
	return a, b
}

package genetics

import (
	"math"

	"github.com/go-evolve/neat/neat"
)

// CompatibilityDistance computes the NEAT compatibility distance between g
// and og: c1*E/N + c2*D/N + c3*W, where E and D are the excess and disjoint
// gene counts, W is the mean absolute weight difference over matching
// genes (or 100.0 if there are no matching genes, a large-distance
// fallback), and N is the size of the innovation-number union of both
// genomes (at least 1). Smaller is more compatible; two genomes below
// opts.CompatibilityThreshold are considered the same species.
func (g *Genome) CompatibilityDistance(og *Genome, opts *neat.Options) float64 {
	byInnov := make(map[int64]*ConnectionGene, len(g.Connections))
	for _, c := range g.Connections {
		byInnov[c.InnovationNum] = c
	}
	ogByInnov := make(map[int64]*ConnectionGene, len(og.Connections))
	for _, c := range og.Connections {
		ogByInnov[c.InnovationNum] = c
	}

	gMax := g.maxInnovation()
	ogMax := og.maxInnovation()

	union := make(map[int64]bool, len(byInnov)+len(ogByInnov))
	for k := range byInnov {
		union[k] = true
	}
	for k := range ogByInnov {
		union[k] = true
	}

	var excess, disjoint, matching float64
	var weightDiffSum float64

	for innov := range union {
		c1, in1 := byInnov[innov]
		c2, in2 := ogByInnov[innov]
		switch {
		case in1 && in2:
			matching++
			weightDiffSum += math.Abs(c1.Weight - c2.Weight)
		case in1 && !in2:
			if innov > ogMax {
				excess++
			} else {
				disjoint++
			}
		case !in1 && in2:
			if innov > gMax {
				excess++
			} else {
				disjoint++
			}
		}
	}

	weightDiff := 100.0
	if matching > 0 {
		weightDiff = weightDiffSum / matching
	}

	n := float64(len(union))
	if n < 1 {
		n = 1
	}

	return opts.ExcessCoeff*excess/n + opts.DisjointCoeff*disjoint/n + opts.WeightDiffCoeff*weightDiff
}

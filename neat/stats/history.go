package stats

import (
	"fmt"
	"io"

	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"

	"github.com/go-evolve/neat/neat/network"
	"github.com/go-evolve/neat/neat/population"
)

// GenerationRecord is one row of evolutionary history: the fitness and
// genome-complexity distribution of a single generation.
type GenerationRecord struct {
	Generation     int
	SpeciesCount   int
	MeanFitness    float64
	BestFitness    float64
	MeanComplexity float64
	BestComplexity float64
}

// History is an ordered sequence of GenerationRecord, one appended per
// Population.Evolve call.
type History []GenerationRecord

// Append summarizes one generation's fitness vector (aligned to pop's
// current specimen order, the same vector passed to Evolve) and genome
// complexity, and appends the resulting record.
func (h *History) Append(pop *population.Population, fitnesses []float64) {
	specimens := pop.GetSpecimens()
	complexity := make(Floats, len(specimens))
	for i, p := range specimens {
		complexity[i] = float64(genomeComplexity(p))
	}
	fits := Floats(fitnesses)

	*h = append(*h, GenerationRecord{
		Generation:     pop.Generation(),
		SpeciesCount:   pop.Stats().SpeciesCount,
		MeanFitness:    fits.Mean(),
		BestFitness:    fits.Max(),
		MeanComplexity: complexity.Mean(),
		BestComplexity: complexity.Max(),
	})
}

// genomeComplexity is the node count plus enabled-connection count of a
// phenotype's genome - a simple, commonly used topological complexity
// measure for NEAT genomes.
func genomeComplexity(p *network.Phenotype) int {
	enabled := 0
	for _, c := range p.Genome.Connections {
		if c.Enabled {
			enabled++
		}
	}
	return len(p.Genome.Nodes) + enabled
}

// WriteNPZ dumps the evolutionary history to an NPZ archive for offline
// plotting: one (generation x 2) matrix of (mean, best) per metric, built as
// a mat.Dense and written through npz.Writer. An empty history produces an
// archive with no arrays in it.
func (h History) WriteNPZ(w io.Writer) error {
	if len(h) == 0 {
		return npz.NewWriter(w).Close()
	}
	fitness := mat.NewDense(len(h), 2, nil)
	complexity := mat.NewDense(len(h), 2, nil)
	speciesCount := make([]float64, len(h))
	for i, r := range h {
		fitness.SetRow(i, []float64{r.MeanFitness, r.BestFitness})
		complexity.SetRow(i, []float64{r.MeanComplexity, r.BestComplexity})
		speciesCount[i] = float64(r.SpeciesCount)
	}

	out := npz.NewWriter(w)
	if err := out.Write("fitness_mean_best", fitness); err != nil {
		return fmt.Errorf("writing fitness_mean_best: %w", err)
	}
	if err := out.Write("complexity_mean_best", complexity); err != nil {
		return fmt.Errorf("writing complexity_mean_best: %w", err)
	}
	if err := out.Write("species_count", speciesCount); err != nil {
		return fmt.Errorf("writing species_count: %w", err)
	}
	return out.Close()
}

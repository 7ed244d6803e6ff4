package genetics

import "math/rand"

// Crossover aligns fit's and unfit's connection genes by innovation number
// and produces a child genome. Matching genes (same innovation number in
// both parents) are inherited from either parent with equal probability.
// Disjoint/excess genes - present in only one parent - are inherited iff
// they come from fit; unfit's exclusive genes are always dropped. The
// child's node set, NumInputs and NumOutputs are copied from fit, whose
// topology is guaranteed to be at least as large as any gene it contributes.
//
// The caller decides which parent is "fit": ties are broken by convention,
// not by this function.
func Crossover(rng *rand.Rand, fit, unfit *Genome) *Genome {
	unfitByInnov := make(map[int64]*ConnectionGene, len(unfit.Connections))
	for _, c := range unfit.Connections {
		unfitByInnov[c.InnovationNum] = c
	}

	nodes := make([]*NodeGene, len(fit.Nodes))
	for i, n := range fit.Nodes {
		nn := *n
		nodes[i] = &nn
	}

	child := &Genome{
		NumInputs:   fit.NumInputs,
		NumOutputs:  fit.NumOutputs,
		Nodes:       nodes,
		Connections: make([]*ConnectionGene, 0, len(fit.Connections)),
	}

	for _, fitGene := range fit.Connections {
		if unfitGene, ok := unfitByInnov[fitGene.InnovationNum]; ok {
			if rng.Float64() < 0.5 {
				child.Connections = append(child.Connections, fitGene.clone())
			} else {
				child.Connections = append(child.Connections, unfitGene.clone())
			}
			continue
		}
		// Disjoint/excess gene present only in fit: always inherited.
		child.Connections = append(child.Connections, fitGene.clone())
	}

	return child
}

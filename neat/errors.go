package neat

import "github.com/pkg/errors"

// Sentinel errors for the abstract error taxonomy of the NEAT core. Use
// errors.Is to test for a specific kind; wrapped context is attached with
// errors.Wrap at the point of detection.
var (
	// ErrInvalidTopology is returned by phenotype construction when the
	// enabled-edge subgraph of a genome contains a cycle.
	ErrInvalidTopology = errors.New("neat: phenotype topology is cyclic")

	// ErrInputArityMismatch is returned by Activate when the supplied input
	// vector length does not equal num_inputs-1.
	ErrInputArityMismatch = errors.New("neat: activation input arity mismatch")

	// ErrInvalidGenome is returned when a persisted genome violates one of
	// the structural invariants in the data model (dangling node reference,
	// duplicate enabled edge, edge targeting a bias/input node, non-finite
	// weight).
	ErrInvalidGenome = errors.New("neat: invalid genome")

	// ErrFitnessArityMismatch is returned by Population.Evolve when the
	// supplied fitness vector length does not equal the population size.
	ErrFitnessArityMismatch = errors.New("neat: fitness vector arity mismatch")

	// ErrEmptyPopulation is returned by Population.Evolve when every
	// species would go extinct because total fitness is non-positive.
	ErrEmptyPopulation = errors.New("neat: total fitness is non-positive, population would go extinct")
)

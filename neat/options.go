package neat

import (
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Options carries the tunable constants of the NEAT core: genome mutation
// probabilities, compatibility-distance coefficients, and population
// bookkeeping knobs. The zero value is not usable; construct with
// DefaultOptions or load one from YAML with LoadYAMLOptions.
type Options struct {
	// ConnectionMutationProb is the probability that Genome.Mutate runs
	// add_connection after weight/toggle mutation.
	ConnectionMutationProb float64 `yaml:"connection_mutation_prob"`
	// NodeMutationProb is the probability that Genome.Mutate runs add_node.
	NodeMutationProb float64 `yaml:"node_mutation_prob"`
	// WeightMutationProb is the probability, per connection, that its
	// weight is mutated at all.
	WeightMutationProb float64 `yaml:"weight_mutation_prob"`
	// WeightPerturbProb is the probability, given a weight mutation fires,
	// that the weight is perturbed rather than replaced outright.
	WeightPerturbProb float64 `yaml:"weight_perturb_prob"`
	// WeightPerturbStdDev is the standard deviation of the zero-mean
	// Gaussian used to perturb a weight.
	WeightPerturbStdDev float64 `yaml:"weight_perturb_std_dev"`
	// WeightReplaceRange bounds the uniform replacement draw to
	// [-WeightReplaceRange, WeightReplaceRange].
	WeightReplaceRange float64 `yaml:"weight_replace_range"`
	// ToggleEnabledProb is the per-connection probability of flipping
	// enabled/disabled during mutate_weights_and_toggle.
	ToggleEnabledProb float64 `yaml:"toggle_enabled_prob"`

	// ExcessCoeff, DisjointCoeff and WeightDiffCoeff are the c1, c2, c3
	// coefficients of the compatibility-distance formula.
	ExcessCoeff     float64 `yaml:"excess_coeff"`
	DisjointCoeff   float64 `yaml:"disjoint_coeff"`
	WeightDiffCoeff float64 `yaml:"weight_diff_coeff"`
	// CompatibilityThreshold is the compatibility distance below which two
	// genomes are considered the same species; a distance equal to it is not.
	CompatibilityThreshold float64 `yaml:"compatibility_threshold"`

	// MaxPhenotypeRetries bounds the clone-mutate-build retry loop used by
	// Phenotype.FromMutation when a mutation produces a cyclic genome.
	MaxPhenotypeRetries int `yaml:"max_phenotype_retries"`
}

// DefaultOptions returns the constants mandated by the specification,
// matched exactly so that behaviour is reproducible across runs with the
// same random seed.
func DefaultOptions() *Options {
	return &Options{
		ConnectionMutationProb: 0.15,
		NodeMutationProb:       0.03,
		WeightMutationProb:     0.8,
		WeightPerturbProb:      0.9,
		WeightPerturbStdDev:    0.1,
		WeightReplaceRange:     5.0,
		ToggleEnabledProb:      0.01,

		ExcessCoeff:            1.0,
		DisjointCoeff:          1.0,
		WeightDiffCoeff:        0.4,
		CompatibilityThreshold: 3.0,
		MaxPhenotypeRetries:    16,
	}
}

// LoadYAMLOptions reads Options encoded as YAML, falling back to
// DefaultOptions for any field the document omits.
func LoadYAMLOptions(r io.Reader) (*Options, error) {
	content, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read NEAT options")
	}
	opts := DefaultOptions()
	if err = yaml.Unmarshal(content, opts); err != nil {
		return nil, errors.Wrap(err, "failed to decode NEAT options from YAML")
	}
	if err = opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid NEAT options")
	}
	return opts, nil
}

// Dump encodes the Options as YAML to w.
func (o *Options) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(o)
}

// ApplyOverrides coerces a map of loosely-typed override values (as might
// arrive from environment variables or CLI flags) onto the Options using
// cast, the way a deployment's env-specific knobs are layered on top of a
// checked-in YAML baseline.
func (o *Options) ApplyOverrides(overrides map[string]string) error {
	for name, raw := range overrides {
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return errors.Wrapf(err, "option %q: expected a numeric override value", name)
		}
		switch name {
		case "connection_mutation_prob":
			o.ConnectionMutationProb = v
		case "node_mutation_prob":
			o.NodeMutationProb = v
		case "weight_mutation_prob":
			o.WeightMutationProb = v
		case "weight_perturb_prob":
			o.WeightPerturbProb = v
		case "weight_perturb_std_dev":
			o.WeightPerturbStdDev = v
		case "weight_replace_range":
			o.WeightReplaceRange = v
		case "toggle_enabled_prob":
			o.ToggleEnabledProb = v
		case "excess_coeff":
			o.ExcessCoeff = v
		case "disjoint_coeff":
			o.DisjointCoeff = v
		case "weight_diff_coeff":
			o.WeightDiffCoeff = v
		case "compatibility_threshold":
			o.CompatibilityThreshold = v
		case "max_phenotype_retries":
			o.MaxPhenotypeRetries = cast.ToInt(v)
		default:
			return errors.Errorf("option %q: unknown option name", name)
		}
	}
	return o.Validate()
}

// Validate checks that all probabilities lie in [0,1] and all counts/ranges
// are positive.
func (o *Options) Validate() error {
	probs := map[string]float64{
		"connection_mutation_prob": o.ConnectionMutationProb,
		"node_mutation_prob":       o.NodeMutationProb,
		"weight_mutation_prob":     o.WeightMutationProb,
		"weight_perturb_prob":      o.WeightPerturbProb,
		"toggle_enabled_prob":      o.ToggleEnabledProb,
	}
	for name, p := range probs {
		if p < 0 || p > 1 {
			return errors.Errorf("option %q must be in [0,1], got %f", name, p)
		}
	}
	if o.WeightPerturbStdDev <= 0 {
		return errors.New("weight_perturb_std_dev must be positive")
	}
	if o.WeightReplaceRange <= 0 {
		return errors.New("weight_replace_range must be positive")
	}
	if o.CompatibilityThreshold <= 0 {
		return errors.New("compatibility_threshold must be positive")
	}
	if o.MaxPhenotypeRetries <= 0 {
		return errors.New("max_phenotype_retries must be positive")
	}
	return nil
}

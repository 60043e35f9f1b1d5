package sim

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config mirrors the on-disk configuration document. Pointer fields mean
// "not set" — they do not override the engine defaults. The canonical format
// is TOML; .yaml/.yml files are accepted with the same schema.
type Config struct {
	PopSize           int       `toml:"pop_size" yaml:"pop_size"`
	ProbInfection     *float64  `toml:"prob_infection" yaml:"prob_infection"`
	NContacts         *float64  `toml:"n_contacts" yaml:"n_contacts"`
	NumIter           int       `toml:"num_iter" yaml:"num_iter"`
	Verbose           bool      `toml:"verbose" yaml:"verbose"`
	InitialInfections *int      `toml:"initial_infections" yaml:"initial_infections"`
	IsolateSevere     *bool     `toml:"isolate_severe" yaml:"isolate_severe"`
	PopDistrib        []float64 `toml:"pop_distrib" yaml:"pop_distrib"`
	PopCounts         []int     `toml:"pop_counts" yaml:"pop_counts"`

	Epicurve EpicurveConfig `toml:"epicurve" yaml:"epicurve"`
	Params   ParamTables    `toml:"params" yaml:"params"`
}

// EpicurveConfig carries the observed daily case counts used as the
// calibration target.
type EpicurveConfig struct {
	Data []int `toml:"data" yaml:"data"`
}

// ParamTables groups the two optional parameter tables.
type ParamTables struct {
	Epidemic EpidemicTable `toml:"epidemic" yaml:"epidemic"`
	Clinical ClinicalTable `toml:"clinical" yaml:"clinical"`
}

// EpidemicTable holds transmission-side overrides. Nil means "use default".
type EpidemicTable struct {
	IncubationPeriod           *float64 `toml:"incubation_period" yaml:"incubation_period"`
	InfectiousPeriod           *float64 `toml:"infectious_period" yaml:"infectious_period"`
	AsymptomaticInfectiousness *float64 `toml:"asymptomatic_infectiousness" yaml:"asymptomatic_infectiousness"`
	ProbAsymptomatic           *float64 `toml:"prob_asymptomatic" yaml:"prob_asymptomatic"`
	CaseFatalityRatio          *float64 `toml:"case_fatality_ratio" yaml:"case_fatality_ratio"`
}

// ClinicalTable holds clinical-chain overrides. Nil means "use default".
type ClinicalTable struct {
	SeverePeriod   *float64 `toml:"severe_period" yaml:"severe_period"`
	CriticalPeriod *float64 `toml:"critical_period" yaml:"critical_period"`
	ProbSevere     *float64 `toml:"prob_severe" yaml:"prob_severe"`
	ProbCritical   *float64 `toml:"prob_critical" yaml:"prob_critical"`
	ProbDeath      *float64 `toml:"prob_death" yaml:"prob_death"`
}

// LoadConfig reads and parses a configuration document. The format is picked
// by file extension: .toml (default), .yaml or .yml.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing TOML config: %w", err)
		}
	}
	return &cfg, nil
}

func override(dst, src *float64) {
	if src != nil {
		*dst = *src
	}
}

// Parameters merges the document over the engine defaults, resolves the
// optional fields and validates the result.
func (c *Config) Parameters() (Parameters, error) {
	p := DefaultParameters()

	// Zero is never a valid pop_size or num_iter, so it doubles as "unset"
	// for the two ints. The probability and contact scalars admit zero as a
	// legitimate value, so absence is a nil pointer instead.
	if c.PopSize != 0 {
		p.PopSize = c.PopSize
	}
	if c.NumIter != 0 {
		p.NumIter = c.NumIter
	}
	override(&p.ProbInfection, c.ProbInfection)
	override(&p.NContacts, c.NContacts)
	if c.IsolateSevere != nil {
		p.IsolateSevere = *c.IsolateSevere
	}
	if c.PopCounts != nil {
		p.PopCounts = c.PopCounts
		// Keep a document-supplied distrib so Validate can reject the
		// ambiguous combination; drop only the default.
		p.PopDistrib = c.PopDistrib
	} else if c.PopDistrib != nil {
		p.PopDistrib = c.PopDistrib
	}

	override(&p.Epidemic.IncubationPeriod, c.Params.Epidemic.IncubationPeriod)
	override(&p.Epidemic.InfectiousPeriod, c.Params.Epidemic.InfectiousPeriod)
	override(&p.Epidemic.AsymptomaticInfectiousness, c.Params.Epidemic.AsymptomaticInfectiousness)
	override(&p.Epidemic.ProbAsymptomatic, c.Params.Epidemic.ProbAsymptomatic)
	override(&p.Epidemic.CaseFatalityRatio, c.Params.Epidemic.CaseFatalityRatio)

	override(&p.Clinical.SeverePeriod, c.Params.Clinical.SeverePeriod)
	override(&p.Clinical.CriticalPeriod, c.Params.Clinical.CriticalPeriod)
	override(&p.Clinical.ProbSevere, c.Params.Clinical.ProbSevere)
	override(&p.Clinical.ProbCritical, c.Params.Clinical.ProbCritical)
	override(&p.Clinical.ProbDeath, c.Params.Clinical.ProbDeath)

	p.Target = c.Epicurve.Data
	if len(p.Target) > p.NumIter {
		logrus.Warnf("epicurve.data has %d entries, truncating to num_iter=%d", len(p.Target), p.NumIter)
		p.Target = p.Target[:p.NumIter]
	}

	if c.InitialInfections != nil {
		p.InitialInfections = *c.InitialInfections
	} else {
		p.InitialInfections = defaultInitialInfections(p.Target)
	}

	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	if c.Params.Epidemic.CaseFatalityRatio != nil {
		if err := checkCaseFatality(p.Epidemic.CaseFatalityRatio, p.Clinical.DerivedCFR()); err != nil {
			return Parameters{}, err
		}
	}
	return p, nil
}

// cfrTolerance bounds the accepted disagreement between a configured
// case_fatality_ratio and the one implied by the clinical chain.
const cfrTolerance = 1e-3

// checkCaseFatality rejects a configured case-fatality scalar that
// contradicts prob_severe × prob_critical × prob_death: deaths only ever
// happen through that chain, so a disagreeing scalar describes a different
// disease than the rest of the document.
func checkCaseFatality(configured, derived float64) error {
	if math.Abs(configured-derived) > cfrTolerance {
		return fmt.Errorf("%w: case_fatality_ratio %.4f disagrees with prob_severe × prob_critical × prob_death = %.4f",
			ErrConfig, configured, derived)
	}
	return nil
}

// defaultInitialInfections derives a seed count from the scale of the target
// epicurve: the first positive observed day, else 10.
func defaultInitialInfections(target []int) int {
	for _, n := range target {
		if n > 0 {
			return n
		}
	}
	return 10
}

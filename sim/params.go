package sim

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for the pre-run failure taxonomy. Both abort before any
// simulation work; use errors.Is to classify.
var (
	// ErrConfig marks malformed or out-of-range configuration values.
	ErrConfig = errors.New("config error")
	// ErrNumeric marks non-finite derived values (e.g. a zero period turning
	// into an infinite rate).
	ErrNumeric = errors.New("numeric error")
)

// Default epidemiological and clinical parameter values, used when the
// corresponding config table entries are absent.
const (
	DefaultProbAsymptomatic = 0.42
	DefaultProbSevere       = 0.18
	DefaultProbCritical     = 0.22
	DefaultProbDeath        = 0.42
	DefaultIncubationPeriod = 3.69
	DefaultInfectiousPeriod = 3.47
	DefaultSeverePeriod     = 7.19
	DefaultCriticalPeriod   = 10.31

	DefaultAsymptomaticInfectiousness = 0.50
)

// EpidemicParams are the transmission-side parameters.
// Periods are means of duration distributions, not fixed lengths.
type EpidemicParams struct {
	IncubationPeriod           float64
	InfectiousPeriod           float64
	AsymptomaticInfectiousness float64
	ProbAsymptomatic           float64
	CaseFatalityRatio          float64
}

// ClinicalParams govern the Symptomatic → Severe → Critical → Dead chain.
type ClinicalParams struct {
	SeverePeriod   float64
	CriticalPeriod float64
	ProbSevere     float64
	ProbCritical   float64
	ProbDeath      float64
}

// DerivedCFR is the case-fatality ratio implied by the clinical branch
// probabilities: every death walks the Severe → Critical → Dead chain.
func (c ClinicalParams) DerivedCFR() float64 {
	return c.ProbSevere * c.ProbCritical * c.ProbDeath
}

// Parameters is the immutable, validated value bundle consumed by every
// other component. Build one from a Config (config.go) or from
// DefaultParameters, then Validate before use.
type Parameters struct {
	PopSize       int
	ProbInfection float64
	// NContacts is the mean daily contact count (Poisson-distributed;
	// fractional means are intentional).
	NContacts float64
	NumIter   int

	// InitialInfections seeds this many agents as Exposed at day 0.
	InitialInfections int

	// IsolateSevere excludes Severe and Critical agents from transmission.
	IsolateSevere bool

	// Exactly one of PopDistrib (relative weights) and PopCounts (absolute)
	// must be set; both have NumAgeBands entries.
	PopDistrib []float64
	PopCounts  []int

	Epidemic EpidemicParams
	Clinical ClinicalParams

	// Target is the observed epicurve the calibrator fits against, one
	// entry per simulated day. Empty disables calibration.
	Target []int
}

// DefaultParameters returns a runnable parameter set with the documented
// default epidemic/clinical constants and a uniform age distribution.
func DefaultParameters() Parameters {
	distrib := make([]float64, NumAgeBands)
	for i := range distrib {
		distrib[i] = 1.0
	}
	return Parameters{
		PopSize:           100_000,
		ProbInfection:     0.1,
		NContacts:         3.5,
		NumIter:           60,
		InitialInfections: 10,
		IsolateSevere:     true,
		PopDistrib:        distrib,
		Epidemic: EpidemicParams{
			IncubationPeriod:           DefaultIncubationPeriod,
			InfectiousPeriod:           DefaultInfectiousPeriod,
			AsymptomaticInfectiousness: DefaultAsymptomaticInfectiousness,
			ProbAsymptomatic:           DefaultProbAsymptomatic,
		},
		Clinical: ClinicalParams{
			SeverePeriod:   DefaultSeverePeriod,
			CriticalPeriod: DefaultCriticalPeriod,
			ProbSevere:     DefaultProbSevere,
			ProbCritical:   DefaultProbCritical,
			ProbDeath:      DefaultProbDeath,
		},
	}
}

func checkProb(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrConfig, name, v)
	}
	return nil
}

func checkPeriod(name string, v float64) error {
	if math.IsNaN(v) || v <= 0 {
		return fmt.Errorf("%w: %s must be a positive period, got %v", ErrConfig, name, v)
	}
	if math.IsInf(1/v, 0) {
		return fmt.Errorf("%w: %s yields a non-finite daily rate", ErrNumeric, name)
	}
	return nil
}

// Validate checks every probability, period and size constraint of the
// bundle. It returns an ErrConfig- or ErrNumeric-wrapped error on the first
// violation found.
func (p *Parameters) Validate() error {
	if p.PopSize <= 0 {
		return fmt.Errorf("%w: pop_size must be positive, got %d", ErrConfig, p.PopSize)
	}
	if p.NumIter <= 0 {
		return fmt.Errorf("%w: num_iter must be positive, got %d", ErrConfig, p.NumIter)
	}
	if p.NContacts < 0 || math.IsNaN(p.NContacts) || math.IsInf(p.NContacts, 0) {
		return fmt.Errorf("%w: n_contacts must be a non-negative finite mean, got %v", ErrConfig, p.NContacts)
	}
	if p.InitialInfections < 0 || p.InitialInfections > p.PopSize {
		return fmt.Errorf("%w: initial_infections must be in [0, pop_size], got %d", ErrConfig, p.InitialInfections)
	}

	probs := []struct {
		name string
		v    float64
	}{
		{"prob_infection", p.ProbInfection},
		{"asymptomatic_infectiousness", p.Epidemic.AsymptomaticInfectiousness},
		{"prob_asymptomatic", p.Epidemic.ProbAsymptomatic},
		{"case_fatality_ratio", p.Epidemic.CaseFatalityRatio},
		{"prob_severe", p.Clinical.ProbSevere},
		{"prob_critical", p.Clinical.ProbCritical},
		{"prob_death", p.Clinical.ProbDeath},
	}
	for _, pr := range probs {
		if err := checkProb(pr.name, pr.v); err != nil {
			return err
		}
	}

	periods := []struct {
		name string
		v    float64
	}{
		{"incubation_period", p.Epidemic.IncubationPeriod},
		{"infectious_period", p.Epidemic.InfectiousPeriod},
		{"severe_period", p.Clinical.SeverePeriod},
		{"critical_period", p.Clinical.CriticalPeriod},
	}
	for _, pd := range periods {
		if err := checkPeriod(pd.name, pd.v); err != nil {
			return err
		}
	}

	if p.PopDistrib == nil && p.PopCounts == nil {
		return fmt.Errorf("%w: one of pop_distrib or pop_counts is required", ErrConfig)
	}
	if p.PopDistrib != nil && p.PopCounts != nil {
		return fmt.Errorf("%w: pop_distrib and pop_counts are mutually exclusive", ErrConfig)
	}
	if p.PopDistrib != nil {
		if len(p.PopDistrib) != NumAgeBands {
			return fmt.Errorf("%w: pop_distrib must have %d entries, got %d", ErrConfig, NumAgeBands, len(p.PopDistrib))
		}
		total := 0.0
		for i, w := range p.PopDistrib {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("%w: pop_distrib[%d] must be a non-negative weight, got %v", ErrConfig, i, w)
			}
			total += w
		}
		if total == 0 {
			return fmt.Errorf("%w: pop_distrib weights sum to zero", ErrConfig)
		}
	}
	if p.PopCounts != nil {
		if len(p.PopCounts) != NumAgeBands {
			return fmt.Errorf("%w: pop_counts must have %d entries, got %d", ErrConfig, NumAgeBands, len(p.PopCounts))
		}
		total := 0
		for i, n := range p.PopCounts {
			if n < 0 {
				return fmt.Errorf("%w: pop_counts[%d] must be non-negative, got %d", ErrConfig, i, n)
			}
			total += n
		}
		if total != p.PopSize {
			return fmt.Errorf("%w: pop_counts sum to %d, want pop_size %d", ErrConfig, total, p.PopSize)
		}
	}

	for i, n := range p.Target {
		if n < 0 {
			return fmt.Errorf("%w: epicurve.data[%d] must be non-negative, got %d", ErrConfig, i, n)
		}
	}
	if len(p.Target) > 0 && len(p.Target) < p.NumIter {
		return fmt.Errorf("%w: epicurve.data has %d entries, want at least num_iter=%d", ErrConfig, len(p.Target), p.NumIter)
	}

	return nil
}

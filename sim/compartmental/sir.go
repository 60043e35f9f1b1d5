// Package compartmental implements the deterministic SEIR reference model,
// a non-stochastic companion to the agent-based engine used for sanity
// comparison. It integrates the compartment flows with fixed one-day Euler
// steps and emits the same per-day record series.
package compartmental

import (
	"fmt"
	"math"

	"github.com/epidemic-sim/epidemic-sim/sim"
	"github.com/epidemic-sim/epidemic-sim/sim/report"
)

// Model holds the daily compartment flow rates, derived from the shared
// parameter bundle:
//
//	β = prob_infection × n_contacts   (transmission rate)
//	σ = 1 / incubation_period         (E → I rate)
//	γ = 1 / infectious_period         (I → outcome rate)
//
// The fraction of resolved infections that die is the derived case-fatality
// ratio of the clinical chain.
type Model struct {
	Beta  float64
	Sigma float64
	Gamma float64
	CFR   float64

	PopSize           int
	InitialInfections int
	Days              int
}

// FromParameters derives a Model from a validated parameter bundle.
func FromParameters(p *sim.Parameters) (*Model, error) {
	m := &Model{
		Beta:              p.ProbInfection * p.NContacts,
		Sigma:             1 / p.Epidemic.IncubationPeriod,
		Gamma:             1 / p.Epidemic.InfectiousPeriod,
		CFR:               p.Clinical.DerivedCFR(),
		PopSize:           p.PopSize,
		InitialInfections: p.InitialInfections,
		Days:              p.NumIter,
	}
	if math.IsNaN(m.Sigma) || math.IsInf(m.Sigma, 0) || math.IsNaN(m.Gamma) || math.IsInf(m.Gamma, 0) {
		return nil, fmt.Errorf("%w: compartmental rates are not finite", sim.ErrNumeric)
	}
	return m, nil
}

// Run integrates the model over the configured horizon and returns the
// per-day record series. Counts are rounded for output but the integration
// itself stays in floats.
func (m *Model) Run() []report.DayRecord {
	n := float64(m.PopSize)
	s := n - float64(m.InitialInfections)
	e := float64(m.InitialInfections)
	i, r, d := 0.0, 0.0, 0.0

	records := make([]report.DayRecord, 0, m.Days)
	for day := 0; day < m.Days; day++ {
		// Flows are computed from the day-start values, then applied
		// together; each is clamped so a large rate cannot overdraw its
		// source compartment in a one-day step.
		infections := math.Min(m.Beta*s*i/n, s)
		onsets := math.Min(m.Sigma*e, e)
		resolved := math.Min(m.Gamma*i, i)

		s -= infections
		e += infections - onsets
		i += onsets - resolved
		r += resolved * (1 - m.CFR)
		d += resolved * m.CFR

		records = append(records, report.DayRecord{
			Day:         day,
			Susceptible: int(math.Round(s)),
			Exposed:     int(math.Round(e)),
			Infectious:  int(math.Round(i)),
			Recovered:   int(math.Round(r)),
			Dead:        int(math.Round(d)),
			NewCases:    int(math.Round(onsets)),
		})
	}
	return records
}

package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/epidemic-sim/epidemic-sim/sim/report"
)

// DayCounts is the per-day aggregate: how many agents occupy each
// compartment at the end of the day, plus the day's new-case count.
// NewCases counts agents entering an infectious sub-state that day — the
// series comparable to the observed epicurve.
type DayCounts struct {
	Day      int
	States   [NumDiseaseStates]int
	NewCases int
}

// Total is the sum over compartments; it must equal pop_size every day.
func (d DayCounts) Total() int {
	t := 0
	for _, n := range d.States {
		t += n
	}
	return t
}

// EpiCurve accumulates the per-day aggregates of one simulation run. It is
// the engine's observable output, consumed by the reporter and the
// calibrator.
type EpiCurve struct {
	Days []DayCounts
}

// Append records one day.
func (c *EpiCurve) Append(d DayCounts) {
	c.Days = append(c.Days, d)
}

// NewCaseSeries extracts the daily new-case counts as floats, the quantity
// the calibrator compares against the target epicurve.
func (c *EpiCurve) NewCaseSeries() []float64 {
	out := make([]float64, len(c.Days))
	for i, d := range c.Days {
		out[i] = float64(d.NewCases)
	}
	return out
}

// Records converts the curve to the reporter's per-day output rows.
func (c *EpiCurve) Records() []report.DayRecord {
	out := make([]report.DayRecord, len(c.Days))
	for i, d := range c.Days {
		out[i] = report.DayRecord{
			Day:         d.Day,
			Susceptible: d.States[Susceptible],
			Exposed:     d.States[Exposed],
			Infectious:  d.States[Asymptomatic] + d.States[Symptomatic],
			Severe:      d.States[Severe],
			Critical:    d.States[Critical],
			Recovered:   d.States[Recovered],
			Dead:        d.States[Dead],
			NewCases:    d.NewCases,
		}
	}
	return out
}

// RunSummary aggregates end-of-run statistics in the manner of the final
// metrics printout.
type RunSummary struct {
	DaysRun       int
	Extinct       bool
	TotalInfected int
	Deaths        int
	AttackRate    float64
	// RealizedCFR is deaths over total symptomatic-or-worse cases observed.
	RealizedCFR float64
	// MeanSecondary is the mean number of secondary infections caused by
	// agents that left the susceptible state (an R0-style estimate).
	MeanSecondary float64
}

// Log emits the summary through the logging collaborator.
func (s RunSummary) Log() {
	logrus.Infof("=== Run Summary ===")
	logrus.Infof("Days simulated     : %d (extinct=%v)", s.DaysRun, s.Extinct)
	logrus.Infof("Total infected     : %d (attack rate %.4f)", s.TotalInfected, s.AttackRate)
	logrus.Infof("Deaths             : %d (realized CFR %.4f)", s.Deaths, s.RealizedCFR)
	logrus.Infof("Mean secondary inf.: %.3f", s.MeanSecondary)
}

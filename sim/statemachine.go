package sim

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// StateMachine advances a single agent by one simulated day. Durations are
// sampled once, on entry to a timed state, from an Exponential distribution
// with the configured mean period; the agent moves on when its remaining
// counter runs out. All draws come from the caller's substream, so the rule
// is a pure function of (previous-day agent, today's draws).
type StateMachine struct {
	Params *Parameters
}

// sampleDuration draws a sojourn time with the given mean, in days.
func sampleDuration(mean float64, rng *rand.Rand) float64 {
	return distuv.Exponential{Rate: 1 / mean, Src: rng}.Rand()
}

// Expose moves a susceptible agent into Exposed on the given day, sampling
// its incubation duration. No-op for agents already past Susceptible.
func (m *StateMachine) Expose(a *Agent, day int, rng *rand.Rand) {
	if a.State != Susceptible {
		return
	}
	a.State = Exposed
	a.EnteredDay = day
	a.Remaining = sampleDuration(m.Params.Epidemic.IncubationPeriod, rng)
}

// Advance computes the agent's state for day+1, mutating a in place.
// exposed reports whether the transmission model marked this (susceptible)
// agent for exposure today. The return value is true when the agent enters
// an infectious sub-state this step — the "new case" event the epicurve
// records.
func (m *StateMachine) Advance(a *Agent, exposed bool, day int, rng *rand.Rand) (newCase bool) {
	if a.State.Terminal() {
		return false
	}

	if a.State == Susceptible {
		if exposed {
			// Transition takes effect starting next day.
			m.Expose(a, day+1, rng)
		}
		return false
	}

	a.Remaining -= 1
	if a.Remaining > 0 {
		return false
	}

	switch a.State {
	case Exposed:
		if rng.Float64() < m.Params.Epidemic.ProbAsymptomatic {
			m.enter(a, Asymptomatic, day+1, m.Params.Epidemic.InfectiousPeriod, rng)
		} else {
			m.enter(a, Symptomatic, day+1, m.Params.Epidemic.InfectiousPeriod, rng)
		}
		return true
	case Asymptomatic:
		m.terminate(a, Recovered, day+1)
	case Symptomatic:
		if rng.Float64() < m.Params.Clinical.ProbSevere {
			m.enter(a, Severe, day+1, m.Params.Clinical.SeverePeriod, rng)
		} else {
			m.terminate(a, Recovered, day+1)
		}
	case Severe:
		if rng.Float64() < m.Params.Clinical.ProbCritical {
			m.enter(a, Critical, day+1, m.Params.Clinical.CriticalPeriod, rng)
		} else {
			m.terminate(a, Recovered, day+1)
		}
	case Critical:
		if rng.Float64() < m.Params.Clinical.ProbDeath {
			m.terminate(a, Dead, day+1)
		} else {
			m.terminate(a, Recovered, day+1)
		}
	}
	return false
}

func (m *StateMachine) enter(a *Agent, s DiseaseState, day int, meanPeriod float64, rng *rand.Rand) {
	a.State = s
	a.EnteredDay = day
	a.Remaining = sampleDuration(meanPeriod, rng)
}

func (m *StateMachine) terminate(a *Agent, s DiseaseState, day int) {
	a.State = s
	a.EnteredDay = day
	a.Remaining = 0
}

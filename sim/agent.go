package sim

import "fmt"

// DiseaseState enumerates the compartments an agent can occupy, in natural
// progression order. Asymptomatic and Symptomatic are the two infectious
// sub-states; Severe and Critical are clinical escalations of Symptomatic.
type DiseaseState uint8

const (
	Susceptible DiseaseState = iota
	Exposed
	Asymptomatic
	Symptomatic
	Severe
	Critical
	Recovered
	Dead

	// NumDiseaseStates is the number of compartments tracked per day.
	NumDiseaseStates = int(Dead) + 1
)

var stateNames = [NumDiseaseStates]string{
	"susceptible", "exposed", "asymptomatic", "symptomatic",
	"severe", "critical", "recovered", "dead",
}

func (s DiseaseState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// Terminal reports whether the state can never change again.
func (s DiseaseState) Terminal() bool {
	return s == Recovered || s == Dead
}

// Active reports whether the agent carries the disease in a non-terminal
// state. The epidemic is extinct once no agent is Active.
func (s DiseaseState) Active() bool {
	return s != Susceptible && !s.Terminal()
}

// NumAgeBands is the number of decadal age bins (0-9 through 80+).
const NumAgeBands = 9

// AgeBand is a decadal age bin index in [0, NumAgeBands).
type AgeBand uint8

func (b AgeBand) String() string {
	if b >= NumAgeBands-1 {
		return "80+"
	}
	return fmt.Sprintf("%d-%d", int(b)*10, int(b)*10+9)
}

// Agent is one simulated individual. Agents are stored by value in the
// Population slice and addressed by their dense index; they never reference
// each other directly.
type Agent struct {
	ID   int
	Band AgeBand

	State DiseaseState
	// EnteredDay is the simulated day the agent entered State.
	EnteredDay int
	// Remaining is the sampled sojourn time left in State, in days. It is
	// drawn once on entry to a timed state and decremented one day per step.
	Remaining float64

	// SecondaryInfections counts exposures this agent caused, for the
	// R0-style run summary.
	SecondaryInfections int
}

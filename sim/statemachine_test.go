package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestStateMachine_ExposeOnlySusceptible(t *testing.T) {
	p := DefaultParameters()
	m := StateMachine{Params: &p}
	rng := testRand(1)

	a := Agent{State: Susceptible}
	m.Expose(&a, 3, rng)
	assert.Equal(t, Exposed, a.State)
	assert.Equal(t, 3, a.EnteredDay)
	assert.Greater(t, a.Remaining, 0.0)

	r := Agent{State: Recovered}
	m.Expose(&r, 3, rng)
	assert.Equal(t, Recovered, r.State, "terminal agents must not be re-exposed")
}

func TestStateMachine_TerminalStatesNeverChange(t *testing.T) {
	p := DefaultParameters()
	m := StateMachine{Params: &p}
	rng := testRand(2)

	for _, s := range []DiseaseState{Recovered, Dead} {
		a := Agent{State: s}
		for day := 0; day < 50; day++ {
			m.Advance(&a, true, day, rng)
		}
		assert.Equal(t, s, a.State)
	}
}

func TestStateMachine_SusceptibleStaysWithoutExposure(t *testing.T) {
	p := DefaultParameters()
	m := StateMachine{Params: &p}
	rng := testRand(3)

	a := Agent{State: Susceptible}
	for day := 0; day < 50; day++ {
		newCase := m.Advance(&a, false, day, rng)
		assert.False(t, newCase)
	}
	assert.Equal(t, Susceptible, a.State)
}

// run advances a until it reaches a terminal state, tracking the visited
// states in order.
func runToTerminal(t *testing.T, m *StateMachine, a *Agent, rng *rand.Rand) []DiseaseState {
	t.Helper()
	visited := []DiseaseState{a.State}
	for day := 0; day < 10_000 && !a.State.Terminal(); day++ {
		prev := a.State
		m.Advance(a, false, day, rng)
		if a.State != prev {
			visited = append(visited, a.State)
		}
	}
	require.True(t, a.State.Terminal(), "agent never reached a terminal state")
	return visited
}

func TestStateMachine_SevereChainProgression(t *testing.T) {
	// Force the symptomatic → severe → critical → dead path.
	p := DefaultParameters()
	p.Epidemic.ProbAsymptomatic = 0
	p.Clinical.ProbSevere = 1
	p.Clinical.ProbCritical = 1
	p.Clinical.ProbDeath = 1
	m := StateMachine{Params: &p}
	rng := testRand(4)

	a := Agent{State: Susceptible}
	m.Expose(&a, 0, rng)
	visited := runToTerminal(t, &m, &a, rng)

	assert.Equal(t, []DiseaseState{Exposed, Symptomatic, Severe, Critical, Dead}, visited)
}

func TestStateMachine_AsymptomaticPathRecovers(t *testing.T) {
	p := DefaultParameters()
	p.Epidemic.ProbAsymptomatic = 1
	m := StateMachine{Params: &p}
	rng := testRand(5)

	a := Agent{State: Susceptible}
	m.Expose(&a, 0, rng)
	visited := runToTerminal(t, &m, &a, rng)

	assert.Equal(t, []DiseaseState{Exposed, Asymptomatic, Recovered}, visited)
}

func TestStateMachine_NewCaseOnInfectiousEntry(t *testing.T) {
	p := DefaultParameters()
	p.Epidemic.ProbAsymptomatic = 0
	m := StateMachine{Params: &p}
	rng := testRand(6)

	a := Agent{State: Susceptible}
	m.Expose(&a, 0, rng)

	sawNewCase := false
	for day := 0; day < 10_000 && !a.State.Terminal(); day++ {
		if m.Advance(&a, false, day, rng) {
			assert.Equal(t, Symptomatic, a.State)
			assert.False(t, sawNewCase, "an agent is a new case at most once")
			sawNewCase = true
		}
	}
	assert.True(t, sawNewCase)
}

func TestSampleDuration_MeanApprox(t *testing.T) {
	rng := testRand(7)
	const n = 20_000
	sum := 0.0
	for i := 0; i < n; i++ {
		d := sampleDuration(DefaultInfectiousPeriod, rng)
		require.Greater(t, d, 0.0)
		sum += d
	}
	assert.InDelta(t, DefaultInfectiousPeriod, sum/n, 0.2)
}

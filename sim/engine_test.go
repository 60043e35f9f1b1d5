package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runEngine(t *testing.T, p Parameters, seed int64, workers int) *RunResult {
	t.Helper()
	res, err := Simulate(&p, seed, workers)
	require.NoError(t, err)
	return res
}

func TestEngine_ConservationEveryDay(t *testing.T) {
	p := testParams(2000)
	p.NumIter = 40
	p.InitialInfections = 20

	res := runEngine(t, p, 42, 4)
	require.NotEmpty(t, res.Curve.Days)
	for _, d := range res.Curve.Days {
		assert.Equal(t, 2000, d.Total(), "day %d", d.Day)
	}
}

func TestEngine_Determinism(t *testing.T) {
	p := testParams(1500)
	p.NumIter = 30
	p.InitialInfections = 15

	a := runEngine(t, p, 42, 4)
	b := runEngine(t, p, 42, 4)

	require.Equal(t, len(a.Curve.Days), len(b.Curve.Days))
	for i := range a.Curve.Days {
		assert.Equal(t, a.Curve.Days[i], b.Curve.Days[i], "day %d", i)
	}
	assert.Equal(t, a.Summary, b.Summary)
}

func TestEngine_DifferentSeedsDiverge(t *testing.T) {
	p := testParams(1500)
	p.NumIter = 30
	p.InitialInfections = 15

	a := runEngine(t, p, 1, 4)
	b := runEngine(t, p, 2, 4)
	assert.NotEqual(t, a.Curve.Days, b.Curve.Days)
}

func TestEngine_NoInfectionBoundary(t *testing.T) {
	p := testParams(1000)
	p.NumIter = 400
	p.ProbInfection = 0
	p.InitialInfections = 10

	res := runEngine(t, p, 7, 4)

	for _, d := range res.Curve.Days {
		// Nobody beyond the seeded agents ever leaves Susceptible.
		assert.Equal(t, 990, d.States[Susceptible], "day %d", d.Day)
	}
	// All seeded agents end up terminal.
	final := res.Curve.Days[len(res.Curve.Days)-1]
	assert.Equal(t, 10, final.States[Recovered]+final.States[Dead])
	assert.True(t, res.Summary.Extinct)
}

func TestEngine_FullInfectionBoundary(t *testing.T) {
	p := testParams(500)
	p.NumIter = 30
	p.ProbInfection = 1
	p.NContacts = 50
	p.InitialInfections = 10
	p.Epidemic.AsymptomaticInfectiousness = 1

	res := runEngine(t, p, 11, 4)

	sawEmptySusceptible := false
	for _, d := range res.Curve.Days {
		if d.States[Susceptible] == 0 {
			sawEmptySusceptible = true
			break
		}
	}
	assert.True(t, sawEmptySusceptible, "susceptible pool should empty within a few days at prob 1 and saturating contacts")
}

func TestEngine_ExtinctionEarlyStop(t *testing.T) {
	p := testParams(300)
	p.NumIter = 5000
	p.ProbInfection = 0.001
	p.NContacts = 0.5
	p.InitialInfections = 1
	p.Clinical.ProbSevere = 0 // keep the single chain short

	res := runEngine(t, p, 13, 2)

	assert.True(t, res.Summary.Extinct)
	assert.Less(t, res.Summary.DaysRun, 5000)
	final := res.Curve.Days[len(res.Curve.Days)-1]
	assert.Zero(t, final.States[Exposed]+final.States[Asymptomatic]+final.States[Symptomatic]+
		final.States[Severe]+final.States[Critical])
}

func TestEngine_MonotonicTerminality(t *testing.T) {
	p := testParams(800)
	p.NumIter = 50
	p.InitialInfections = 40

	res := runEngine(t, p, 17, 4)

	prevRecovered, prevDead := 0, 0
	for _, d := range res.Curve.Days {
		assert.GreaterOrEqual(t, d.States[Recovered], prevRecovered, "day %d", d.Day)
		assert.GreaterOrEqual(t, d.States[Dead], prevDead, "day %d", d.Day)
		prevRecovered, prevDead = d.States[Recovered], d.States[Dead]
	}
}

func TestEngine_NewCasesMatchInfectiousEntries(t *testing.T) {
	// With no transmission, the only new cases are the seeded agents
	// leaving incubation, exactly once each.
	p := testParams(400)
	p.NumIter = 400
	p.ProbInfection = 0
	p.InitialInfections = 25

	res := runEngine(t, p, 19, 4)

	totalNew := 0
	for _, d := range res.Curve.Days {
		totalNew += d.NewCases
	}
	assert.Equal(t, 25, totalNew)
}

func TestEngine_WorkerCountDoesNotBreakConservation(t *testing.T) {
	p := testParams(1000)
	p.NumIter = 20
	p.InitialInfections = 10

	for _, workers := range []int{1, 2, 3, 8, 64} {
		res := runEngine(t, p, 23, workers)
		for _, d := range res.Curve.Days {
			require.Equal(t, 1000, d.Total(), "workers=%d day %d", workers, d.Day)
		}
	}
}

func TestEngine_SummaryAccounting(t *testing.T) {
	p := testParams(1000)
	p.NumIter = 60
	p.InitialInfections = 30

	res := runEngine(t, p, 29, 4)
	final := res.Curve.Days[len(res.Curve.Days)-1]

	assert.Equal(t, 1000-final.States[Susceptible], res.Summary.TotalInfected)
	assert.Equal(t, final.States[Dead], res.Summary.Deaths)
	assert.InDelta(t, float64(res.Summary.TotalInfected)/1000, res.Summary.AttackRate, 1e-12)
}

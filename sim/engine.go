package sim

import (
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Engine advances the whole population day by day. Each day is an atomic
// two-phase operation:
//
//  1. Read phase (parallel): workers walk disjoint agent-index ranges,
//     reading only the previous-day snapshot and writing each agent's
//     next-day state to its own slot in the next buffer. Exposure of a
//     susceptible agent is evaluated from the receiving side, so no worker
//     ever writes outside its range.
//  2. Commit phase (single goroutine): the next buffer becomes current,
//     secondary-infection credits are applied, and the day's aggregate
//     counts are appended to the epicurve.
//
// The errgroup Wait between the phases is the synchronization barrier; no
// locking is needed because there is no write-write or read-write conflict
// by construction.
type Engine struct {
	params  *Parameters
	machine StateMachine
	trans   TransmissionModel
	sampler ContactSampler

	workers int
	streams *StreamProvider

	cur, next []Agent
	// sources[i] is the index of the agent that infected agent i today,
	// or -1. Written by i's worker, applied in the commit phase.
	sources []int

	curve          EpiCurve
	cumSymptomatic int
}

// RunResult is the outcome of one full simulation run. A shorter-than-
// requested curve with Extinct set is a normal result, not a failure.
type RunResult struct {
	Curve   *EpiCurve
	Summary RunSummary
}

// NewEngine builds an engine over a freshly constructed population.
// workers <= 0 selects one worker per CPU. Changing the worker count
// changes the exact (though statistically equivalent) random sequence.
func NewEngine(params *Parameters, pop *Population, streams *StreamProvider, workers int) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(pop.Agents) {
		workers = len(pop.Agents)
	}
	e := &Engine{
		params:  params,
		machine: StateMachine{Params: params},
		trans:   NewTransmissionModel(params),
		sampler: ContactSampler{NContacts: params.NContacts, PopSize: len(pop.Agents)},
		workers: workers,
		streams: streams,
		cur:     make([]Agent, len(pop.Agents)),
		next:    make([]Agent, len(pop.Agents)),
		sources: make([]int, len(pop.Agents)),
	}
	copy(e.cur, pop.Agents)
	return e
}

// Step advances the population by exactly one simulated day and appends the
// day's aggregate counts to the epicurve.
func (e *Engine) Step(day int) {
	var g errgroup.Group
	chunk := (len(e.cur) + e.workers - 1) / e.workers

	for w := 0; w < e.workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(e.cur))
		if lo >= hi {
			break
		}
		rng := e.streams.Stream(StreamWorker(w))
		g.Go(func() error {
			buf := make([]int, 0, 16)
			for i := lo; i < hi; i++ {
				a := e.cur[i]
				e.sources[i] = -1
				exposed := false
				if a.State == Susceptible {
					buf = e.sampler.Contacts(i, rng, buf)
					for _, partner := range buf {
						if e.trans.Transmits(e.cur[partner].State, rng) && !exposed {
							exposed = true
							e.sources[i] = partner
						}
					}
				}
				e.machine.Advance(&a, exposed, day, rng)
				e.next[i] = a
			}
			return nil
		})
	}
	// Barrier: every next-state slot is final before any commit work.
	_ = g.Wait()

	e.commit(day)
}

// commit swaps the state buffers and aggregates the day's counts.
func (e *Engine) commit(day int) {
	for i := range e.sources {
		if src := e.sources[i]; src >= 0 {
			e.next[src].SecondaryInfections++
		}
	}

	counts := DayCounts{Day: day}
	for i := range e.next {
		prev, now := e.cur[i].State, e.next[i].State
		counts.States[now]++
		if prev == Exposed && (now == Asymptomatic || now == Symptomatic) {
			counts.NewCases++
		}
		if prev != Symptomatic && now == Symptomatic {
			e.cumSymptomatic++
		}
	}
	e.cur, e.next = e.next, e.cur
	e.curve.Append(counts)
}

// extinct reports whether no agent remains in a non-terminal, non-
// susceptible state.
func (e *Engine) extinct() bool {
	for i := range e.cur {
		if e.cur[i].State.Active() {
			return false
		}
	}
	return true
}

// Run executes num_iter days, or fewer once the epidemic is extinguished.
func (e *Engine) Run() *RunResult {
	extinct := false
	for day := 0; day < e.params.NumIter; day++ {
		e.Step(day)
		d := e.curve.Days[len(e.curve.Days)-1]
		logrus.Infof("[day %03d] S=%d E=%d I=%d H=%d C=%d R=%d D=%d new=%d",
			day, d.States[Susceptible], d.States[Exposed],
			d.States[Asymptomatic]+d.States[Symptomatic],
			d.States[Severe], d.States[Critical],
			d.States[Recovered], d.States[Dead], d.NewCases)
		if e.extinct() {
			extinct = true
			logrus.Infof("[day %03d] Epidemic extinguished, stopping early", day)
			break
		}
	}
	return &RunResult{
		Curve:   &e.curve,
		Summary: e.summary(extinct),
	}
}

func (e *Engine) summary(extinct bool) RunSummary {
	final := e.curve.Days[len(e.curve.Days)-1]
	totalInfected := len(e.cur) - final.States[Susceptible]

	secondary := 0
	for i := range e.cur {
		secondary += e.cur[i].SecondaryInfections
	}

	s := RunSummary{
		DaysRun:       len(e.curve.Days),
		Extinct:       extinct,
		TotalInfected: totalInfected,
		Deaths:        final.States[Dead],
		AttackRate:    float64(totalInfected) / float64(len(e.cur)),
	}
	if e.cumSymptomatic > 0 {
		s.RealizedCFR = float64(final.States[Dead]) / float64(e.cumSymptomatic)
	}
	if totalInfected > 0 {
		s.MeanSecondary = float64(secondary) / float64(totalInfected)
	}
	return s
}

// Simulate is the one-call entry point: build the population for params,
// run to completion and return the result. seed and workers fix the exact
// random sequence.
func Simulate(params *Parameters, seed int64, workers int) (*RunResult, error) {
	streams := NewStreamProvider(NewSimulationKey(seed))
	pop, err := BuildPopulation(params, streams)
	if err != nil {
		return nil, err
	}
	return NewEngine(params, pop, streams, workers).Run(), nil
}

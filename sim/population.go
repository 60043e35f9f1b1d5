package sim

import (
	"fmt"
	"math"
)

// Population owns the ordered sequence of agents, partitioned into decadal
// age bands. Agents are addressed by dense index; no agent outlives its
// Population.
type Population struct {
	Agents     []Agent
	BandCounts [NumAgeBands]int
}

// BuildPopulation constructs a Population of params.PopSize agents assigned
// to age bands from pop_counts (absolute) or pop_distrib (relative weights),
// and seeds params.InitialInfections agents as Exposed at day 0 using the
// provider's seeding stream.
func BuildPopulation(params *Parameters, streams *StreamProvider) (*Population, error) {
	counts, err := bandCounts(params)
	if err != nil {
		return nil, err
	}

	pop := &Population{
		Agents:     make([]Agent, params.PopSize),
		BandCounts: counts,
	}
	idx := 0
	for band, n := range counts {
		for i := 0; i < n; i++ {
			pop.Agents[idx] = Agent{ID: idx, Band: AgeBand(band)}
			idx++
		}
	}

	pop.seed(params, streams)
	return pop, nil
}

// bandCounts resolves the per-band agent counts to sum exactly to PopSize.
// With relative weights, rounding remainders go to the largest band.
func bandCounts(params *Parameters) ([NumAgeBands]int, error) {
	var counts [NumAgeBands]int

	if params.PopCounts != nil {
		total := 0
		for band, n := range params.PopCounts {
			counts[band] = n
			total += n
		}
		if total != params.PopSize {
			return counts, fmt.Errorf("%w: pop_counts sum to %d, want pop_size %d", ErrConfig, total, params.PopSize)
		}
		return counts, nil
	}

	totalWeight := 0.0
	for _, w := range params.PopDistrib {
		totalWeight += w
	}
	if totalWeight <= 0 || math.IsNaN(totalWeight) || math.IsInf(totalWeight, 0) {
		return counts, fmt.Errorf("%w: pop_distrib weights sum to %v", ErrNumeric, totalWeight)
	}

	assigned := 0
	largest := 0
	for band, w := range params.PopDistrib {
		counts[band] = int(math.Floor(w / totalWeight * float64(params.PopSize)))
		assigned += counts[band]
		if w > params.PopDistrib[largest] {
			largest = band
		}
	}
	counts[largest] += params.PopSize - assigned
	return counts, nil
}

// seed marks InitialInfections distinct agents Exposed at day 0, each with
// an incubation duration drawn from its own entry point in the state machine.
func (p *Population) seed(params *Parameters, streams *StreamProvider) {
	if params.InitialInfections == 0 {
		return
	}
	rng := streams.Stream(StreamSeeding)
	machine := StateMachine{Params: params}

	seeded := 0
	for seeded < params.InitialInfections {
		idx := rng.Intn(len(p.Agents))
		if p.Agents[idx].State != Susceptible {
			continue
		}
		machine.Expose(&p.Agents[idx], 0, rng)
		seeded++
	}
}

// Counts tallies the number of agents currently in each disease state.
func (p *Population) Counts() [NumDiseaseStates]int {
	var counts [NumDiseaseStates]int
	for i := range p.Agents {
		counts[p.Agents[i].State]++
	}
	return counts
}

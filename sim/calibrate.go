package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Candidate is one point in the calibration search space.
type Candidate struct {
	ProbInfection     float64
	InitialInfections int
}

// Objective scores a candidate parameter set; lower is better. The engine-
// backed implementation is EpicurveObjective, but the search works against
// any scalar objective.
type Objective interface {
	Evaluate(c Candidate) (float64, error)
}

// CalibrationOptions bound the search. The iteration cap is mandatory: each
// evaluation is a batch of full stochastic runs.
type CalibrationOptions struct {
	// Replicates is the number of independent runs averaged per evaluation.
	Replicates int
	// MaxIters caps coordinate-descent sweeps.
	MaxIters int
	// Tolerance stops the search once a full sweep improves the objective
	// by less than this fraction.
	Tolerance float64
	// Workers is passed through to each engine run.
	Workers int
}

// DefaultCalibrationOptions returns the documented search defaults.
func DefaultCalibrationOptions() CalibrationOptions {
	return CalibrationOptions{
		Replicates: 5,
		MaxIters:   25,
		Tolerance:  1e-3,
	}
}

// CalibrationResult reports the best candidate found. Converged=false is an
// expected outcome of a heuristic local search over a noisy objective, not
// a failure; the best-so-far candidate is still usable.
type CalibrationResult struct {
	Best        Candidate
	Residual    float64
	Evaluations int
	Converged   bool
}

// EpicurveObjective scores a candidate by the sum of squared day-aligned
// differences between the replicate-mean simulated new-case curve and the
// target epicurve. Replicates run in parallel on seeds derived from the
// provider, independent of the per-day worker streams.
type EpicurveObjective struct {
	Params  Parameters // copied per evaluation, free fields overwritten
	Target  []int
	Streams *StreamProvider
	Options CalibrationOptions
}

// Evaluate runs Options.Replicates independent simulations of the candidate
// and returns the SSE of the mean curve against the target.
func (o *EpicurveObjective) Evaluate(c Candidate) (float64, error) {
	if len(o.Target) == 0 {
		return 0, fmt.Errorf("%w: calibration requires a target epicurve", ErrConfig)
	}

	reps := o.Options.Replicates
	if reps <= 0 {
		reps = 1
	}
	curves := make([][]float64, reps)
	var g errgroup.Group
	for r := 0; r < reps; r++ {
		r := r
		seed := o.Streams.DeriveSeed(StreamReplicate(r))
		g.Go(func() error {
			params := o.Params
			params.ProbInfection = c.ProbInfection
			params.InitialInfections = c.InitialInfections
			res, err := Simulate(&params, seed, o.Options.Workers)
			if err != nil {
				return err
			}
			curves[r] = res.Curve.NewCaseSeries()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return sseAgainstTarget(meanCurve(curves, o.Params.NumIter), o.Target), nil
}

// meanCurve averages replicate curves day by day. Runs that stopped early
// on extinction contribute zeros past their last day.
func meanCurve(curves [][]float64, days int) []float64 {
	mean := make([]float64, days)
	padded := make([]float64, days)
	for _, curve := range curves {
		for d := range padded {
			padded[d] = 0
		}
		copy(padded, curve[:min(days, len(curve))])
		floats.Add(mean, padded)
	}
	floats.Scale(1/float64(len(curves)), mean)
	return mean
}

func sseAgainstTarget(mean []float64, target []int) float64 {
	sse := 0.0
	for d := range mean {
		if d >= len(target) {
			break
		}
		diff := mean[d] - float64(target[d])
		sse += diff * diff
	}
	return sse
}

// Calibrator searches the bounded (prob_infection, initial_infections)
// space with derivative-free coordinate descent: try a step up and down
// each coordinate, keep improvements, halve the steps after a sweep with no
// improvement. It is a heuristic local search — a local optimum or an
// exhausted budget is an expected outcome.
type Calibrator struct {
	Objective Objective
	Options   CalibrationOptions
	PopSize   int
}

// NewCalibrator wires the standard engine-backed objective for params.
func NewCalibrator(params Parameters, seed int64, opts CalibrationOptions) *Calibrator {
	return &Calibrator{
		Objective: &EpicurveObjective{
			Params:  params,
			Target:  params.Target,
			Streams: NewStreamProvider(NewSimulationKey(seed)),
			Options: opts,
		},
		Options: opts,
		PopSize: params.PopSize,
	}
}

// Run searches from the given starting candidate and returns the best point
// found with its residual error.
func (cal *Calibrator) Run(start Candidate) (*CalibrationResult, error) {
	best := cal.clamp(start)
	bestErr, err := cal.Objective.Evaluate(best)
	if err != nil {
		return nil, err
	}
	evals := 1

	probStep := 0.05
	infStep := max(1, best.InitialInfections/2)

	converged := false
	for iter := 0; iter < cal.Options.MaxIters; iter++ {
		improvedBy := 0.0

		for _, cand := range []Candidate{
			{best.ProbInfection + probStep, best.InitialInfections},
			{best.ProbInfection - probStep, best.InitialInfections},
			{best.ProbInfection, best.InitialInfections + infStep},
			{best.ProbInfection, best.InitialInfections - infStep},
		} {
			cand = cal.clamp(cand)
			if cand == best {
				continue
			}
			e, err := cal.Objective.Evaluate(cand)
			if err != nil {
				return nil, err
			}
			evals++
			if e < bestErr {
				improvedBy += bestErr - e
				best, bestErr = cand, e
			}
		}

		logrus.Debugf("calibration sweep %d: best=%+v residual=%.3f", iter, best, bestErr)

		if improvedBy == 0 {
			probStep /= 2
			infStep = max(1, infStep/2)
		}
		if probStep < cal.Options.Tolerance || (bestErr > 0 && improvedBy/bestErr < cal.Options.Tolerance && improvedBy > 0) {
			converged = true
			break
		}
		if bestErr == 0 {
			converged = true
			break
		}
	}

	if !converged {
		logrus.Warnf("calibration budget exhausted without convergence; best residual %.3f", bestErr)
	}
	return &CalibrationResult{
		Best:        best,
		Residual:    bestErr,
		Evaluations: evals,
		Converged:   converged,
	}, nil
}

// clamp bounds a candidate to the valid parameter space.
func (cal *Calibrator) clamp(c Candidate) Candidate {
	c.ProbInfection = math.Min(1, math.Max(0, c.ProbInfection))
	if c.InitialInfections < 1 {
		c.InitialInfections = 1
	}
	if cal.PopSize > 0 && c.InitialInfections > cal.PopSize {
		c.InitialInfections = cal.PopSize
	}
	return c
}

// Package sim provides the agent-based stochastic epidemic simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - agent.go: Agent state (Susceptible → ... → Recovered/Dead) and age bands
//   - statemachine.go: the one-agent, one-day transition rule
//   - engine.go: the two-phase parallel day step and the run loop
//
// # Architecture
//
// The sim package holds the engine; leaf concerns live in sub-packages:
//   - sim/report/: per-day output records and CSV emission (pure data)
//   - sim/compartmental/: the deterministic SEIR reference model
//
// One simulated day is a pure function from (previous-day snapshot, today's
// random draws) to (next-day state): workers read an immutable snapshot and
// write only their own agents' slots in a double buffer, with a barrier
// before the single-threaded commit. Randomness is never ambient — every
// draw comes from a named substream issued by StreamProvider (rng.go), so a
// fixed seed and worker count reproduce a run exactly.
//
// Calibration (calibrate.go) sits on top as an abstraction over
// "evaluate(candidate) → scalar error": the engine knows nothing about the
// search, and the search only sees mean-curve residuals.
package sim

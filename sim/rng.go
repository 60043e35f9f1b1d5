package sim

import (
	"fmt"
	"hash/fnv"

	"golang.org/x/exp/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey, identical Parameters and identical
// worker partitioning MUST produce bit-for-bit identical epicurves.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Stream name constants ===

// StreamSeeding draws the initial-infection placement.
const StreamSeeding = "seeding"

// StreamWorker returns the stream name for worker N of the day-step pool.
func StreamWorker(id int) string {
	return fmt.Sprintf("worker_%d", id)
}

// StreamReplicate returns the stream name used to derive the master seed of
// calibration replicate N.
func StreamReplicate(id int) string {
	return fmt.Sprintf("replicate_%d", id)
}

// === StreamProvider ===

// StreamProvider issues deterministic, isolated random substreams, one per
// named task. Substreams are derived as masterSeed XOR fnv1a64(name), so a
// fixed seed plus a fixed task partitioning reproduces every draw exactly.
//
// Thread-safety: NOT thread-safe. Derive all streams from a single
// goroutine before handing them to workers; each returned *rand.Rand is then
// owned exclusively by its task.
type StreamProvider struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewStreamProvider creates a StreamProvider from a SimulationKey.
func NewStreamProvider(key SimulationKey) *StreamProvider {
	return &StreamProvider{
		key:     key,
		streams: make(map[string]*rand.Rand),
	}
}

// Stream returns the deterministically-seeded substream for the named task.
// The same name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *StreamProvider) Stream(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(uint64(p.DeriveSeed(name))))
	p.streams[name] = rng
	return rng
}

// DeriveSeed returns the seed a substream of the given name would use,
// without materializing the stream. The calibrator uses this to hand
// independent master seeds to replicate runs.
func (p *StreamProvider) DeriveSeed(name string) int64 {
	return int64(p.key) ^ fnv1a64(name)
}

// Key returns the SimulationKey used to create this StreamProvider.
func (p *StreamProvider) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

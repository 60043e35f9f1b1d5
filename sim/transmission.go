package sim

import "golang.org/x/exp/rand"

// TransmissionModel decides infection across a sampled contact between a
// susceptible agent and an infectious partner. Transmission is always
// evaluated in the direction that matters: the susceptible side receiving.
type TransmissionModel struct {
	ProbInfection float64
	// AsymptomaticFactor scales infectiousness when the infectious party is
	// asymptomatic (< 1).
	AsymptomaticFactor float64
	// IsolateSevere excludes Severe and Critical agents from contact
	// transmission (the conservative isolation assumption).
	IsolateSevere bool
}

// NewTransmissionModel derives a TransmissionModel from the parameter bundle.
func NewTransmissionModel(params *Parameters) TransmissionModel {
	return TransmissionModel{
		ProbInfection:      params.ProbInfection,
		AsymptomaticFactor: params.Epidemic.AsymptomaticInfectiousness,
		IsolateSevere:      params.IsolateSevere,
	}
}

// Infectious reports whether an agent in state s can transmit on contact.
func (t *TransmissionModel) Infectious(s DiseaseState) bool {
	switch s {
	case Asymptomatic, Symptomatic:
		return true
	case Severe, Critical:
		return !t.IsolateSevere
	default:
		return false
	}
}

// EffectiveProb is the per-contact infection probability given the
// infectious party's state. Zero for non-infectious states.
func (t *TransmissionModel) EffectiveProb(s DiseaseState) float64 {
	if !t.Infectious(s) {
		return 0
	}
	if s == Asymptomatic {
		return t.ProbInfection * t.AsymptomaticFactor
	}
	return t.ProbInfection
}

// Transmits draws one Bernoulli trial for a contact with an infectious
// party in state s. Multiple contacts on the same susceptible agent in the
// same day are independent trials; the agent is exposed if any succeeds.
func (t *TransmissionModel) Transmits(s DiseaseState, rng *rand.Rand) bool {
	p := t.EffectiveProb(s)
	return p > 0 && rng.Float64() < p
}

package entities

import "math/rand"

// AnomalyKind represents the different ways a room can be wrong
type AnomalyKind int

const (
	AnomalyObjectDisappear  AnomalyKind = iota // A prop is missing
	AnomalyObjectMoving                        // A prop drifts when unobserved
	AnomalyRadioNoise                          // The radio plays noise
	AnomalyStatic                              // Background static
	AnomalyStrangeAudio                        // An out-of-place sound plays once
	AnomalyFlickeringLights                    // Room lights flicker
	AnomalyLargeObject                         // A prop is oversized
)

// anomalyKindCount is the number of anomaly kinds (for uniform rolls).
const anomalyKindCount = 7

// String returns the anomaly kind name
func (k AnomalyKind) String() string {
	switch k {
	case AnomalyObjectDisappear:
		return "ObjectDisappear"
	case AnomalyObjectMoving:
		return "ObjectMoving"
	case AnomalyRadioNoise:
		return "RadioNoise"
	case AnomalyStatic:
		return "Static"
	case AnomalyStrangeAudio:
		return "StrangeAudio"
	case AnomalyFlickeringLights:
		return "FlickeringLights"
	case AnomalyLargeObject:
		return "LargeObject"
	default:
		return "Unknown"
	}
}

// Audible returns true for anomalies that are heard rather than seen
func (k AnomalyKind) Audible() bool {
	return k == AnomalyRadioNoise || k == AnomalyStatic || k == AnomalyStrangeAudio
}

// Anomaly is the descriptor attached to a room. The room graph only cares
// whether one is present; the kind is for effect and presentation hookup.
type Anomaly struct {
	Kind AnomalyKind
}

// AnomalyRoller decides, once per room at creation, whether it has an anomaly.
// Returning nil means the room is clean.
type AnomalyRoller interface {
	Roll(stageIndex uint32) *Anomaly
}

// RandomRoller rolls an anomaly with a fixed chance and a uniform kind
type RandomRoller struct {
	Chance float64
	Rand   *rand.Rand
}

// NewRandomRoller creates a roller with the given chance and source
func NewRandomRoller(chance float64, rng *rand.Rand) *RandomRoller {
	return &RandomRoller{Chance: chance, Rand: rng}
}

// Roll implements AnomalyRoller
func (r *RandomRoller) Roll(stageIndex uint32) *Anomaly {
	if r.Rand.Float64() >= r.Chance {
		return nil
	}
	return &Anomaly{Kind: AnomalyKind(r.Rand.Intn(anomalyKindCount))}
}

// FixedRoller always returns the same answer. Useful for scripted rooms and tests.
type FixedRoller struct {
	Anomaly *Anomaly
}

// Roll implements AnomalyRoller
func (f FixedRoller) Roll(uint32) *Anomaly {
	if f.Anomaly == nil {
		return nil
	}
	a := *f.Anomaly
	return &a
}

// SequenceRoller hands out a scripted sequence of presence flags, then falls
// back to clean rooms.
type SequenceRoller struct {
	Present []bool
	next    int
}

// Roll implements AnomalyRoller
func (s *SequenceRoller) Roll(uint32) *Anomaly {
	if s.next >= len(s.Present) {
		return nil
	}
	present := s.Present[s.next]
	s.next++
	if !present {
		return nil
	}
	return &Anomaly{Kind: AnomalyStatic}
}

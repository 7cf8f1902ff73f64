package roomgraph

// Outcome is what leaving the current room through a forward door leads to.
type Outcome int

const (
	Advance     Outcome = iota // Next stage, or the endgame once stages run out
	Hallway                    // Missed anomaly: insert a hallway, stage back to 0
	Reset                      // False alarm: stage back to 0, normal room
	FromHallway                // Leaving a hallway: fresh stage-0 room
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case Advance:
		return "Advance"
	case Hallway:
		return "Hallway"
	case Reset:
		return "Reset"
	case FromHallway:
		return "FromHallway"
	default:
		return "Unknown"
	}
}

// Decide applies the progression table to the room being left.
//
//	hallway                         -> FromHallway
//	anomaly, judged correctly       -> Advance
//	anomaly, not judged correctly   -> Hallway
//	no anomaly, judged "anomaly"    -> Reset
//	no anomaly, otherwise           -> Advance
func Decide(isHallway, hasAnomaly, completed, solved bool) Outcome {
	switch {
	case isHallway:
		return FromHallway
	case hasAnomaly && completed && solved:
		return Advance
	case hasAnomaly:
		return Hallway
	case completed && !solved:
		return Reset
	default:
		return Advance
	}
}

// Next returns the stage index and template kind to spawn for an outcome.
// Advancing past last spawns the endgame and leaves the stage where it is.
func Next(o Outcome, stage, last uint32) (next uint32, hallway, endgame bool) {
	switch o {
	case Advance:
		if stage >= last {
			return stage, false, true
		}
		return stage + 1, false, false
	case Hallway:
		return 0, true, false
	default:
		return 0, false, false
	}
}

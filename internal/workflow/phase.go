package workflow

// Phase is the position of a Session in the split/combine workflow.
//
//	Idle -> Validated -> Split -> Selecting -> Combined
//
// Configure always returns to Idle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidated
	PhaseSplit
	PhaseSelecting
	PhaseCombined
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidated:
		return "validated"
	case PhaseSplit:
		return "split"
	case PhaseSelecting:
		return "selecting"
	case PhaseCombined:
		return "combined"
	default:
		return "unknown"
	}
}

// hasShares reports whether shares are available in p.
func (p Phase) hasShares() bool {
	return p >= PhaseSplit
}

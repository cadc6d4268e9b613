package voting

// Outcome classifies a Transition for the response message.
type Outcome int

const (
	OutcomeRecorded Outcome = iota
	OutcomeUnchanged
	OutcomeUndone
	OutcomeNothingToUndo
)

// Outcome derives the response category from the transition alone.
func (t Transition) Outcome() Outcome {
	switch {
	case t.Next != Reset && t.Previous == t.Next:
		return OutcomeUnchanged
	case t.Next != Reset:
		return OutcomeRecorded
	case t.Previous == Reset:
		return OutcomeNothingToUndo
	default:
		return OutcomeUndone
	}
}

// Message is the user facing text for the outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeRecorded:
		return "vote recorded"
	case OutcomeUnchanged:
		return "you already voted this way on this sauce"
	case OutcomeUndone:
		return "vote undone"
	case OutcomeNothingToUndo:
		return "no vote to undo on this sauce"
	}
	return ""
}

// ReportsCounts reports whether the response should carry the new tallies.
func (o Outcome) ReportsCounts() bool {
	return o == OutcomeRecorded || o == OutcomeUndone
}

func (o Outcome) String() string {
	switch o {
	case OutcomeRecorded:
		return "recorded"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeUndone:
		return "undone"
	case OutcomeNothingToUndo:
		return "nothing_to_undo"
	}
	return "unknown"
}

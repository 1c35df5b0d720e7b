package board

import "fmt"

// DragSession is the ephemeral record of one in-progress move gesture. It
// exists between gesture-start and gesture-settle and is discarded when
// the attempt resolves.
type DragSession struct {
	ItemID       string
	OriginColumn string
	OriginIndex  int
}

// Outcome reports how a move attempt resolved.
type Outcome int

const (
	// OutcomeNoop: dropped on the origin stage; no stage change evaluated.
	OutcomeNoop Outcome = iota
	// OutcomeIgnored: a duplicate drop for an item that already has a move
	// in flight. No evaluation, no prompt, no gateway call.
	OutcomeIgnored
	// OutcomeDeclined: the user declined the prompt; the card returned to
	// its origin and no persistence call was made.
	OutcomeDeclined
	// OutcomeRolledBack: persistence failed after commit-intent; the card
	// returned to its origin.
	OutcomeRolledBack
	// OutcomeCommitted: the stage change persisted.
	OutcomeCommitted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoop:
		return "noop"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeDeclined:
		return "declined"
	case OutcomeRolledBack:
		return "rolled back"
	case OutcomeCommitted:
		return "committed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

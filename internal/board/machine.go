package board

import (
	"fmt"
	"log"

	"github.com/felixgeelhaar/statekit"
)

// Move attempt states. Each attempt runs its own statechart instance from
// dragging through to one of the final states; the board as a whole is
// "idle" for an item whenever no attempt exists for it.
const (
	stateDragging   statekit.StateID = "dragging"
	stateEvaluating statekit.StateID = "evaluating"
	stateAwaiting   statekit.StateID = "awaiting_confirmation"
	statePersisting statekit.StateID = "persisting"
	stateCommitted  statekit.StateID = "committed"
	stateAborted    statekit.StateID = "aborted_rollback"
	stateDismissed  statekit.StateID = "dismissed"
)

// Attempt events.
const (
	eventDrop    statekit.EventType = "DROP"
	eventNoop    statekit.EventType = "NOOP"
	eventFree    statekit.EventType = "FREE"
	eventConfirm statekit.EventType = "CONFIRM"
	eventAccept  statekit.EventType = "ACCEPT"
	eventDecline statekit.EventType = "DECLINE"
	eventCommit  statekit.EventType = "COMMIT"
	eventFail    statekit.EventType = "FAIL"
	eventCancel  statekit.EventType = "CANCEL"
)

// attemptContext records the event trail of one attempt, mostly for
// debugging and tests.
type attemptContext struct {
	itemID string
	trail  []string
}

// recordEvent appends the triggering event to the attempt trail.
// Statekit actions receive a pointer to the context; ours is a pointer
// already, so the action receives **attemptContext.
func recordEvent(ctx **attemptContext, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	(*ctx).trail = append((*ctx).trail, string(event.Type))
}

// newAttemptMachine builds the statechart for a single move attempt:
//
//	dragging → evaluating → {persisting | awaiting_confirmation} →
//	persisting → committed, with aborted_rollback reachable from
//	awaiting_confirmation (decline) and persisting (failure), and
//	dismissed for no-op drops and cancelled gestures.
func newAttemptMachine(itemID string) (*statekit.MachineConfig[*attemptContext], error) {
	return statekit.NewMachine[*attemptContext]("move-attempt").
		WithInitial(stateDragging).
		WithContext(&attemptContext{itemID: itemID}).
		WithAction("record", recordEvent).
		State(stateDragging).
		OnEntry("record").
		On(eventDrop).Target(stateEvaluating).Do("record").
		On(eventCancel).Target(stateDismissed).Do("record").
		Done().
		State(stateEvaluating).
		On(eventNoop).Target(stateDismissed).Do("record").
		On(eventFree).Target(statePersisting).Do("record").
		On(eventConfirm).Target(stateAwaiting).Do("record").
		Done().
		State(stateAwaiting).
		On(eventAccept).Target(statePersisting).Do("record").
		On(eventDecline).Target(stateAborted).Do("record").
		Done().
		State(statePersisting).
		On(eventCommit).Target(stateCommitted).Do("record").
		On(eventFail).Target(stateAborted).Do("record").
		Done().
		State(stateCommitted).
		Final().
		Done().
		State(stateAborted).
		Final().
		Done().
		State(stateDismissed).
		Final().
		Done().
		Build()
}

// attemptInterp wraps the statekit interpreter for one attempt.
type attemptInterp struct {
	interp *statekit.Interpreter[*attemptContext]
	ctx    *attemptContext
}

func newAttemptInterp(itemID string) (*attemptInterp, error) {
	machine, err := newAttemptMachine(itemID)
	if err != nil {
		return nil, fmt.Errorf("building attempt machine: %w", err)
	}
	actx := &attemptContext{itemID: itemID}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **attemptContext) { *c = actx })
	interp.Start()
	return &attemptInterp{interp: interp, ctx: actx}, nil
}

// send delivers an event to the attempt machine. An event with no
// transition from the current state leaves the machine where it is —
// duplicate or out-of-order gestures must never corrupt an attempt.
func (a *attemptInterp) send(t statekit.EventType) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("board: attempt for %s ignored event %s in state %s",
				a.ctx.itemID, t, a.interp.State().Value)
		}
	}()
	a.interp.Send(statekit.Event{Type: t})
}

func (a *attemptInterp) state() statekit.StateID {
	return a.interp.State().Value
}

func (a *attemptInterp) done() bool {
	return a.interp.Done()
}

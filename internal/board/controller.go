// Package board orchestrates move attempts end-to-end: gesture capture,
// policy evaluation, confirmation, optimistic visual relocation,
// persistence, and rollback. The controller owns no rendering; a thin
// adapter (the TUI, or the CLI move command) translates gestures into
// BeginDrag/Drop calls and provides a CardMover for visual relocation.
package board

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/stagehand-io/stagehand/internal/dialog"
	"github.com/stagehand-io/stagehand/internal/eventbus"
	"github.com/stagehand-io/stagehand/internal/gateway"
	"github.com/stagehand-io/stagehand/internal/item"
	"github.com/stagehand-io/stagehand/internal/policy"
	"github.com/stagehand-io/stagehand/internal/stage"
)

// ErrItemBusy is returned by BeginDrag while the item already has a move
// in flight. Attempts on the same item are strictly serialized; different
// items may move concurrently.
var ErrItemBusy = errors.New("board: item has a move in flight")

// CardMover relocates a card in the visual tree. The visual position moves
// optimistically; the authoritative stage value updates only on confirmed
// persistence.
type CardMover interface {
	PositionInColumn(itemID, column string, index int)
}

// NopMover discards relocation calls. Used by the non-visual CLI path.
type NopMover struct{}

func (NopMover) PositionInColumn(string, string, int) {}

// Controller sequences move attempts. Construct one per board with New
// and share it across gestures; it is safe for concurrent use.
type Controller struct {
	registry *stage.Registry
	gw       gateway.Gateway
	decider  dialog.Decider
	bus      *eventbus.Bus
	mover    CardMover

	mu   sync.Mutex
	busy map[string]bool
}

// New creates a controller. The decider is wrapped so that at most one
// prompt is open system-wide; later prompts queue rather than being
// dropped.
func New(reg *stage.Registry, gw gateway.Gateway, decider dialog.Decider, bus *eventbus.Bus, mover CardMover) *Controller {
	if mover == nil {
		mover = NopMover{}
	}
	return &Controller{
		registry: reg,
		gw:       gw,
		decider:  dialog.NewQueued(decider),
		bus:      bus,
		mover:    mover,
		busy:     map[string]bool{},
	}
}

// Busy reports whether the item has an unresolved move attempt. Busy cards
// are not draggable.
func (c *Controller) Busy(itemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy[itemID]
}

// Attempt is one move gesture from BeginDrag to resolution.
type Attempt struct {
	Session DragSession

	c       *Controller
	machine *attemptInterp

	mu      sync.Mutex
	dropped bool
}

// BeginDrag starts a move attempt, marking the item busy until the attempt
// resolves. Returns ErrItemBusy if a previous attempt for the same item is
// still unresolved.
func (c *Controller) BeginDrag(itemID, originColumn string, originIndex int) (*Attempt, error) {
	c.mu.Lock()
	if c.busy[itemID] {
		c.mu.Unlock()
		return nil, ErrItemBusy
	}
	c.busy[itemID] = true
	c.mu.Unlock()

	machine, err := newAttemptInterp(itemID)
	if err != nil {
		c.release(itemID)
		return nil, err
	}
	return &Attempt{
		Session: DragSession{ItemID: itemID, OriginColumn: originColumn, OriginIndex: originIndex},
		c:       c,
		machine: machine,
	}, nil
}

// Cancel abandons the gesture before any drop. The card never left its
// origin, so there is nothing to roll back.
func (a *Attempt) Cancel() {
	a.mu.Lock()
	if a.dropped {
		a.mu.Unlock()
		return
	}
	a.dropped = true
	a.mu.Unlock()

	a.machine.send(eventCancel)
	a.c.release(a.Session.ItemID)
}

// Drop settles the gesture on a target stage. It evaluates policy, runs
// the confirmation protocol for CONFIRM/WARN verdicts, relocates the card
// optimistically, persists, and rolls back on decline or failure. The
// snapshot is read by the caller at drop time and is authoritative for the
// item's current stage.
//
// Drop blocks while the prompt is open — there is no timeout — and must
// therefore not be called from a rendering loop; run it from a goroutine
// and react to the returned outcome.
func (a *Attempt) Drop(ctx context.Context, snap item.Snapshot, toStage string, toIndex int) (Outcome, error) {
	a.mu.Lock()
	if a.dropped {
		a.mu.Unlock()
		return OutcomeIgnored, nil
	}
	a.dropped = true
	a.mu.Unlock()

	defer a.c.release(a.Session.ItemID)

	c := a.c
	a.machine.send(eventDrop)

	verdict := c.evaluateSafe(snap.Stage, toStage, snap)
	if verdict == nil {
		a.machine.send(eventNoop)
		return OutcomeNoop, nil
	}

	if verdict.Tier == policy.TierFree {
		a.machine.send(eventFree)
	} else {
		a.machine.send(eventConfirm)
		decision, err := c.decider.Present(ctx, verdict)
		if err != nil {
			log.Printf("board: prompt error for %s: %v", snap.ID, err)
		}
		if decision != dialog.Accepted {
			a.machine.send(eventDecline)
			c.rollback(ctx, a.Session, toStage, "declined")
			return OutcomeDeclined, nil
		}
		a.machine.send(eventAccept)
	}

	// Commit intent: move the card optimistically, then persist. The
	// committed stage value is only updated by the caller once the
	// outcome is OutcomeCommitted.
	c.mover.PositionInColumn(snap.ID, toStage, toIndex)

	if err := c.gw.SetStage(ctx, snap.ID, toStage); err != nil {
		a.machine.send(eventFail)
		c.rollback(ctx, a.Session, toStage, fmt.Sprintf("persistence failed: %v", err))
		return OutcomeRolledBack, err
	}

	a.machine.send(eventCommit)
	c.dispatch(ctx, &eventbus.Event{
		Type:   eventbus.EventStageChanged,
		ItemID: snap.ID,
		From:   snap.Stage,
		To:     toStage,
	})
	return OutcomeCommitted, nil
}

// evaluateSafe calls the pure evaluator, converting panics from malformed
// registry or item data into a CONFIRM verdict. The board stays usable
// even with partially broken configuration.
func (c *Controller) evaluateSafe(from, to string, snap item.Snapshot) (v *policy.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("board: evaluator failure for %s -> %s: %v", from, to, r)
			v = &policy.Verdict{
				Tier:      policy.TierConfirm,
				From:      from,
				To:        to,
				FromLabel: c.labelOf(from),
				ToLabel:   c.labelOf(to),
				Title:     "Move item?",
				Message:   "The move could not be fully evaluated. Proceed anyway?",
			}
		}
	}()
	return policy.Evaluate(from, to, snap, c.registry)
}

// labelOf survives a missing registry so the fallback verdict can always
// be built.
func (c *Controller) labelOf(key string) string {
	if c.registry == nil {
		return key
	}
	return c.registry.LabelOf(key)
}

// rollback restores the card to its origin and announces the abort.
func (c *Controller) rollback(ctx context.Context, sess DragSession, toStage, reason string) {
	c.mover.PositionInColumn(sess.ItemID, sess.OriginColumn, sess.OriginIndex)
	c.dispatch(ctx, &eventbus.Event{
		Type:   eventbus.EventStageChangeAborted,
		ItemID: sess.ItemID,
		From:   sess.OriginColumn,
		To:     toStage,
		Reason: reason,
	})
}

func (c *Controller) dispatch(ctx context.Context, ev *eventbus.Event) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Dispatch(ctx, ev); err != nil {
		log.Printf("board: dispatching %s: %v", ev.Type, err)
	}
}

func (c *Controller) release(itemID string) {
	c.mu.Lock()
	delete(c.busy, itemID)
	c.mu.Unlock()
}

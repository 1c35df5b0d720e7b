// Package testutil provides canned collaborators for exercising the
// transition engine without a rendering surface or a real backend.
package testutil

import (
	"context"
	"sync"

	"github.com/stagehand-io/stagehand/internal/dialog"
	"github.com/stagehand-io/stagehand/internal/item"
	"github.com/stagehand-io/stagehand/internal/policy"
)

// ScriptedDecider returns canned decisions in order, recording every
// verdict it is shown. Once the script is exhausted it declines.
type ScriptedDecider struct {
	mu        sync.Mutex
	script    []dialog.Decision
	Presented []*policy.Verdict
}

// Script creates a decider that plays back the given decisions.
func Script(decisions ...dialog.Decision) *ScriptedDecider {
	return &ScriptedDecider{script: decisions}
}

func (d *ScriptedDecider) Present(ctx context.Context, v *policy.Verdict) (dialog.Decision, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Presented = append(d.Presented, v)
	if len(d.script) == 0 {
		return dialog.Declined, nil
	}
	next := d.script[0]
	d.script = d.script[1:]
	return next, nil
}

// MemoryGateway is an in-memory gateway with programmable failure.
type MemoryGateway struct {
	mu    sync.Mutex
	items map[string]*item.Item

	// Fail, when set, makes the next SetStage calls return this error.
	Fail error
	// Calls records every SetStage invocation as itemID + " -> " + stage.
	Calls []string
}

// NewMemoryGateway creates a gateway seeded with the given items.
func NewMemoryGateway(items ...*item.Item) *MemoryGateway {
	g := &MemoryGateway{items: map[string]*item.Item{}}
	for _, it := range items {
		g.items[it.ID] = it
	}
	return g
}

func (g *MemoryGateway) LoadItems(ctx context.Context) ([]*item.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*item.Item, 0, len(g.items))
	for _, it := range g.items {
		out = append(out, it)
	}
	return out, nil
}

func (g *MemoryGateway) SetStage(ctx context.Context, itemID, toStage string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls = append(g.Calls, itemID+" -> "+toStage)
	if g.Fail != nil {
		return g.Fail
	}
	if it, ok := g.items[itemID]; ok {
		it.Stage = toStage
	}
	return nil
}

// StageOf returns the committed stage of an item.
func (g *MemoryGateway) StageOf(itemID string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if it, ok := g.items[itemID]; ok {
		return it.Stage
	}
	return ""
}

// SetStageCalls returns a copy of the recorded SetStage calls.
func (g *MemoryGateway) SetStageCalls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.Calls...)
}

// RecordingMover records every visual relocation.
type RecordingMover struct {
	mu    sync.Mutex
	Moves []Move
}

// Move is one recorded PositionInColumn call.
type Move struct {
	ItemID string
	Column string
	Index  int
}

func (m *RecordingMover) PositionInColumn(itemID, column string, index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Moves = append(m.Moves, Move{ItemID: itemID, Column: column, Index: index})
}

// Last returns the most recent move, or a zero Move.
func (m *RecordingMover) Last() Move {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Moves) == 0 {
		return Move{}
	}
	return m.Moves[len(m.Moves)-1]
}

// All returns a copy of the recorded moves.
func (m *RecordingMover) All() []Move {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Move(nil), m.Moves...)
}

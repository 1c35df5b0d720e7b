package board

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stagehand-io/stagehand/internal/dialog"
	"github.com/stagehand-io/stagehand/internal/policy"
)

// Prompter presents verdicts as an in-board modal. It implements
// dialog.Decider: Present blocks the calling attempt goroutine until the
// user answers the modal in the Update loop.
type Prompter struct {
	requests chan *promptRequest
}

type promptRequest struct {
	verdict *policy.Verdict
	resp    chan dialog.Decision
}

// NewPrompter creates a prompter for one board program.
func NewPrompter() *Prompter {
	return &Prompter{requests: make(chan *promptRequest)}
}

// Present hands the verdict to the board model and waits for the user's
// decision. Context cancellation resolves to Declined.
func (p *Prompter) Present(ctx context.Context, v *policy.Verdict) (dialog.Decision, error) {
	req := &promptRequest{verdict: v, resp: make(chan dialog.Decision, 1)}
	select {
	case p.requests <- req:
	case <-ctx.Done():
		return dialog.Declined, ctx.Err()
	}
	select {
	case d := <-req.resp:
		return d, nil
	case <-ctx.Done():
		return dialog.Declined, ctx.Err()
	}
}

// listen returns a command that delivers the next prompt request to the
// Update loop.
func (p *Prompter) listen() tea.Cmd {
	return func() tea.Msg {
		return promptMsg{req: <-p.requests}
	}
}

// ProgramMover forwards card relocations from the drag controller into the
// bubbletea program as messages, keeping all model mutation on the Update
// loop. Safe to call before Attach; relocations are dropped until a
// program is attached.
type ProgramMover struct {
	mu sync.Mutex
	p  *tea.Program
}

// Attach binds the mover to a running program.
func (m *ProgramMover) Attach(p *tea.Program) {
	m.mu.Lock()
	m.p = p
	m.mu.Unlock()
}

// PositionInColumn implements board.CardMover.
func (m *ProgramMover) PositionInColumn(itemID, column string, index int) {
	m.mu.Lock()
	p := m.p
	m.mu.Unlock()
	if p == nil {
		return
	}
	p.Send(cardPositionMsg{ItemID: itemID, Column: column, Index: index})
}

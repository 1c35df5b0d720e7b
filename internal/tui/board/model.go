// Package board renders the stagehand board as a Bubbletea TUI. It is a
// thin adapter: keyboard gestures become BeginDrag/Drop calls on the drag
// controller, and the controller's visual relocations come back in as
// messages. All policy and state-machine logic lives in internal/board and
// is tested without this package.
package board

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	boardctl "github.com/stagehand-io/stagehand/internal/board"
	"github.com/stagehand-io/stagehand/internal/dialog"
	"github.com/stagehand-io/stagehand/internal/eventbus"
	"github.com/stagehand-io/stagehand/internal/item"
	"github.com/stagehand-io/stagehand/internal/policy"
	"github.com/stagehand-io/stagehand/internal/stage"
	"github.com/stagehand-io/stagehand/internal/ui"
)

const toastLifetime = 4 * time.Second

// column is one stage lane on the board.
type column struct {
	stage stage.Stage
	items []*item.Item
}

// grab tracks the active move gesture: the attempt plus the card's
// current preview position.
type grab struct {
	attempt *boardctl.Attempt
	it      *item.Item
	col     int
	row     int
}

// Model is the Bubbletea model for the board.
type Model struct {
	width, height int

	registry   *stage.Registry
	controller *boardctl.Controller
	prompter   *Prompter

	columns []column
	col     int
	row     int
	grabbed *grab

	prompt *promptRequest

	keys       KeyMap
	help       help.Model
	showHelp   bool
	showDetail bool
	detail     viewport.Model

	toast     string
	toastErr  bool
	toastAt   time.Time
	refreshFn func(context.Context) error
}

// Messages flowing into the Update loop.
type (
	// promptMsg carries a confirmation request from the drag controller.
	promptMsg struct{ req *promptRequest }

	// cardPositionMsg relocates a card (optimistic move or rollback).
	cardPositionMsg struct {
		ItemID string
		Column string
		Index  int
	}

	// moveResultMsg reports how a drop resolved.
	moveResultMsg struct {
		ItemID  string
		ToStage string
		Outcome boardctl.Outcome
		Err     error
	}

	// toastMsg shows a transient notice.
	toastMsg struct {
		Text  string
		IsErr bool
	}

	// toastExpiredMsg clears a stale toast.
	toastExpiredMsg time.Time

	// refreshedMsg reports a registry reload.
	refreshedMsg struct{ err error }
)

// RefreshedMsg tells a running board that the stage registry was reloaded
// outside the Update loop (the stages file watcher uses this).
func RefreshedMsg(err error) tea.Msg {
	return refreshedMsg{err: err}
}

// New creates a board model. The prompter must be the decider wired into
// the controller; refreshFn reloads the stage registry.
func New(reg *stage.Registry, controller *boardctl.Controller, prompter *Prompter, items []*item.Item, refreshFn func(context.Context) error) *Model {
	h := help.New()
	h.ShowAll = false

	m := &Model{
		registry:   reg,
		controller: controller,
		prompter:   prompter,
		keys:       DefaultKeyMap(),
		help:       h,
		detail:     viewport.New(0, 0),
		refreshFn:  refreshFn,
	}
	m.buildColumns(items)
	return m
}

// buildColumns lays items into stage lanes. Items whose stage is not in
// the registry get a synthesized trailing lane so configuration drift
// never hides cards.
func (m *Model) buildColumns(items []*item.Item) {
	stages := m.registry.Stages()
	m.columns = make([]column, 0, len(stages))
	index := map[string]int{}
	for _, s := range stages {
		index[s.Key] = len(m.columns)
		m.columns = append(m.columns, column{stage: s})
	}
	for _, it := range items {
		ci, ok := index[it.Stage]
		if !ok {
			ci = len(m.columns)
			index[it.Stage] = ci
			synth := stage.Synthesize([]string{it.Stage})[0]
			synth.Order = 1000 + ci
			m.columns = append(m.columns, column{stage: synth})
		}
		m.columns[ci].items = append(m.columns[ci].items, it)
	}
}

// Init starts listening for confirmation prompts.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.prompter.listen(), tea.SetWindowTitle("Stagehand"))
}

// Update handles all board messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Width = msg.Width - 4
		m.detail.Height = msg.Height - 6
		return m, nil

	case promptMsg:
		m.prompt = msg.req
		return m, nil

	case cardPositionMsg:
		m.placeCard(msg.ItemID, msg.Column, msg.Index)
		return m, nil

	case moveResultMsg:
		return m, m.handleMoveResult(msg)

	case toastMsg:
		m.toast = msg.Text
		m.toastErr = msg.IsErr
		m.toastAt = time.Now()
		return m, tea.Tick(toastLifetime, func(t time.Time) tea.Msg { return toastExpiredMsg(t) })

	case toastExpiredMsg:
		if time.Since(m.toastAt) >= toastLifetime {
			m.toast = ""
		}
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			return m, m.notify("stage reload failed: "+msg.err.Error(), true)
		}
		m.buildColumns(m.allItems())
		m.clampCursor()
		return m, m.notify("stages reloaded", false)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A prompt owns the keyboard while open. Any dismissal is a decline.
	if m.prompt != nil {
		switch {
		case key.Matches(msg, m.keys.Accept):
			m.resolvePrompt(dialog.Accepted)
		case key.Matches(msg, m.keys.Decline), key.Matches(msg, m.keys.Quit):
			m.resolvePrompt(dialog.Declined)
		default:
			return m, nil
		}
		// Re-arm the listener only once the open prompt is answered;
		// re-arming per keypress would stack readers on the request channel.
		return m, m.prompter.listen()
	}

	if m.showDetail {
		switch {
		case key.Matches(msg, m.keys.Detail), key.Matches(msg, m.keys.Cancel):
			m.showDetail = false
		default:
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.grabbed != nil {
			m.cancelGrab()
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)

	case key.Matches(msg, m.keys.Cancel):
		if m.grabbed != nil {
			m.cancelGrab()
		}

	case key.Matches(msg, m.keys.Grab):
		if m.grabbed != nil {
			return m, m.drop()
		}
		m.grabCard()

	case key.Matches(msg, m.keys.Detail):
		if it := m.selectedItem(); it != nil {
			m.showDetail = true
			m.detail.SetContent(m.renderDetail(it))
			m.detail.GotoTop()
		}

	case key.Matches(msg, m.keys.Refresh):
		if m.refreshFn != nil {
			fn := m.refreshFn
			return m, func() tea.Msg { return refreshedMsg{err: fn(context.Background())} }
		}
	}
	return m, nil
}

// grabCard begins a drag for the card under the cursor. Busy cards are not
// draggable; the refusal is silent apart from a muted toast.
func (m *Model) grabCard() {
	it := m.selectedItem()
	if it == nil {
		return
	}
	attempt, err := m.controller.BeginDrag(it.ID, m.columns[m.col].stage.Key, m.row)
	if err != nil {
		return // a move is already in flight for this item
	}
	m.grabbed = &grab{attempt: attempt, it: it, col: m.col, row: m.row}
}

// moveCursor moves the selection; while a card is grabbed it drags the
// card with it as a visual preview.
func (m *Model) moveCursor(dx, dy int) {
	if m.grabbed != nil && dx != 0 {
		m.dragTo(m.grabbed.col + dx)
		return
	}
	nc := clamp(m.col+dx, 0, len(m.columns)-1)
	if nc != m.col {
		m.col = nc
		m.row = clamp(m.row, 0, max(0, len(m.columns[nc].items)-1))
		return
	}
	if dy != 0 && len(m.columns[m.col].items) > 0 {
		m.row = clamp(m.row+dy, 0, len(m.columns[m.col].items)-1)
	}
}

// dragTo previews the grabbed card in the target column.
func (m *Model) dragTo(toCol int) {
	g := m.grabbed
	toCol = clamp(toCol, 0, len(m.columns)-1)
	if toCol == g.col {
		return
	}
	m.removeCard(g.it.ID)
	m.columns[toCol].items = append(m.columns[toCol].items, g.it)
	g.col = toCol
	g.row = len(m.columns[toCol].items) - 1
	m.col, m.row = g.col, g.row
}

// cancelGrab abandons the gesture and puts the card back.
func (m *Model) cancelGrab() {
	g := m.grabbed
	m.grabbed = nil
	g.attempt.Cancel()
	m.placeCard(g.it.ID, g.attempt.Session.OriginColumn, g.attempt.Session.OriginIndex)
	m.setCursorOn(g.it.ID)
}

// drop settles the gesture. The controller call blocks on confirmation and
// persistence, so it runs as a command; the model reacts to the result
// message.
func (m *Model) drop() tea.Cmd {
	g := m.grabbed
	m.grabbed = nil

	toStage := m.columns[g.col].stage.Key
	toIndex := g.row
	snap := g.it.Snapshot()
	attempt := g.attempt
	return func() tea.Msg {
		outcome, err := attempt.Drop(context.Background(), snap, toStage, toIndex)
		return moveResultMsg{ItemID: snap.ID, ToStage: toStage, Outcome: outcome, Err: err}
	}
}

// handleMoveResult updates the committed stage after a confirmed
// persistence and raises the user-visible notices.
func (m *Model) handleMoveResult(msg moveResultMsg) tea.Cmd {
	switch msg.Outcome {
	case boardctl.OutcomeCommitted:
		if it := m.findItem(msg.ItemID); it != nil {
			it.Stage = msg.ToStage
		}
		return m.notify("moved to "+m.registry.LabelOf(msg.ToStage), false)
	case boardctl.OutcomeRolledBack:
		text := "move failed"
		if msg.Err != nil {
			text = "move failed: " + msg.Err.Error()
		}
		return m.notify(text, true)
	case boardctl.OutcomeDeclined:
		return m.notify("kept in place", false)
	}
	return nil
}

func (m *Model) resolvePrompt(d dialog.Decision) {
	if m.prompt == nil {
		return
	}
	m.prompt.resp <- d
	m.prompt = nil
}

func (m *Model) notify(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return toastMsg{Text: text, IsErr: isErr} }
}

// NotifyHandler returns a bus handler that surfaces engine events as
// toasts via the running program.
func NotifyHandler(reg *stage.Registry, send func(tea.Msg)) *eventbus.HandlerFunc {
	return &eventbus.HandlerFunc{
		Name:  "board-toasts",
		Types: []eventbus.EventType{eventbus.EventStageChangeAborted},
		Pri:   50,
		Fn: func(ctx context.Context, ev *eventbus.Event) error {
			if ev.Reason == "declined" {
				return nil // the move result toast already covers this
			}
			send(toastMsg{
				Text:  ev.ItemID + ": " + ev.Reason + " — returned to " + reg.LabelOf(ev.From),
				IsErr: true,
			})
			return nil
		},
	}
}

// placeCard moves a card to an explicit column/index, creating a
// synthesized lane for unknown stage keys.
func (m *Model) placeCard(itemID, columnKey string, index int) {
	it := m.removeCard(itemID)
	if it == nil {
		return
	}
	ci := -1
	for i := range m.columns {
		if m.columns[i].stage.Key == columnKey {
			ci = i
			break
		}
	}
	if ci == -1 {
		synth := stage.Synthesize([]string{columnKey})[0]
		synth.Order = 1000 + len(m.columns)
		m.columns = append(m.columns, column{stage: synth})
		ci = len(m.columns) - 1
	}
	items := m.columns[ci].items
	index = clamp(index, 0, len(items))
	items = append(items[:index], append([]*item.Item{it}, items[index:]...)...)
	m.columns[ci].items = items
	m.clampCursor()
}

func (m *Model) removeCard(itemID string) *item.Item {
	for ci := range m.columns {
		for ri, it := range m.columns[ci].items {
			if it.ID == itemID {
				m.columns[ci].items = append(m.columns[ci].items[:ri], m.columns[ci].items[ri+1:]...)
				return it
			}
		}
	}
	return nil
}

func (m *Model) findItem(itemID string) *item.Item {
	for ci := range m.columns {
		for _, it := range m.columns[ci].items {
			if it.ID == itemID {
				return it
			}
		}
	}
	return nil
}

func (m *Model) setCursorOn(itemID string) {
	for ci := range m.columns {
		for ri, it := range m.columns[ci].items {
			if it.ID == itemID {
				m.col, m.row = ci, ri
				return
			}
		}
	}
}

func (m *Model) selectedItem() *item.Item {
	if m.col >= len(m.columns) {
		return nil
	}
	items := m.columns[m.col].items
	if m.row >= len(items) {
		return nil
	}
	return items[m.row]
}

func (m *Model) allItems() []*item.Item {
	var out []*item.Item
	for _, c := range m.columns {
		out = append(out, c.items...)
	}
	return out
}

func (m *Model) clampCursor() {
	m.col = clamp(m.col, 0, max(0, len(m.columns)-1))
	if len(m.columns) == 0 {
		m.row = 0
		return
	}
	m.row = clamp(m.row, 0, max(0, len(m.columns[m.col].items)-1))
}

func (m *Model) renderDetail(it *item.Item) string {
	body := "# " + it.Title + "\n\n" + it.Description
	return ui.RenderMarkdownWidth(body, max(40, m.width-8))
}

// verdictForPrompt exposes the open prompt's verdict to the view.
func (m *Model) verdictForPrompt() *policy.Verdict {
	if m.prompt == nil {
		return nil
	}
	return m.prompt.verdict
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package board

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boardctl "github.com/stagehand-io/stagehand/internal/board"
	"github.com/stagehand-io/stagehand/internal/dialog"
	"github.com/stagehand-io/stagehand/internal/eventbus"
	"github.com/stagehand-io/stagehand/internal/policy"
	"github.com/stagehand-io/stagehand/internal/item"
	"github.com/stagehand-io/stagehand/internal/stage"
	"github.com/stagehand-io/stagehand/internal/testutil"
)

func testModel(t *testing.T, items ...*item.Item) (*Model, *testutil.MemoryGateway) {
	t.Helper()
	reg := stage.NewRegistry(stage.DefaultSource())
	require.NoError(t, reg.Load(context.Background()))

	gw := testutil.NewMemoryGateway(items...)
	prompter := NewPrompter()
	controller := boardctl.New(reg, gw, prompter, eventbus.New(), boardctl.NopMover{})
	return New(reg, controller, prompter, items, nil), gw
}

func boardItem(id, stageKey string) *item.Item {
	it := &item.Item{ID: id, Title: "Item " + id, Stage: stageKey, Priority: 2}
	it.SetDefaults()
	return it
}

func TestBuildColumnsLaysItemsIntoLanes(t *testing.T) {
	m, _ := testModel(t,
		boardItem("a", "intake"),
		boardItem("b", "intake"),
		boardItem("c", "review"),
	)

	require.Len(t, m.columns, 5) // the default five stages
	assert.Len(t, m.columns[0].items, 2)
	assert.Len(t, m.columns[1].items, 1)
	assert.Empty(t, m.columns[2].items)
}

func TestBuildColumnsSynthesizesLaneForUnknownStage(t *testing.T) {
	m, _ := testModel(t, boardItem("a", "mystery"))

	require.Len(t, m.columns, 6)
	last := m.columns[len(m.columns)-1]
	assert.Equal(t, "mystery", last.stage.Key)
	assert.Equal(t, "mystery", last.stage.Label)
	assert.Len(t, last.items, 1)
}

func TestCursorMovement(t *testing.T) {
	m, _ := testModel(t,
		boardItem("a", "intake"),
		boardItem("b", "intake"),
		boardItem("c", "review"),
	)

	assert.Equal(t, 0, m.col)
	m.moveCursor(0, 1)
	assert.Equal(t, 1, m.row)
	m.moveCursor(0, 1) // clamped at the bottom
	assert.Equal(t, 1, m.row)

	m.moveCursor(1, 0)
	assert.Equal(t, 1, m.col)
	assert.Equal(t, 0, m.row) // clamped to the shorter column

	m.moveCursor(-1, 0)
	m.moveCursor(-1, 0) // clamped at the left edge
	assert.Equal(t, 0, m.col)
}

func TestGrabAndDragPreview(t *testing.T) {
	m, _ := testModel(t, boardItem("a", "intake"), boardItem("c", "review"))

	m.grabCard()
	require.NotNil(t, m.grabbed)
	assert.Equal(t, "a", m.grabbed.it.ID)
	assert.True(t, m.controller.Busy("a"), "grabbed card must be busy")

	m.dragTo(1)
	assert.Empty(t, m.columns[0].items)
	assert.Len(t, m.columns[1].items, 2)
	assert.Equal(t, 1, m.grabbed.col)
}

func TestCancelGrabRestoresCard(t *testing.T) {
	m, _ := testModel(t, boardItem("a", "intake"), boardItem("c", "review"))

	m.grabCard()
	m.dragTo(1)
	m.cancelGrab()

	assert.Nil(t, m.grabbed)
	assert.False(t, m.controller.Busy("a"))
	require.Len(t, m.columns[0].items, 1)
	assert.Equal(t, "a", m.columns[0].items[0].ID)
}

func TestGrabBusyCardIsRefused(t *testing.T) {
	m, _ := testModel(t, boardItem("a", "intake"))

	// First gesture holds the busy flag.
	m.grabCard()
	first := m.grabbed
	require.NotNil(t, first)

	m.grabbed = nil
	m.grabCard()
	assert.Nil(t, m.grabbed, "a busy card must not be grabbable again")

	first.attempt.Cancel()
}

func TestDropFreeMoveCommits(t *testing.T) {
	it := boardItem("a", "intake")
	d := time.Now().Add(24 * time.Hour)
	it.Deadline = &d
	m, gw := testModel(t, it)

	m.grabCard()
	m.dragTo(1) // review
	cmd := m.drop()
	require.NotNil(t, cmd)

	msg := cmd()
	result, ok := msg.(moveResultMsg)
	require.True(t, ok)
	assert.Equal(t, boardctl.OutcomeCommitted, result.Outcome)
	assert.Equal(t, "review", result.ToStage)
	assert.Equal(t, "review", gw.StageOf("a"))

	// The model applies the committed stage when the result arrives.
	_, _ = m.Update(result)
	assert.Equal(t, "review", it.Stage)
}

func TestPlaceCardInsertsAtIndex(t *testing.T) {
	m, _ := testModel(t,
		boardItem("a", "intake"),
		boardItem("b", "intake"),
		boardItem("c", "review"),
	)

	m.placeCard("c", "intake", 1)
	require.Len(t, m.columns[0].items, 3)
	assert.Equal(t, "b", m.columns[0].items[2].ID)
	assert.Equal(t, "c", m.columns[0].items[1].ID)
	assert.Empty(t, m.columns[1].items)
}

func TestPromptKeysResolveDecision(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want dialog.Decision
	}{
		{"accept with y", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}, dialog.Accepted},
		{"decline with n", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, dialog.Declined},
		{"dismiss with esc", tea.KeyMsg{Type: tea.KeyEsc}, dialog.Declined},
		{"quit key declines", tea.KeyMsg{Type: tea.KeyCtrlC}, dialog.Declined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := testModel(t, boardItem("a", "review"))

			resp := make(chan dialog.Decision, 1)
			req := &promptRequest{
				verdict: &policy.Verdict{Tier: policy.TierConfirm, Title: "Move backward?"},
				resp:    resp,
			}
			_, _ = m.Update(promptMsg{req: req})
			require.NotNil(t, m.prompt)

			_, _ = m.Update(tt.key)
			assert.Nil(t, m.prompt)
			select {
			case got := <-resp:
				assert.Equal(t, tt.want, got)
			default:
				t.Fatal("no decision delivered")
			}
		})
	}
}

func TestPromptIgnoresUnrelatedKeys(t *testing.T) {
	m, _ := testModel(t, boardItem("a", "review"))

	resp := make(chan dialog.Decision, 1)
	_, _ = m.Update(promptMsg{req: &promptRequest{
		verdict: &policy.Verdict{Tier: policy.TierWarn, Title: "Move anyway?"},
		resp:    resp,
	}})

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	require.NotNil(t, m.prompt, "an unrelated key must leave the prompt open")
	assert.Empty(t, resp)
}

func TestUnknownStageDropViaPlaceCard(t *testing.T) {
	m, _ := testModel(t, boardItem("a", "intake"))

	m.placeCard("a", "mystery", 0)
	last := m.columns[len(m.columns)-1]
	assert.Equal(t, "mystery", last.stage.Key)
	require.Len(t, last.items, 1)
	assert.Equal(t, "a", last.items[0].ID)
}

package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	boardctl "github.com/stagehand-io/stagehand/internal/board"
	"github.com/stagehand-io/stagehand/internal/eventbus"
	"github.com/stagehand-io/stagehand/internal/item"
	"github.com/stagehand-io/stagehand/internal/stage"
	tuiboard "github.com/stagehand-io/stagehand/internal/tui/board"
	"github.com/stagehand-io/stagehand/internal/ui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive board",
	Long: `Open the board in the terminal. Move the cursor with arrow keys, grab a
card with space or enter, drag it left/right between stages, and drop it
with space. Moves that need confirmation open an inline prompt.

While the board is open, edits to the stages file are picked up
automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsInteractive() {
			return fmt.Errorf("the board needs an interactive terminal (try 'stagehand list')")
		}

		// Items and stage vocabulary load in parallel; the http gateway in
		// particular can be slow.
		var items []*item.Item
		g, gctx := errgroup.WithContext(rootCtx)
		g.Go(func() error {
			var err error
			items, err = gw.LoadItems(gctx)
			return err
		})
		g.Go(func() error { return loadRegistry(gctx, nil) })
		if err := g.Wait(); err != nil {
			return err
		}
		if reg.Degraded() {
			// Re-synthesize lanes from the stages the items actually use so
			// nothing renders into a void.
			_ = loadRegistry(rootCtx, stageKeys(items))
		}

		registerAuditHandler()
		prompter := tuiboard.NewPrompter()
		mover := &tuiboard.ProgramMover{}
		controller := boardctl.New(reg, gw, prompter, bus, mover)

		refresh := func(ctx context.Context) error { return reg.Refresh(ctx) }
		model := tuiboard.New(reg, controller, prompter, items, refresh)

		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(rootCtx))
		mover.Attach(p)
		bus.Register(tuiboard.NotifyHandler(reg, p.Send))

		stopWatch := watchStages(p)
		defer stopWatch()

		_, err := p.Run()
		return err
	},
}

// watchStages reloads the registry when the stages file changes on disk and
// tells the running board to rebuild its lanes. Returns a stop function.
// Watching is best-effort: a missing file or watcher error just means no
// live reload.
func watchStages(p *tea.Program) func() {
	ws, err := stage.NewWatchSource(cfg.StagesFile)
	if err != nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ws.Changes():
				err := reg.Refresh(rootCtx)
				if err == nil {
					_ = bus.Dispatch(rootCtx, &eventbus.Event{Type: eventbus.EventRegistryRefreshed})
				}
				p.Send(tuiboard.RefreshedMsg(err))
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		ws.Close()
	}
}

func stageKeys(items []*item.Item) []string {
	seen := map[string]bool{}
	var keys []string
	for _, it := range items {
		if !seen[it.Stage] {
			seen[it.Stage] = true
			keys = append(keys, it.Stage)
		}
	}
	return keys
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

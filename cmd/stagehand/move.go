package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	boardctl "github.com/stagehand-io/stagehand/internal/board"
	"github.com/stagehand-io/stagehand/internal/dialog"
	"github.com/stagehand-io/stagehand/internal/policy"
	"github.com/stagehand-io/stagehand/internal/ui"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <stage>",
	Short: "Move an item to another stage",
	Long: `Move an item to another stage through the same policy the board applies:
routine forward moves commit immediately, anything else asks first.

With --yes, confirmation prompts are auto-accepted. Without a terminal,
moves that would prompt are declined instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		it, err := findItem(args[0])
		if err != nil {
			return err
		}
		target := args[1]
		if err := loadRegistry(rootCtx, []string{it.Stage, target}); err != nil {
			return err
		}

		registerAuditHandler()
		controller := boardctl.New(reg, gw, moveDecider(yes), bus, boardctl.NopMover{})
		attempt, err := controller.BeginDrag(it.ID, it.Stage, 0)
		if err != nil {
			return err
		}
		outcome, err := attempt.Drop(rootCtx, it.Snapshot(), target, 0)
		if err != nil {
			return err
		}

		switch outcome {
		case boardctl.OutcomeNoop:
			fmt.Println(ui.Muted("%s is already in %s", it.ID, reg.LabelOf(target)))
		case boardctl.OutcomeDeclined:
			fmt.Println(ui.Warn("Kept %s in %s", it.ID, reg.LabelOf(it.Stage)))
			if !yes && !ui.IsInteractive() {
				return fmt.Errorf("move needs confirmation; rerun with --yes")
			}
		case boardctl.OutcomeCommitted:
			fmt.Println(ui.Success("Moved %s: %s → %s", it.ID, reg.LabelOf(it.Stage), reg.LabelOf(target)))
		default:
			fmt.Println(ui.Fail("Move did not complete (%s)", outcome))
		}
		return nil
	},
}

// moveDecider picks how confirmation prompts are answered: auto-accept
// with --yes, an interactive form on a terminal, otherwise decline.
func moveDecider(yes bool) dialog.Decider {
	if yes {
		return dialog.DeciderFunc(func(ctx context.Context, v *policy.Verdict) (dialog.Decision, error) {
			fmt.Println(ui.Warn("%s", v.Message))
			for _, w := range v.Warnings {
				fmt.Println(ui.Warn("  • %s", w))
			}
			return dialog.Accepted, nil
		})
	}
	if !ui.IsInteractive() {
		return dialog.DeciderFunc(func(ctx context.Context, v *policy.Verdict) (dialog.Decision, error) {
			return dialog.Declined, nil
		})
	}
	return &dialog.Huh{}
}

func init() {
	moveCmd.Flags().BoolP("yes", "y", false, "Auto-accept confirmation prompts")
	rootCmd.AddCommand(moveCmd)
}

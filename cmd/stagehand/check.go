package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stagehand-io/stagehand/internal/item"
	"github.com/stagehand-io/stagehand/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check <id> [field=bool...]",
	Short: "Mark an item's checklist complete, or set custom readiness fields",
	Long: `With no extra arguments, marks the item's checklist complete. With
field=bool arguments, sets the named custom fields instead:

  stagehand check sh-a3f9c2
  stagehand check sh-a3f9c2 security-review=true
  stagehand check sh-a3f9c2 --undo`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fg, err := fileGateway()
		if err != nil {
			return err
		}
		undo, _ := cmd.Flags().GetBool("undo")

		it, err := findItem(args[0])
		if err != nil {
			return err
		}

		if len(args) == 1 {
			err := fg.UpdateItem(rootCtx, it.ID, func(it *item.Item) { it.ChecklistDone = !undo })
			if err != nil {
				return err
			}
			if undo {
				fmt.Println(ui.Success("Reopened checklist on %s", it.ID))
			} else {
				fmt.Println(ui.Success("Checklist complete on %s", it.ID))
			}
			return nil
		}

		fields := map[string]bool{}
		for _, arg := range args[1:] {
			name, raw, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("expected field=bool, got %q", arg)
			}
			val, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			fields[name] = val
		}
		err = fg.UpdateItem(rootCtx, it.ID, func(it *item.Item) {
			if it.Fields == nil {
				it.Fields = map[string]bool{}
			}
			for name, val := range fields {
				it.Fields[name] = val
			}
		})
		if err != nil {
			return err
		}
		fmt.Println(ui.Success("Updated %d field(s) on %s", len(fields), it.ID))
		return nil
	},
}

func init() {
	checkCmd.Flags().Bool("undo", false, "Mark the checklist incomplete instead")
	rootCmd.AddCommand(checkCmd)
}

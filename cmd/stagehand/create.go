package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stagehand-io/stagehand/internal/item"
	"github.com/stagehand-io/stagehand/internal/ui"
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new item in the intake stage",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fg, err := fileGateway()
		if err != nil {
			return err
		}

		description, _ := cmd.Flags().GetString("description")
		priority, _ := cmd.Flags().GetInt("priority")
		assignee, _ := cmd.Flags().GetString("assignee")
		labels, _ := cmd.Flags().GetStringSlice("label")
		deadlineSpec, _ := cmd.Flags().GetString("deadline")

		it := &item.Item{
			ID:          newItemID(),
			Title:       strings.Join(args, " "),
			Description: description,
			Priority:    priority,
			Assignee:    assignee,
			Labels:      labels,
		}
		it.SetDefaults()

		if deadlineSpec != "" {
			due, err := parseDeadline(deadlineSpec)
			if err != nil {
				return err
			}
			it.Deadline = &due
		}

		if err := fg.SaveItem(rootCtx, it); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(it)
		}
		fmt.Println(ui.Success("Created %s: %s", it.ID, it.Title))
		return nil
	},
}

// newItemID returns a short random id like sh-a3f9c2. Six hex chars is
// plenty for a single board file.
func newItemID() string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return "sh-" + hex.EncodeToString(b)
}

func init() {
	createCmd.Flags().StringP("description", "d", "", "Longer markdown description")
	createCmd.Flags().IntP("priority", "p", 2, "Priority 0 (highest) to 4")
	createCmd.Flags().StringP("assignee", "a", "", "Assignee")
	createCmd.Flags().StringSliceP("label", "l", nil, "Label (repeatable)")
	createCmd.Flags().String("deadline", "", "Deadline, absolute (2026-03-01) or natural language (\"next friday\")")
	rootCmd.AddCommand(createCmd)
}

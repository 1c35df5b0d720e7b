package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stagehand-io/stagehand/internal/gateway"
	"github.com/stagehand-io/stagehand/internal/item"
	"github.com/stagehand-io/stagehand/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one item in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		it, err := findItem(args[0])
		if err != nil {
			return err
		}
		if err := loadRegistry(rootCtx, []string{it.Stage}); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(it)
		}
		fmt.Print(ui.RenderMarkdown(itemMarkdown(it)))
		return nil
	},
}

// findItem loads the item with the given id, accepting an unambiguous
// prefix.
func findItem(id string) (*item.Item, error) {
	items, err := gw.LoadItems(rootCtx)
	if err != nil {
		return nil, err
	}
	var match *item.Item
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
		if strings.HasPrefix(it.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("id %q is ambiguous (%s, %s, ...)", id, match.ID, it.ID)
			}
			match = it
		}
	}
	if match == nil {
		return nil, fmt.Errorf("finding %s: %w", id, gateway.ErrNotFound)
	}
	return match, nil
}

func itemMarkdown(it *item.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s\n\n", it.ID, it.Title)
	fmt.Fprintf(&b, "**Stage:** %s · **Priority:** P%d", reg.LabelOf(it.Stage), it.Priority)
	if it.Assignee != "" {
		fmt.Fprintf(&b, " · **Assignee:** %s", it.Assignee)
	}
	if it.Deadline != nil {
		fmt.Fprintf(&b, " · **Due:** %s", it.Deadline.Format("Mon, Jan 2 2006"))
	}
	if it.ChecklistDone {
		b.WriteString(" · checklist ✓")
	}
	b.WriteString("\n")
	if len(it.Labels) > 0 {
		fmt.Fprintf(&b, "\nLabels: %s\n", strings.Join(it.Labels, ", "))
	}
	if it.Description != "" {
		b.WriteString("\n---\n\n")
		b.WriteString(it.Description)
		b.WriteString("\n")
	}
	return b.String()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(showCmd)
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stagehand-io/stagehand/internal/item"
	"github.com/stagehand-io/stagehand/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List items, grouped by stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		stageFilter, _ := cmd.Flags().GetString("stage")
		assignee, _ := cmd.Flags().GetString("assignee")

		items, err := gw.LoadItems(rootCtx)
		if err != nil {
			return err
		}
		if err := loadRegistry(rootCtx, stageKeys(items)); err != nil {
			return err
		}

		filtered := items[:0]
		for _, it := range items {
			if stageFilter != "" && it.Stage != stageFilter {
				continue
			}
			if assignee != "" && it.Assignee != assignee {
				continue
			}
			filtered = append(filtered, it)
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(filtered)
		}
		printGrouped(filtered)
		return nil
	},
}

// printGrouped writes items lane by lane in stage order, unknown stages
// last.
func printGrouped(items []*item.Item) {
	byStage := map[string][]*item.Item{}
	for _, it := range items {
		byStage[it.Stage] = append(byStage[it.Stage], it)
	}

	var keys []string
	for _, s := range reg.Stages() {
		keys = append(keys, s.Key)
	}
	var unknown []string
	for k := range byStage {
		if _, ok := reg.Get(k); !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	keys = append(keys, unknown...)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, key := range keys {
		group := byStage[key]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\t(%d)\n", ui.Success("%s", reg.LabelOf(key)), len(group))
		for _, it := range group {
			deadline := "-"
			if it.Deadline != nil {
				deadline = it.Deadline.Format("2006-01-02")
			}
			fmt.Fprintf(w, "  %s\tP%d\t%s\t%s\n", it.ID, it.Priority, deadline, it.Title)
		}
	}
	w.Flush()
}

func init() {
	listCmd.Flags().String("stage", "", "Only items in this stage")
	listCmd.Flags().String("assignee", "", "Only items assigned to this person")
	rootCmd.AddCommand(listCmd)
}

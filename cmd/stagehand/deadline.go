package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/stagehand-io/stagehand/internal/item"
	"github.com/stagehand-io/stagehand/internal/ui"
)

var deadlineCmd = &cobra.Command{
	Use:   "deadline <id> [when...]",
	Short: "Set or clear an item's deadline",
	Long: `Set an item's deadline. Accepts an absolute date (2026-03-01) or natural
language ("tomorrow", "next friday", "in 2 weeks").

Stages can require a deadline before an item moves into them; setting one
is how you clear that warning.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fg, err := fileGateway()
		if err != nil {
			return err
		}
		clear, _ := cmd.Flags().GetBool("clear")

		it, err := findItem(args[0])
		if err != nil {
			return err
		}

		if clear {
			err := fg.UpdateItem(rootCtx, it.ID, func(it *item.Item) { it.Deadline = nil })
			if err != nil {
				return err
			}
			fmt.Println(ui.Success("Cleared deadline on %s", it.ID))
			return nil
		}

		if len(args) < 2 {
			if it.Deadline == nil {
				fmt.Println(ui.Muted("%s has no deadline", it.ID))
			} else {
				fmt.Printf("%s is due %s\n", it.ID, it.Deadline.Format("Mon, Jan 2 2006"))
			}
			return nil
		}

		due, err := parseDeadline(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if err := fg.UpdateItem(rootCtx, it.ID, func(it *item.Item) { it.Deadline = &due }); err != nil {
			return err
		}
		fmt.Println(ui.Success("Set deadline on %s: %s", it.ID, due.Format("Mon, Jan 2 2006")))
		return nil
	},
}

// parseDeadline accepts 2006-01-02 dates and natural language.
func parseDeadline(spec string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", spec, time.Local); err == nil {
		return t, nil
	}
	p := when.New(nil)
	p.Add(en.All...)
	p.Add(common.All...)
	r, err := p.Parse(spec, time.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing deadline %q: %w", spec, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not understand deadline %q (try 2006-01-02 or \"next friday\")", spec)
	}
	return r.Time, nil
}

func init() {
	deadlineCmd.Flags().Bool("clear", false, "Remove the deadline")
	rootCmd.AddCommand(deadlineCmd)
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stagehand-io/stagehand/internal/stage"
	"github.com/stagehand-io/stagehand/internal/ui"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "Show the stage vocabulary",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadRegistry(rootCtx, nil); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(reg.Stages())
		}
		if reg.Degraded() {
			fmt.Println(ui.Warn("stage config unreachable; showing a degraded vocabulary"))
		}
		for _, s := range reg.Stages() {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render("■")
			var notes []string
			if len(s.Requires) > 0 {
				notes = append(notes, "requires "+strings.Join(s.Requires, ", "))
			}
			if s.Terminal {
				notes = append(notes, "terminal")
			}
			if len(s.Statuses) > 0 {
				notes = append(notes, "statuses: "+strings.Join(s.Statuses, ", "))
			}
			line := fmt.Sprintf("%s %d. %-12s %s", swatch, s.Order, s.Label, ui.Muted("(%s)", s.Key))
			if len(notes) > 0 {
				line += "  " + ui.Muted("%s", strings.Join(notes, "; "))
			}
			fmt.Println(line)
		}
		return nil
	},
}

var stagesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default stage vocabulary to the project stages file",
	Long: `Write the built-in lifecycle to the stages file so it can be customized.
Refuses to overwrite an existing file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.StagesFile
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		out, err := yaml.Marshal(struct {
			Stages []stage.Stage `yaml:"stages"`
		}{Stages: stage.DefaultStages()})
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return err
		}
		fmt.Println(ui.Success("Wrote %s", path))
		return nil
	},
}

func init() {
	stagesCmd.AddCommand(stagesInitCmd)
	rootCmd.AddCommand(stagesCmd)
}

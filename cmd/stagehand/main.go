package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stagehand-io/stagehand/internal/config"
	"github.com/stagehand-io/stagehand/internal/eventbus"
	"github.com/stagehand-io/stagehand/internal/gateway"
	"github.com/stagehand-io/stagehand/internal/stage"
	"github.com/stagehand-io/stagehand/internal/ui"
)

// Version and Build are stamped by the release pipeline via -ldflags.
var (
	Version = "dev"
	Build   = "unknown"
)

var (
	workDir    string
	actorFlag  string
	jsonOutput bool
	noColor    bool

	cfg *config.Config
	gw  gateway.Gateway
	reg *stage.Registry
	bus *eventbus.Bus

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

func init() {
	rootCmd.PersistentFlags().StringVar(&workDir, "dir", ".", "Project directory (contains .stagehand/)")
	rootCmd.PersistentFlags().StringVar(&actorFlag, "actor", "", "Actor name for event attribution (default: config, then $USER)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
}

var rootCmd = &cobra.Command{
	Use:   "stagehand",
	Short: "stagehand - Kanban board with staged transition policies",
	Long: `A kanban-style board where moving a card between stages is governed by
transition policy: routine forward moves commit silently, while backward,
skipping, or premature moves ask for confirmation first.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("stagehand version %s (%s)\n", Version, Build)
			return nil
		}
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

		if noColor {
			os.Setenv("NO_COLOR", "1")
		}
		ui.ConfigureColor()

		v := viper.New()
		if actorFlag != "" {
			v.Set("actor", actorFlag)
		}
		var err error
		cfg, err = config.Load(v, workDir)
		if err != nil {
			return err
		}

		gw = openGateway(cfg)
		reg = stage.NewRegistry(stageSource(cfg))
		bus = eventbus.New()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rootCancel != nil {
			rootCancel()
		}
	},
}

// openGateway builds the persistence gateway selected by config. Kind is
// validated by config.Load.
func openGateway(cfg *config.Config) gateway.Gateway {
	if cfg.Gateway.Kind == "http" {
		return gateway.NewHTTPGateway(cfg.Gateway.Endpoint)
	}
	return gateway.NewFileGateway(cfg.Gateway.Path)
}

// fileGateway returns the file-backed gateway, or an error for commands
// that create or edit items, which the http gateway does not support.
func fileGateway() (*gateway.FileGateway, error) {
	fg, ok := gw.(*gateway.FileGateway)
	if !ok {
		return nil, fmt.Errorf("this command edits items directly and needs gateway.kind=file (got %q)", cfg.Gateway.Kind)
	}
	return fg, nil
}

// stageSource prefers a project stages.yaml and falls back to the built-in
// lifecycle when none exists.
func stageSource(cfg *config.Config) stage.ConfigSource {
	if _, err := os.Stat(cfg.StagesFile); err == nil {
		return &stage.FileSource{Path: cfg.StagesFile}
	}
	return stage.DefaultSource()
}

// loadRegistry loads stages, falling back to lanes synthesized from the
// stage keys the items actually use when the source is unreachable.
func loadRegistry(ctx context.Context, fallbackKeys []string) error {
	return reg.Load(ctx, fallbackKeys...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Fail("Error: %v", err))
		os.Exit(1)
	}
}

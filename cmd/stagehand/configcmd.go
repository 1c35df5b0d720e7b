package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/stagehand-io/stagehand/internal/config"
	"github.com/stagehand-io/stagehand/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change stagehand configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return printJSON(cfg)
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		var tree map[string]any
		if err := yaml.Unmarshal(out, &tree); err != nil {
			return err
		}
		var node any = tree
		for _, part := range strings.Split(args[0], ".") {
			m, ok := node.(map[string]any)
			if !ok {
				return fmt.Errorf("unknown config key %q", args[0])
			}
			if node, ok = m[part]; !ok {
				return fmt.Errorf("unknown config key %q", args[0])
			}
		}
		fmt.Println(node)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Long: `Set a key in .stagehand/config.yaml, e.g.:

  stagehand config set gateway.kind http
  stagehand config set gateway.endpoint http://boards.internal:8080`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(workDir, config.Dir, "config.yaml")

		v := viper.New()
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		v.Set(args[0], args[1])

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := v.WriteConfigAs(path); err != nil {
			return err
		}
		fmt.Println(ui.Success("Set %s = %s", args[0], args[1]))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

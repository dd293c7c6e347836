package cmd

import (
	"fmt"
	"strings"

	cfgpkg "github.com/KaramelBytes/tabloom-cli/internal/config"
	"github.com/KaramelBytes/tabloom-cli/internal/remote"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change ~/.tabloom/config.yaml",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig().Masked()
		b, err := yaml.Marshal(&c)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, string(b))
		if dir, err := storeDir(); err == nil {
			fmt.Fprintf(out, "# active store: %s\n", dir)
		} else {
			fmt.Fprintf(out, "# active store unresolved: %v\n", err)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c := currentConfig()
		if key == "default_model_type" {
			val = strings.ToLower(val)
			if val != remote.ModelARIMA && val != remote.ModelLinearRegression {
				return fmt.Errorf("invalid default_model_type: %s (use %s or %s)", args[1], remote.ModelARIMA, remote.ModelLinearRegression)
			}
		}
		if err := c.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/tabloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a workspace-local store (.tabloom) in dir (default: current directory)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolve dir: %w", err)
		}
		storePath := filepath.Join(abs, utils.LocalStoreDir)
		// Refuse to reinitialize an existing store.
		if info, err := os.Stat(storePath); err == nil {
			if info.IsDir() {
				return fmt.Errorf("store already exists at %s", storePath)
			}
			return fmt.Errorf("%s exists and is not a directory", storePath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat store directory: %w", err)
		}
		if err := utils.EnsureDir(storePath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Store initialized: %s\n", storePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

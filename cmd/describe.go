package cmd

import (
	"fmt"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	colsJSON     bool
	describeJSON bool
)

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "List columns of the current table with their derived types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := currentTable()
		if err != nil {
			return err
		}
		info := analysis.Classify(t)
		if colsJSON {
			return printJSON(cmd.OutOrStdout(), info)
		}
		out := cmd.OutOrStdout()
		if t.Name != "" {
			fmt.Fprintf(out, "File: %s\nRows: %d\n\n", t.Name, t.Len())
		}
		fmt.Fprint(out, analysis.ColumnsMarkdown(info))
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Descriptive statistics for every numeric column",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := currentTable()
		if err != nil {
			return err
		}
		d := analysis.Describe(t)
		if describeJSON {
			return printJSON(cmd.OutOrStdout(), d)
		}
		if len(d.Columns) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "⚠ No numeric columns in the current table")
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), d.Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(describeCmd)
	columnsCmd.Flags().BoolVar(&colsJSON, "json", false, "print JSON")
	describeCmd.Flags().BoolVar(&describeJSON, "json", false, "print JSON")
}

package cmd

import (
	"fmt"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	corrColumns []string
	corrOrder   string
	corrFilter  string
	corrJSON    bool
)

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Pearson correlation matrix over numeric columns",
	Long:  "Computes pairwise Pearson correlations using only rows where every selected column is numeric. Without --columns, every numeric column is used.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := analysis.ParseOrder(corrOrder)
		if err != nil {
			return err
		}
		f, err := analysis.ParseFilter(corrFilter)
		if err != nil {
			return err
		}
		t, err := currentTable()
		if err != nil {
			return err
		}
		cols := corrColumns
		if len(cols) == 0 {
			cols = t.NumericColumns()
		}
		work, err := f.Apply(t)
		if err != nil {
			return err
		}
		m, err := analysis.Correlate(work, cols, order)
		if err != nil {
			return err
		}
		if corrJSON {
			return printJSON(cmd.OutOrStdout(), m)
		}
		out := cmd.OutOrStdout()
		if m.Rows < 2 {
			fmt.Fprintf(out, "⚠ Only %d complete numeric row(s); coefficients are 0\n", m.Rows)
		}
		fmt.Fprint(out, m.Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(correlateCmd)
	correlateCmd.Flags().StringSliceVar(&corrColumns, "columns", nil, "comma-separated columns (default: all numeric)")
	correlateCmd.Flags().StringVar(&corrOrder, "order", "alphabetical", "alphabetical|absolute")
	correlateCmd.Flags().StringVar(&corrFilter, "filter", "", "equality filter column=value")
	correlateCmd.Flags().BoolVar(&corrJSON, "json", false, "print JSON")
}

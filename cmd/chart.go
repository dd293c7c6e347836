package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
	"github.com/KaramelBytes/tabloom-cli/internal/store"
	"github.com/spf13/cobra"
)

var (
	chName    string
	chType    string
	chGroupBy string
	chValue   string
	chOp      string
	chFilter  string
	chJSON    bool
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Save, list, show and delete chart configurations",
}

var chartSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save an aggregation as a named chart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireFlags("name", chName, "group-by", chGroupBy, "value", chValue); err != nil {
			return err
		}
		ct, err := store.ParseChartType(chType)
		if err != nil {
			return err
		}
		op, err := analysis.ParseOperator(chOp)
		if err != nil {
			return err
		}
		f, err := analysis.ParseFilter(chFilter)
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		// Validate against the current table when one is loaded.
		if t, err := st.Load(); err == nil && t != nil {
			if _, err := runAggregation(t, chGroupBy, chValue, op, f); err != nil {
				return err
			}
		}
		c := &store.ChartConfig{Name: chName, Type: ct, GroupBy: chGroupBy, Value: chValue, Operator: op, Filter: f}
		if err := st.SaveChart(c); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved chart %q (%s)\n", c.Name, c.ID)
		return nil
	},
}

var chartListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved charts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		charts, err := st.Charts()
		if err != nil {
			return err
		}
		if chJSON {
			return printJSON(cmd.OutOrStdout(), charts)
		}
		if len(charts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved charts")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tTYPE\tAGGREGATION\tFILTER")
		for _, c := range charts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s(%s) by %s\t%s\n", shortID(c.ID), c.Name, c.Type, c.Operator, c.Value, c.GroupBy, c.Filter)
		}
		return tw.Flush()
	},
}

var chartShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Re-run a saved chart on the current table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		c, err := st.Chart(args[0])
		if err != nil {
			return err
		}
		t, err := currentTable()
		if err != nil {
			return err
		}
		res, err := runAggregation(t, c.GroupBy, c.Value, c.Operator, c.Filter)
		if err != nil {
			return err
		}
		if chJSON {
			return printJSON(cmd.OutOrStdout(), struct {
				Chart  *store.ChartConfig `json:"chart"`
				Result *analysis.Result   `json:"result"`
			}{c, res})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s chart)\n", c.Name, c.Type)
		printAggregation(cmd, res, c.Filter)
		return nil
	},
}

var chartDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a saved chart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		if err := st.DeleteChart(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted chart %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.AddCommand(chartSaveCmd, chartListCmd, chartShowCmd, chartDeleteCmd)
	chartSaveCmd.Flags().StringVar(&chName, "name", "", "chart name")
	chartSaveCmd.Flags().StringVar(&chType, "type", "bar", "bar|line|pie|scatter")
	chartSaveCmd.Flags().StringVar(&chGroupBy, "group-by", "", "column to group by")
	chartSaveCmd.Flags().StringVar(&chValue, "value", "", "column to aggregate")
	chartSaveCmd.Flags().StringVar(&chOp, "op", "sum", "sum|average|count|min|max|median|mode")
	chartSaveCmd.Flags().StringVar(&chFilter, "filter", "", "equality filter column=value")
	for _, c := range []*cobra.Command{chartListCmd, chartShowCmd} {
		c.Flags().BoolVar(&chJSON, "json", false, "print JSON")
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package cmd

import (
	"fmt"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/spf13/cobra"
)

var (
	aggGroupBy string
	aggValue   string
	aggOp      string
	aggFilter  string
	aggJSON    bool
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Group the current table and reduce one column",
	Example: `  tabloom aggregate --group-by region --value sales --op sum
  tabloom aggregate --group-by month --value orders --op count --filter region=EU`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireFlags("group-by", aggGroupBy, "value", aggValue); err != nil {
			return err
		}
		op, err := analysis.ParseOperator(aggOp)
		if err != nil {
			return err
		}
		f, err := analysis.ParseFilter(aggFilter)
		if err != nil {
			return err
		}
		t, err := currentTable()
		if err != nil {
			return err
		}
		res, err := runAggregation(t, aggGroupBy, aggValue, op, f)
		if err != nil {
			return err
		}
		if aggJSON {
			return printJSON(cmd.OutOrStdout(), res)
		}
		printAggregation(cmd, res, f)
		return nil
	},
}

func runAggregation(t *table.Table, groupBy, value string, op analysis.Operator, f analysis.Filter) (*analysis.Result, error) {
	work, err := f.Apply(t)
	if err != nil {
		return nil, err
	}
	return analysis.Aggregate(work, groupBy, value, op)
}

func printAggregation(cmd *cobra.Command, res *analysis.Result, f analysis.Filter) {
	out := cmd.OutOrStdout()
	if len(res.Points) == 0 {
		if f.Active() {
			fmt.Fprintf(out, "⚠ No rows match %s\n", f)
		} else {
			fmt.Fprintln(out, "⚠ No rows to aggregate")
		}
		return
	}
	fmt.Fprint(out, res.Markdown())
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
	aggregateCmd.Flags().StringVar(&aggGroupBy, "group-by", "", "column to group by")
	aggregateCmd.Flags().StringVar(&aggValue, "value", "", "column to aggregate")
	aggregateCmd.Flags().StringVar(&aggOp, "op", "sum", "sum|average|count|min|max|median|mode")
	aggregateCmd.Flags().StringVar(&aggFilter, "filter", "", "equality filter column=value")
	aggregateCmd.Flags().BoolVar(&aggJSON, "json", false, "print JSON")
}

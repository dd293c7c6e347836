package cmd

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	repGroupBy string
	repFilter  string
	repOutput  string
	repFormat  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Per-group count, sum, average, min and max of every numeric column",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireFlags("group-by", repGroupBy); err != nil {
			return err
		}
		f, err := analysis.ParseFilter(repFilter)
		if err != nil {
			return err
		}
		t, err := currentTable()
		if err != nil {
			return err
		}
		rep, err := analysis.BuildReport(t, repGroupBy, f)
		if err != nil {
			return err
		}
		if len(rep.Rows) == 0 && f.Active() {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ No rows match %s\n", f)
		}
		var content string
		switch strings.ToLower(repFormat) {
		case "", "md", "markdown":
			content = rep.Markdown()
		case "html":
			content = analysis.HTML("Grouped report: "+repGroupBy, rep.Markdown())
		case "csv":
			content, err = reportCSV(rep)
		case "json":
			var b []byte
			b, err = utils.PrettyJSON(rep)
			content = string(b) + "\n"
		default:
			return fmt.Errorf("unsupported --format: %s (use md|csv|json|html)", repFormat)
		}
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), repOutput, content)
	},
}

func reportCSV(rep *analysis.Report) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(rep.Header()); err != nil {
		return "", err
	}
	if err := w.WriteAll(rep.Records()); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&repGroupBy, "group-by", "", "column to group by")
	reportCmd.Flags().StringVar(&repFilter, "filter", "", "equality filter column=value")
	reportCmd.Flags().StringVarP(&repOutput, "output", "o", "", "write the report to a file")
	reportCmd.Flags().StringVar(&repFormat, "format", "md", "md|csv|json|html")
}

package cmd

import (
	"fmt"

	"github.com/KaramelBytes/tabloom-cli/internal/parser"
	"github.com/spf13/cobra"
)

var (
	loadDelimiter string
	loadSheet     string
)

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Parse a CSV/TSV/XLSX file and make it the current table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		delim, err := parseDelimiter(loadDelimiter)
		if err != nil {
			return err
		}
		if !parser.Supported(args[0]) {
			return fmt.Errorf("unsupported file type: %s (use .csv, .tsv, .xlsx, .xlsm or .xls)", args[0])
		}
		s, err := openSession(parser.Options{Delimiter: delim, Sheet: loadSheet, Logger: logger})
		if err != nil {
			return err
		}
		t, err := s.Load(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Loaded %s: %d rows, %d columns\n", t.Name, t.Len(), len(t.Columns))
		for _, w := range t.Warnings {
			fmt.Fprintf(out, "⚠ %s\n", w)
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the current table (saved charts are kept)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(parser.Options{})
		if err != nil {
			return err
		}
		if err := s.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleared current table")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(clearCmd)
	loadCmd.Flags().StringVar(&loadDelimiter, "delimiter", "", "delimiter for text files: ',', ';', 'tab' or 'pipe' (default: detect)")
	loadCmd.Flags().StringVar(&loadSheet, "sheet", "", "workbook sheet name (default: first sheet)")
}

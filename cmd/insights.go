package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
	"github.com/KaramelBytes/tabloom-cli/internal/remote"
	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	insGroupBy     string
	insQuestion    string
	insMaxTokens   int
	insPrintPrompt bool
)

const defaultInsightQuestion = "Summarize the notable patterns, outliers and relationships in this dataset and suggest follow-up analyses."

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Ask the insight service to narrate the current table's statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		limit := insMaxTokens
		if limit <= 0 {
			limit = c.InsightsMaxTokens
		}
		t, err := currentTable()
		if err != nil {
			return err
		}
		prompt, tokens, err := buildInsightPrompt(t, insGroupBy, insQuestion, limit)
		if err != nil {
			return err
		}
		if insPrintPrompt {
			fmt.Fprintln(cmd.OutOrStdout(), prompt)
			fmt.Fprintf(cmd.OutOrStdout(), "\n(~%d tokens)\n", tokens)
			return nil
		}
		if c.InsightsURL == "" {
			return fmt.Errorf("insights_url is not configured (tabloom config set insights_url <url>)")
		}
		client := remote.NewInsightClient(c.InsightsURL, c.InsightsAPIKey, httpTimeout())
		client.WithLogger(logger)
		text, err := client.Generate(cmd.Context(), prompt)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(text))
		return nil
	},
}

// buildInsightPrompt assembles schema, statistics and an optional grouped
// report, truncated to maxTokens.
func buildInsightPrompt(t *table.Table, groupBy, question string, maxTokens int) (string, int, error) {
	if strings.TrimSpace(question) == "" {
		question = defaultInsightQuestion
	}
	sections := map[string]string{
		"schema":   analysis.ColumnsMarkdown(analysis.Classify(t)),
		"describe": analysis.Describe(t).Markdown(),
	}
	if groupBy != "" {
		rep, err := analysis.BuildReport(t, groupBy, analysis.Filter{})
		if err != nil {
			return "", 0, err
		}
		sections["report"] = rep.Markdown()
	}
	if nums := t.NumericColumns(); len(nums) >= 2 {
		if m, err := analysis.Correlate(t, nums, analysis.OrderAbsolute); err == nil {
			sections["correlations"] = m.Markdown()
		}
	}

	var sb strings.Builder
	sb.WriteString("[INSTRUCTIONS]\n")
	sb.WriteString("You are a data analyst. Base every statement on the statistics below.\n\n")
	sb.WriteString("[DATASET]\n")
	if t.Name != "" {
		sb.WriteString(fmt.Sprintf("File: %s\n", t.Name))
	}
	sb.WriteString(fmt.Sprintf("Rows: %d\nColumns: %d\n\n", t.Len(), len(t.Columns)))
	for _, key := range []string{"schema", "describe", "report", "correlations"} {
		if s, ok := sections[key]; ok {
			sb.WriteString(s)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("[TASK]\n")
	sb.WriteString(question)
	sb.WriteString("\n")

	logger.Debug("insight prompt sections", "tokens", utils.TokenBreakdown(sections))
	prompt := sb.String()
	if maxTokens > 0 && utils.CountTokens(prompt) > maxTokens {
		logger.Warn("insight prompt truncated", "tokens", utils.CountTokens(prompt), "limit", maxTokens)
		prompt = utils.TruncateToTokenLimit(prompt, maxTokens)
	}
	return prompt, utils.CountTokens(prompt), nil
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.Flags().StringVar(&insGroupBy, "group-by", "", "include a grouped report by this column")
	insightsCmd.Flags().StringVar(&insQuestion, "question", "", "question to ask about the data")
	insightsCmd.Flags().IntVar(&insMaxTokens, "max-tokens", 0, "prompt token budget (default from config)")
	insightsCmd.Flags().BoolVar(&insPrintPrompt, "print-prompt", false, "print the prompt instead of sending it")
}

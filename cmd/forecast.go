package cmd

import (
	"fmt"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
	"github.com/KaramelBytes/tabloom-cli/internal/remote"
	"github.com/spf13/cobra"
)

var (
	fcDate    string
	fcValue   string
	fcHorizon int
	fcModel   string
	fcJSON    bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Send a date/value series to the forecasting service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireFlags("date", fcDate, "value", fcValue); err != nil {
			return err
		}
		c := currentConfig()
		horizon := fcHorizon
		if horizon <= 0 {
			horizon = c.DefaultHorizon
		}
		model := fcModel
		if model == "" {
			model = c.DefaultModelType
		}
		t, err := currentTable()
		if err != nil {
			return err
		}
		series, err := analysis.ExtractSeries(t, fcDate, fcValue)
		if err != nil {
			return err
		}
		logger.Debug("extracted series", "points", len(series), "first", series[0].Date, "last", series[len(series)-1].Date)

		client := remote.NewForecastClient(c.ForecastURL, httpTimeout())
		client.WithLogger(logger)
		res, err := client.Forecast(cmd.Context(), remote.ForecastRequest{
			Series: series, Horizon: horizon, ModelType: model, DateColumn: fcDate, ValueColumn: fcValue,
		})
		if err != nil {
			return err
		}
		if fcJSON {
			return printJSON(cmd.OutOrStdout(), res)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Forecast (%s, %d periods from %d observations)\n", model, horizon, len(series))
		for _, p := range res.Predictions {
			fmt.Fprintf(out, "  %s  %.4g\n", p.Date, p.Value)
		}
		if res.RMSE != nil {
			fmt.Fprintf(out, "RMSE: %.4g\n", *res.RMSE)
		}
		if res.Insights != "" {
			fmt.Fprintf(out, "\n%s\n", res.Insights)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(forecastCmd)
	forecastCmd.Flags().StringVar(&fcDate, "date", "", "date column")
	forecastCmd.Flags().StringVar(&fcValue, "value", "", "value column")
	forecastCmd.Flags().IntVar(&fcHorizon, "horizon", 0, "periods to predict (default from config)")
	forecastCmd.Flags().StringVar(&fcModel, "model", "", "arima|simple_linear_regression (default from config)")
	forecastCmd.Flags().BoolVar(&fcJSON, "json", false, "print JSON")
}

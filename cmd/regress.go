package cmd

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
	"github.com/KaramelBytes/tabloom-cli/internal/remote"
	"github.com/spf13/cobra"
)

var (
	regDependent   string
	regIndependent []string
	regForest      bool
	regEstimators  int
	regJSON        bool
)

var regressCmd = &cobra.Command{
	Use:   "regress",
	Short: "Fit a linear or random-forest regression through the regression service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireFlags("dependent", regDependent); err != nil {
			return err
		}
		t, err := currentTable()
		if err != nil {
			return err
		}
		frame, err := analysis.RegressionFrame(t, regDependent, regIndependent)
		if err != nil {
			return err
		}
		client := remote.NewRegressionClient(currentConfig().RegressionURL, httpTimeout())
		client.WithLogger(logger)
		req := remote.RegressionRequest{Frame: frame, Dependent: regDependent, Independent: regIndependent, NEstimators: regEstimators}
		out := cmd.OutOrStdout()

		if regForest {
			res, err := client.RandomForest(cmd.Context(), req)
			if err != nil {
				return err
			}
			if regJSON {
				return printJSON(out, res)
			}
			fmt.Fprintf(out, "✓ Random forest on %d rows\n", len(frame))
			if r2, ok := res.R2(); ok {
				fmt.Fprintf(out, "R²: %.4f\n", r2)
			}
			for _, p := range []struct {
				name string
				v    *float64
			}{{"MAE", res.MAE}, {"MSE", res.MSE}, {"RMSE", res.RMSE}} {
				if p.v != nil {
					fmt.Fprintf(out, "%s: %.4g\n", p.name, *p.v)
				}
			}
			printWeights(cmd, "Feature importances", res.FeatureImportances)
			return nil
		}

		res, err := client.Linear(cmd.Context(), req)
		if err != nil {
			return err
		}
		if regJSON {
			return printJSON(out, res)
		}
		fmt.Fprintf(out, "✓ Linear regression on %d rows\n", len(frame))
		fmt.Fprintf(out, "R²: %.4f\n", res.RSquared)
		printWeights(cmd, "Coefficients", res.Coefs())
		return nil
	},
}

func printWeights(cmd *cobra.Command, title string, m map[string]float64) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(out, "  %s: %.4g\n", k, m[k])
	}
}

func init() {
	rootCmd.AddCommand(regressCmd)
	regressCmd.Flags().StringVar(&regDependent, "dependent", "", "dependent (target) column")
	regressCmd.Flags().StringSliceVar(&regIndependent, "independent", nil, "comma-separated independent columns")
	regressCmd.Flags().BoolVar(&regForest, "forest", false, "use the random-forest endpoint")
	regressCmd.Flags().IntVar(&regEstimators, "estimators", 100, "number of trees for --forest")
	regressCmd.Flags().BoolVar(&regJSON, "json", false, "print JSON")
}

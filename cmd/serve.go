package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/tabloom-cli/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	serveOrigins []string
	serveRate    float64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis engines over a JSON HTTP API",
	Long: `Endpoints:
  GET  /healthz
  GET  /metrics                Prometheus exposition
  POST /calculate_correlation  {dataframe, columns, order}
  POST /aggregate              {dataframe, group_by, value, operator, filter}
  POST /report                 {dataframe, group_by, filter}
  POST /describe               {dataframe}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		addr := serveAddr
		if addr == "" {
			addr = c.ListenAddr
		}
		origins := serveOrigins
		if len(origins) == 0 {
			origins = c.AllowedOrigins
		}
		rps := serveRate
		if rps == 0 {
			rps = c.RateLimitRPS
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Options{Logger: logger, AllowedOrigins: origins, RequestsPerSecond: rps})
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Listening on http://%s (Ctrl+C to stop)\n", addr)
		if err := srv.ListenAndServe(ctx, addr); err != nil && ctx.Err() == nil {
			return err
		}
		if ctx.Err() == context.Canceled {
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Stopped")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config listen_addr)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origins", nil, "allowed CORS origins (default from config)")
	serveCmd.Flags().Float64Var(&serveRate, "rate", 0, "max analysis requests per second, 0 for config rate_limit_rps")
}

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/tabloom-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile            string
	debug              bool
	flagStoreDir       string
	flagHTTPTimeoutSec int

	// Loaded configuration
	cfg *cfgpkg.Global
	// Process logger; diagnostics go to stderr, results to stdout.
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

var rootCmd = &cobra.Command{
	Use:   "tabloom",
	Short: "Tabloom CLI: load a table, then aggregate, report and analyze it",
	Long: `Tabloom loads CSV/TSV and spreadsheet files into a normalized table kept in a local store,
then runs grouped aggregations, reports, descriptive statistics and correlations on it.
Forecasting, regression and narrative insights are delegated to external HTTP services.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tabloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagStoreDir, "store", "", "store directory (overrides ./.tabloom and config store_dir)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults.
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	level := cfg.Level()
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// currentConfig never returns nil.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}

var errMissingFlag = errors.New("missing required flag")

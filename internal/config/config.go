package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Directory holding the current table and saved charts.
	StoreDir string `mapstructure:"store_dir" yaml:"store_dir"`

	// Remote services
	ForecastURL       string `mapstructure:"forecast_url" yaml:"forecast_url"`
	RegressionURL     string `mapstructure:"regression_url" yaml:"regression_url"`
	InsightsURL       string `mapstructure:"insights_url" yaml:"insights_url"`
	InsightsAPIKey    string `mapstructure:"insights_api_key" yaml:"insights_api_key"`
	InsightsMaxTokens int    `mapstructure:"insights_max_tokens" yaml:"insights_max_tokens"`
	HTTPTimeoutSec    int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	// Forecast defaults
	DefaultModelType string `mapstructure:"default_model_type" yaml:"default_model_type"`
	DefaultHorizon   int    `mapstructure:"default_horizon" yaml:"default_horizon"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// HTTP API
	ListenAddr     string   `mapstructure:"listen_addr" yaml:"listen_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	// RateLimitRPS limits analysis requests per second; 0 disables.
	RateLimitRPS float64 `mapstructure:"rate_limit_rps" yaml:"rate_limit_rps"`
}

// Dir returns ~/.tabloom.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tabloom"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env (.env included) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	// .env is optional; existing environment variables win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TABLOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store_dir", "")
	v.SetDefault("forecast_url", "http://127.0.0.1:5000/forecast")
	v.SetDefault("regression_url", "http://127.0.0.1:5000")
	v.SetDefault("insights_url", "")
	v.SetDefault("insights_api_key", "")
	v.SetDefault("insights_max_tokens", 3000)
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("default_model_type", "arima")
	v.SetDefault("default_horizon", 7)
	v.SetDefault("log_level", "warn")
	v.SetDefault("listen_addr", "127.0.0.1:8080")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("rate_limit_rps", 0)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.StoreDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.StoreDir = filepath.Join(dir, "store")
	}
	return &c, nil
}

// Level maps log_level to a slog level; unknown values fall back to warn.
func (c *Global) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Set assigns a configuration key from its string form.
func (c *Global) Set(key, value string) error {
	switch key {
	case "store_dir":
		c.StoreDir = value
	case "forecast_url":
		c.ForecastURL = value
	case "regression_url":
		c.RegressionURL = value
	case "insights_url":
		c.InsightsURL = value
	case "insights_api_key":
		c.InsightsAPIKey = value
	case "default_model_type":
		c.DefaultModelType = value
	case "log_level":
		c.LogLevel = value
	case "listen_addr":
		c.ListenAddr = value
	case "allowed_origins":
		var origins []string
		for _, o := range strings.Split(value, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.AllowedOrigins = origins
	case "rate_limit_rps":
		var f float64
		if _, err := fmt.Sscanf(value, "%g", &f); err != nil || f < 0 {
			return fmt.Errorf("%s must be a non-negative number", key)
		}
		c.RateLimitRPS = f
	case "http_timeout_sec", "default_horizon", "insights_max_tokens":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
		switch key {
		case "http_timeout_sec":
			c.HTTPTimeoutSec = n
		case "default_horizon":
			c.DefaultHorizon = n
		default:
			c.InsightsMaxTokens = n
		}
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Masked returns a copy safe to print.
func (c *Global) Masked() Global {
	out := *c
	out.InsightsAPIKey = MaskKey(c.InsightsAPIKey)
	return out
}

// MaskKey keeps the last four characters of a secret.
func MaskKey(k string) string {
	if k == "" {
		return ""
	}
	if len(k) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(k)-4) + k[len(k)-4:]
}

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL             string   `yaml:"base_url"`
		APIKey              string   `yaml:"api_key"`
		Symbols             []string `yaml:"symbols"`
		WindowDays          int      `yaml:"window_days"`
		PageLimit           int      `yaml:"page_limit"`
		RequestDelaySeconds int      `yaml:"request_delay_seconds"`
	} `yaml:"data_source"`
	Reports struct {
		OutputDir string `yaml:"output_dir"`
	} `yaml:"reports"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Dashboard struct {
		Addr string `yaml:"addr"`
	} `yaml:"dashboard"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("MARKETSTACK_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("MARKETSTACK_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("STOCKSCOPE_SYMBOLS"); v != "" {
		cfg.DataSource.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("STOCKSCOPE_WINDOW_DAYS"); v != "" {
		var days int
		if _, err := fmt.Sscanf(v, "%d", &days); err == nil {
			cfg.DataSource.WindowDays = days
		}
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Reports.OutputDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DASHBOARD_ADDR"); v != "" {
		cfg.Dashboard.Addr = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}

	// Defaults
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "http://api.marketstack.com/v1"
	}
	if len(cfg.DataSource.Symbols) == 0 {
		cfg.DataSource.Symbols = defaultSymbols()
	}
	if cfg.DataSource.WindowDays == 0 {
		cfg.DataSource.WindowDays = 60
	}
	if cfg.DataSource.PageLimit == 0 {
		cfg.DataSource.PageLimit = 100
	}
	if cfg.DataSource.RequestDelaySeconds == 0 {
		cfg.DataSource.RequestDelaySeconds = 2
	}
	if cfg.Reports.OutputDir == "" {
		cfg.Reports.OutputDir = "."
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockscope.db"
	}
	if cfg.Dashboard.Addr == "" {
		cfg.Dashboard.Addr = ":8050"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.DataSource.WindowDays <= 0 {
		return fmt.Errorf("data_source.window_days must be positive")
	}
	if c.DataSource.PageLimit < 1 || c.DataSource.PageLimit > 100 {
		return fmt.Errorf("data_source.page_limit must be between 1 and 100")
	}
	if c.DataSource.RequestDelaySeconds < 0 {
		return fmt.Errorf("data_source.request_delay_seconds must not be negative")
	}
	return nil
}

// defaultSymbols is the tracked universe when none is configured.
func defaultSymbols() []string {
	return []string{
		"NKE", "AAPL", "AMZN", "AXP", "BA", "CSCO", "IBM",
		"JPM", "MSFT", "V", "MA", "NVDA", "TSLA", "VZ",
		"NFLX", "CRM", "PG", "UNH", "WMT", "GS", "DJI.INDX",
	}
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

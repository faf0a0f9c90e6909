package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string        `yaml:"port"`
	APIBaseURL     string        `yaml:"api_base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	SessionDBPath string        `yaml:"session_db_path"`
	SessionTTL    time.Duration `yaml:"session_ttl"`

	LabelCacheTTL  time.Duration `yaml:"label_cache_ttl"`
	StatsCacheTTL  time.Duration `yaml:"stats_cache_ttl"`
	StatsCacheSize int           `yaml:"stats_cache_size"`

	OperatorWorkers int `yaml:"operator_workers"`

	DailyWindow       int  `yaml:"daily_window"`
	MonthlyWindow     int  `yaml:"monthly_window"`
	CountTransactions bool `yaml:"count_transactions"`

	LogLevel string `yaml:"log_level"`
}

// Default is the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Port:              "9446",
		APIBaseURL:        "https://open-api.delcom.org/api/v1",
		RequestTimeout:    30 * time.Second,
		SessionDBPath:     "./data/session.db",
		SessionTTL:        2 * time.Hour,
		LabelCacheTTL:     5 * time.Minute,
		StatsCacheTTL:     time.Minute,
		StatsCacheSize:    64,
		OperatorWorkers:   2,
		DailyWindow:       7,
		MonthlyWindow:     6,
		CountTransactions: true,
		LogLevel:          "info",
	}
}

// ProcessEnvironmentVariables builds the config from defaults, then the YAML
// file named by CASHFLOW_CONFIG, then environment variables. A .env file in
// the working directory is loaded into the environment first when present.
func ProcessEnvironmentVariables() (*Config, error) {
	_ = godotenv.Load()

	env := Default()

	if path := os.Getenv("CASHFLOW_CONFIG"); len(path) != 0 {
		if err := env.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.applyEnvironment(); err != nil {
		return nil, err
	}

	if err := env.Validate(); err != nil {
		return nil, err
	}

	return env, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvironment() error {
	setString(&c.Port, "PORT")
	setString(&c.APIBaseURL, "API_BASE_URL")
	setString(&c.SessionDBPath, "SESSION_DB_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")

	durations := map[string]*time.Duration{
		"REQUEST_TIMEOUT": &c.RequestTimeout,
		"SESSION_TTL":     &c.SessionTTL,
		"LABEL_CACHE_TTL": &c.LabelCacheTTL,
		"STATS_CACHE_TTL": &c.StatsCacheTTL,
	}
	for name, dst := range durations {
		if err := setDuration(dst, name); err != nil {
			return err
		}
	}

	ints := map[string]*int{
		"STATS_CACHE_SIZE": &c.StatsCacheSize,
		"OPERATOR_WORKERS": &c.OperatorWorkers,
		"DAILY_WINDOW":     &c.DailyWindow,
		"MONTHLY_WINDOW":   &c.MonthlyWindow,
	}
	for name, dst := range ints {
		if err := setInt(dst, name); err != nil {
			return err
		}
	}

	return setBool(&c.CountTransactions, "COUNT_TRANSACTIONS")
}

// Validate rejects values the gateway cannot run with.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q: must be a number between 1 and 65535", c.Port)
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API base URL %q", c.APIBaseURL)
	}

	if c.SessionDBPath == "" {
		return fmt.Errorf("session database path cannot be empty")
	}
	if c.RequestTimeout <= 0 || c.SessionTTL <= 0 {
		return fmt.Errorf("request timeout and session TTL must be positive")
	}
	if c.StatsCacheSize < 1 {
		return fmt.Errorf("invalid stats cache size %d", c.StatsCacheSize)
	}
	if c.OperatorWorkers < 1 {
		return fmt.Errorf("invalid operator worker count %d", c.OperatorWorkers)
	}
	if c.DailyWindow < 1 || c.MonthlyWindow < 1 {
		return fmt.Errorf("window sizes must be positive")
	}
	return nil
}

func setString(dst *string, name string) {
	if v := os.Getenv(name); len(v) != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, name string) error {
	v := os.Getenv(name)
	if len(v) == 0 {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, name string) error {
	v := os.Getenv(name)
	if len(v) == 0 {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, name string) error {
	v := os.Getenv(name)
	if len(v) == 0 {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	*dst = b
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Run modes: a single conversion pass, or a long-running service that
// refreshes on a cron schedule and serves health/metrics over HTTP.
const (
	ModeOnce  = "once"
	ModeServe = "serve"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	BaseURL   string // EiBi download base, the sked filename is appended
	SitesPath string // path to the three-column transmitter site table

	OutputCSVPath  string
	OutputJSONPath string // empty disables the JSON emitter
	OutputICSPath  string // empty disables the calendar emitter
	SortByFreq     bool

	KafkaBrokers   []string // non-empty enables the broker sink
	KafkaSinkTopic string

	RunMode         string
	RefreshCronSpec string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	FetchTimeout    time.Duration
	FetchAttempts   int
	FetchRetryDelay time.Duration

	// ReferenceDate overrides "today" for season detection when non-zero.
	ReferenceDate time.Time
}

// KafkaEnabled reports whether the broker sink is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored but never overrides
// existing variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "3s")
	if err != nil {
		return nil, err
	}
	retryDelay, err := parseDuration("FETCH_RETRY_DELAY", "3s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	attempts, err := parseInt("FETCH_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	refDate, err := parseReferenceDate()
	if err != nil {
		return nil, err
	}
	sortByFreq, err := parseBool("EMIT_SORT_BY_FREQ", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL:   envOrDefault("EIBI_BASE_URL", "http://www.eibispace.de/dx"),
		SitesPath: envOrDefault("EIBI_SITES_PATH", "eibisites.csv"),

		OutputCSVPath:  envOrDefault("OUTPUT_CSV_PATH", "kiwi.csv"),
		OutputJSONPath: os.Getenv("OUTPUT_JSON_PATH"),
		OutputICSPath:  os.Getenv("OUTPUT_ICS_PATH"),
		SortByFreq:     sortByFreq,

		KafkaBrokers:   parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "broadcast-schedule-records"),

		RunMode:         envOrDefault("RUN_MODE", ModeOnce),
		RefreshCronSpec: envOrDefault("REFRESH_CRON_SPEC", "0 4 * * *"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FetchTimeout:    fetchTimeout,
		FetchAttempts:   attempts,
		FetchRetryDelay: retryDelay,

		ReferenceDate: refDate,
	}

	if cfg.RunMode != ModeOnce && cfg.RunMode != ModeServe {
		return nil, fmt.Errorf("invalid RUN_MODE %q: want %q or %q", cfg.RunMode, ModeOnce, ModeServe)
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("EIBI_BASE_URL is required")
	}
	if cfg.SitesPath == "" {
		return nil, errors.New("EIBI_SITES_PATH is required")
	}
	if cfg.OutputCSVPath == "" {
		return nil, errors.New("OUTPUT_CSV_PATH is required")
	}
	if cfg.FetchAttempts < 1 {
		return nil, errors.New("FETCH_ATTEMPTS must be at least 1")
	}
	if cfg.KafkaEnabled() && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

// parseReferenceDate reads REFERENCE_DATE as YYYY-MM-DD. Unset means "use
// today", which is the normal production setting.
func parseReferenceDate() (time.Time, error) {
	s := os.Getenv("REFERENCE_DATE")
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid REFERENCE_DATE: %w", err)
	}
	return d.UTC(), nil
}

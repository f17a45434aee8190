// Package config loads calnav configuration from environment variables and an
// optional TOML selector catalogue, validates it, and provides defaults.
//
// CLI flags override individual fields after LoadConfig returns.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kuitang/screening-ui/internal/artifacts"
	"github.com/kuitang/screening-ui/internal/pacing"
	"github.com/kuitang/screening-ui/internal/slots"
	"github.com/kuitang/screening-ui/internal/urlutil"
)

// Supported browser drivers.
const (
	DriverPlaywright = "playwright"
	DriverChromedp   = "chromedp"
)

const defaultArtifactRegion = "auto"

// Config holds all calnav configuration.
type Config struct {
	// Browser settings
	BaseURL       string        // CALNAV_BASE_URL, prepended to relative --url values
	Driver        string        // CALNAV_DRIVER: playwright or chromedp
	Headless      bool          // HEADLESS
	SlowMo        time.Duration // SLOW_MO, e.g. "250ms" or a bare millisecond count
	ActionTimeout time.Duration // CALNAV_ACTION_TIMEOUT
	LogLevel      string        // CALNAV_LOG_LEVEL

	// Pacing
	Pacing pacing.Config

	// Slot scanning
	MaxPages int // CALNAV_MAX_PAGES

	// Selector catalogue
	SelectorsFile string // CALNAV_SELECTORS_FILE
	Selectors     Selectors

	// Failure artifacts (uses AWS_ env vars)
	AWSEndpointS3      string // AWS_ENDPOINT_URL_S3
	AWSRegion          string // AWS_REGION
	AWSAccessKeyID     string // AWS_ACCESS_KEY_ID
	AWSSecretAccessKey string // AWS_SECRET_ACCESS_KEY
	ArtifactBucket     string // ARTIFACT_BUCKET; empty disables uploads
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// LoadConfig loads configuration from environment variables, then the
// selector catalogue named by CALNAV_SELECTORS_FILE if set.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.BaseURL = strings.TrimSpace(os.Getenv("CALNAV_BASE_URL"))
	cfg.Driver = strings.ToLower(getEnvOrDefault("CALNAV_DRIVER", DriverPlaywright))
	cfg.Headless = parseBoolOrDefault("HEADLESS", true)
	cfg.SlowMo = parseMillisOrDuration("SLOW_MO", 0)
	cfg.ActionTimeout = parseDurationOrDefault("CALNAV_ACTION_TIMEOUT", 5*time.Second)
	cfg.LogLevel = getEnvOrDefault("CALNAV_LOG_LEVEL", "info")

	cfg.Pacing = pacing.Config{
		ActionsPerSecond: parseFloat64OrDefault("CALNAV_ACTIONS_PER_SECOND", pacing.DefaultConfig.ActionsPerSecond),
		Burst:            parseIntOrDefault("CALNAV_ACTION_BURST", pacing.DefaultConfig.Burst),
		IdleTimeout:      pacing.DefaultConfig.IdleTimeout,
	}

	cfg.MaxPages = parseIntOrDefault("CALNAV_MAX_PAGES", slots.DefaultMaxPages)

	cfg.AWSEndpointS3 = strings.TrimSpace(os.Getenv("AWS_ENDPOINT_URL_S3"))
	cfg.AWSRegion = getEnvOrDefault("AWS_REGION", defaultArtifactRegion)
	cfg.AWSAccessKeyID = strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID"))
	cfg.AWSSecretAccessKey = strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY"))
	cfg.ArtifactBucket = strings.TrimSpace(os.Getenv("ARTIFACT_BUCKET"))

	cfg.SelectorsFile = strings.TrimSpace(os.Getenv("CALNAV_SELECTORS_FILE"))
	if err := cfg.ReloadSelectors(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReloadSelectors rebuilds Selectors from the defaults and SelectorsFile.
func (c *Config) ReloadSelectors() error {
	if c.SelectorsFile == "" {
		c.Selectors = DefaultSelectors()
		return nil
	}
	sel, err := LoadSelectors(c.SelectorsFile)
	if err != nil {
		return err
	}
	c.Selectors = sel
	return nil
}

// Validate checks that all configuration is present and valid.
func (c *Config) Validate() error {
	var errs []string

	switch c.Driver {
	case DriverPlaywright, DriverChromedp:
	default:
		errs = append(errs, fmt.Sprintf("CALNAV_DRIVER must be %q or %q, got %q", DriverPlaywright, DriverChromedp, c.Driver))
	}
	if c.BaseURL != "" {
		if _, err := urlutil.Resolve(c.BaseURL, ""); err != nil {
			errs = append(errs, "CALNAV_BASE_URL: "+err.Error())
		}
	}
	if c.ActionTimeout <= 0 {
		errs = append(errs, "CALNAV_ACTION_TIMEOUT must be positive")
	}
	if c.SlowMo < 0 {
		errs = append(errs, "SLOW_MO must not be negative")
	}
	if c.Pacing.ActionsPerSecond < 0 {
		errs = append(errs, "CALNAV_ACTIONS_PER_SECOND must not be negative (0 disables pacing)")
	}
	if c.Pacing.Burst <= 0 {
		errs = append(errs, "CALNAV_ACTION_BURST must be positive")
	}
	if c.MaxPages <= 0 {
		errs = append(errs, "CALNAV_MAX_PAGES must be positive")
	}

	// Artifacts: credentials are optional (the default chain may supply them)
	// but an endpoint without a bucket is almost certainly a mistake.
	if c.AWSEndpointS3 != "" && c.ArtifactBucket == "" {
		errs = append(errs, "ARTIFACT_BUCKET is required when AWS_ENDPOINT_URL_S3 is set")
	}
	if (c.AWSAccessKeyID == "") != (c.AWSSecretAccessKey == "") {
		errs = append(errs, "AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
	}

	errs = append(errs, c.Selectors.problems()...)

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ArtifactsEnabled reports whether failure artifacts should be uploaded.
func (c *Config) ArtifactsEnabled() bool {
	return c.ArtifactBucket != ""
}

// ArtifactConfig returns the artifact store configuration.
func (c *Config) ArtifactConfig() artifacts.Config {
	return artifacts.Config{
		Endpoint:        c.AWSEndpointS3,
		Region:          c.AWSRegion,
		AccessKeyID:     c.AWSAccessKeyID,
		SecretAccessKey: c.AWSSecretAccessKey,
		BucketName:      c.ArtifactBucket,
		Prefix:          "calnav",
		UsePathStyle:    c.AWSEndpointS3 != "",
	}
}

// Helper functions for parsing environment variables

func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// parseMillisOrDuration accepts either a Go duration or a bare millisecond
// count, the form Playwright's slowMo option uses.
func parseMillisOrDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return parseDurationOrDefault(key, defaultValue)
}

package paperless

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds connection settings for a Paperless-ngx instance.
type Config struct {
	// BaseURL is the instance root, e.g. "http://localhost:8000".
	// A trailing slash is stripped.
	BaseURL string

	// Token is the API token sent as "Authorization: Token <value>".
	Token string

	// HTTPTimeout bounds every request except bulk edits, which carry
	// their own per-call deadline supplied by the merge engine.
	// Default: 30 seconds.
	HTTPTimeout time.Duration

	// RateLimit caps outgoing requests per second. Zero disables limiting.
	RateLimit float64

	// RateBurst is the limiter burst size when RateLimit is set.
	// Default: 1.
	RateBurst int
}

// DefaultConfig returns the default client configuration. BaseURL and Token
// must still be filled in by the caller.
func DefaultConfig() Config {
	return Config{
		HTTPTimeout: 30 * time.Second,
		RateBurst:   1,
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required (set --url or PAPERLESS_URL)")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", c.BaseURL)
	}
	if c.Token == "" {
		return fmt.Errorf("API token is required (set --token or PAPERLESS_TOKEN)")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive (got %v)", c.HTTPTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit cannot be negative (got %.2f)", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return fmt.Errorf("rate_burst must be positive when rate_limit is set (got %d)", c.RateBurst)
	}
	return nil
}

// ConfigFromEnv creates a Config from environment variables, falling back to
// defaults.
//
// Environment variables:
//   - PAPERLESS_URL: Instance base URL
//   - PAPERLESS_TOKEN: API token
//   - PCM_HTTP_TIMEOUT_SECS: Request timeout in seconds (default: 30)
//   - PCM_RATE_LIMIT: Maximum requests per second, 0 = unlimited (default: 0)
//
// Returns an error if any environment variable has an invalid value.
// Validate is not called here: the CLI merges flags in afterwards and
// validates the final result.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("PAPERLESS_URL"); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("PAPERLESS_TOKEN"); v != "" {
		cfg.Token = v
	}
	if err := parseEnvDuration("PCM_HTTP_TIMEOUT_SECS", &cfg.HTTPTimeout, time.Second); err != nil {
		return cfg, err
	}
	if err := parseEnvFloat("PCM_RATE_LIMIT", &cfg.RateLimit); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// parseEnvFloat parses a float64 from an environment variable
func parseEnvFloat(key string, dest *float64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvDuration parses a duration from an environment variable. The
// multiplier converts the numeric value to a duration.
func parseEnvDuration(key string, dest *time.Duration, multiplier time.Duration) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = time.Duration(parsed) * multiplier
	return nil
}

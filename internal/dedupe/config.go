package dedupe

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds tuning knobs for similarity clustering and batch
// reassignment. Thresholds and batch sizes are explicit configuration passed
// into operations, never hidden package state, so tests and callers can vary
// them without process-wide side effects.
type Config struct {
	// SimilarityThreshold is the default cutoff for find-similar
	// operations when the caller does not pass one explicitly.
	// Must be within [0.0, 1.0]. Default: 0.9
	SimilarityThreshold float64

	// ReassignBatchSize is how many documents go into one bulk
	// reassignment call during a merge.
	// Larger batches = fewer calls but a higher chance of hitting the
	// bulk timeout on slow instances. Default: 50
	ReassignBatchSize int

	// RestoreBatchSize is the batch size for ad-hoc document restores.
	// Deliberately smaller than ReassignBatchSize: restores run against
	// an instance already known to be misbehaving. Default: 25
	RestoreBatchSize int

	// MinBatchSize is the halving floor. A bulk call that times out is
	// retried at half the batch size until the size reaches this floor;
	// a timeout at or below it is fatal for that batch. Default: 10
	MinBatchSize int

	// BulkTimeout bounds each individual bulk reassignment call.
	// Default: 60 seconds
	BulkTimeout time.Duration
}

// DefaultConfig returns the default engine configuration.
//
// The defaults match long-observed safe behavior against stock
// Paperless-ngx: 50-document batches complete comfortably inside the
// 60-second bulk timeout, and halving down to 10 gives three retry rungs
// (50 -> 25 -> 12) before giving up on a batch.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: DefaultThreshold,
		ReassignBatchSize:   50,
		RestoreBatchSize:    25,
		MinBatchSize:        10,
		BulkTimeout:         60 * time.Second,
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.SimilarityThreshold < 0.0 || c.SimilarityThreshold > 1.0 {
		return fmt.Errorf("%w: similarity_threshold %.2f", ErrInvalidThreshold, c.SimilarityThreshold)
	}
	if c.ReassignBatchSize <= 0 {
		return fmt.Errorf("reassign_batch_size must be positive (got %d)", c.ReassignBatchSize)
	}
	if c.RestoreBatchSize <= 0 {
		return fmt.Errorf("restore_batch_size must be positive (got %d)", c.RestoreBatchSize)
	}
	if c.MinBatchSize < 1 {
		return fmt.Errorf("min_batch_size must be at least 1 (got %d)", c.MinBatchSize)
	}
	if c.BulkTimeout <= 0 {
		return fmt.Errorf("bulk_timeout must be positive (got %v)", c.BulkTimeout)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Threshold: %.2f, ReassignBatch: %d, RestoreBatch: %d, MinBatch: %d, BulkTimeout: %v}",
		c.SimilarityThreshold, c.ReassignBatchSize, c.RestoreBatchSize, c.MinBatchSize, c.BulkTimeout,
	)
}

// ConfigFromEnv creates a Config from environment variables, falling back to
// defaults.
//
// Environment variables:
//   - PCM_SIMILARITY_THRESHOLD: Default similarity cutoff, 0.0-1.0 (default: 0.9)
//   - PCM_REASSIGN_BATCH_SIZE: Documents per bulk reassignment call (default: 50)
//   - PCM_RESTORE_BATCH_SIZE: Documents per restore call (default: 25)
//   - PCM_MIN_BATCH_SIZE: Halving floor for timeout retries (default: 10)
//   - PCM_BULK_TIMEOUT_SECS: Per-bulk-call timeout in seconds (default: 60)
//
// Returns an error if any environment variable has an invalid value.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if err := parseEnvFloat("PCM_SIMILARITY_THRESHOLD", &cfg.SimilarityThreshold); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("PCM_REASSIGN_BATCH_SIZE", &cfg.ReassignBatchSize); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("PCM_RESTORE_BATCH_SIZE", &cfg.RestoreBatchSize); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("PCM_MIN_BATCH_SIZE", &cfg.MinBatchSize); err != nil {
		return cfg, err
	}
	if err := parseEnvDuration("PCM_BULK_TIMEOUT_SECS", &cfg.BulkTimeout, time.Second); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
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

// parseEnvInt parses an int from an environment variable
func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
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

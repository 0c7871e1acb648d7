package viz

import (
	"time"

	"github.com/artatlas/artgraph/pkg/errors"
)

const (
	// DefaultMaxRecoveryAttempts bounds consecutive update failures before
	// the coordinator gives up on automatic recovery.
	DefaultMaxRecoveryAttempts = 3

	// DefaultRecoveryDelay is the pause before a failed update reapplies
	// the last good snapshot.
	DefaultRecoveryDelay = 100 * time.Millisecond

	// DefaultSampleInterval is the performance sampling window.
	DefaultSampleInterval = time.Second
)

// Config tunes the coordinator.
type Config struct {
	MaxRecoveryAttempts int           `toml:"max_recovery_attempts"`
	RecoveryDelay       time.Duration `toml:"recovery_delay"`
	SampleInterval      time.Duration `toml:"sample_interval"`

	// OnMetrics receives each completed performance sampling window while
	// the coordinator is initialized. Optional.
	OnMetrics func(Metrics) `toml:"-"`
}

// DefaultConfig returns the baseline coordinator configuration.
func DefaultConfig() Config {
	return Config{
		MaxRecoveryAttempts: DefaultMaxRecoveryAttempts,
		RecoveryDelay:       DefaultRecoveryDelay,
		SampleInterval:      DefaultSampleInterval,
	}
}

// ValidateAndSetDefaults fills zero-valued fields and checks usability.
func (c *Config) ValidateAndSetDefaults() error {
	if c.MaxRecoveryAttempts == 0 {
		c.MaxRecoveryAttempts = DefaultMaxRecoveryAttempts
	}
	if c.RecoveryDelay == 0 {
		c.RecoveryDelay = DefaultRecoveryDelay
	}
	if c.SampleInterval == 0 {
		c.SampleInterval = DefaultSampleInterval
	}
	if c.MaxRecoveryAttempts < 0 {
		return errors.New(errors.ErrCodeInternal, "max_recovery_attempts must not be negative")
	}
	if c.RecoveryDelay < 0 {
		return errors.New(errors.ErrCodeInternal, "recovery_delay must not be negative")
	}
	if c.SampleInterval < 0 {
		return errors.New(errors.ErrCodeInternal, "sample_interval must not be negative")
	}
	return nil
}

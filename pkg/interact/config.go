package interact

import (
	"time"

	"github.com/artatlas/artgraph/pkg/errors"
)

// =============================================================================
// Default Gesture Thresholds
// =============================================================================

const (
	// DefaultDoubleTapWindow is the maximum delay between two taps on the
	// same node for them to read as one expand gesture.
	DefaultDoubleTapWindow = 300 * time.Millisecond

	// DefaultLongPressHold is the hold duration that turns a press into a
	// context gesture.
	DefaultLongPressHold = 500 * time.Millisecond

	// DefaultPanStartDistance is the travel in layout units before a drag
	// becomes a pan.
	DefaultPanStartDistance = 10.0

	// DefaultPinchThreshold is the relative span change before a two-contact
	// gesture becomes a zoom.
	DefaultPinchThreshold = 0.1

	// DefaultMinZoom and DefaultMaxZoom bound the zoom scale. Pinches beyond
	// the bounds clamp, they are never rejected.
	DefaultMinZoom = 0.5
	DefaultMaxZoom = 3.0
)

// Config tunes gesture recognition. The zero value is not usable; obtain a
// baseline with DefaultConfig and override fields as needed.
type Config struct {
	DoubleTapWindow  time.Duration `toml:"double_tap_window"`
	LongPressHold    time.Duration `toml:"long_press_hold"`
	PanStartDistance float64       `toml:"pan_start_distance"`
	PinchThreshold   float64       `toml:"pinch_threshold"`
	MinZoom          float64       `toml:"min_zoom"`
	MaxZoom          float64       `toml:"max_zoom"`

	// MultiSelect enables additive selection. When disabled, multi-select
	// requests degrade to single-select semantics.
	MultiSelect bool `toml:"multi_select"`
}

// DefaultConfig returns the baseline gesture configuration.
func DefaultConfig() Config {
	return Config{
		DoubleTapWindow:  DefaultDoubleTapWindow,
		LongPressHold:    DefaultLongPressHold,
		PanStartDistance: DefaultPanStartDistance,
		PinchThreshold:   DefaultPinchThreshold,
		MinZoom:          DefaultMinZoom,
		MaxZoom:          DefaultMaxZoom,
	}
}

// ValidateAndSetDefaults checks the configuration for usability and fills
// zero-valued fields with defaults.
func (c *Config) ValidateAndSetDefaults() error {
	def := DefaultConfig()
	if c.DoubleTapWindow == 0 {
		c.DoubleTapWindow = def.DoubleTapWindow
	}
	if c.LongPressHold == 0 {
		c.LongPressHold = def.LongPressHold
	}
	if c.PanStartDistance == 0 {
		c.PanStartDistance = def.PanStartDistance
	}
	if c.PinchThreshold == 0 {
		c.PinchThreshold = def.PinchThreshold
	}
	if c.MinZoom == 0 {
		c.MinZoom = def.MinZoom
	}
	if c.MaxZoom == 0 {
		c.MaxZoom = def.MaxZoom
	}

	switch {
	case c.DoubleTapWindow < 0:
		return errors.New(errors.ErrCodeInvalidGestureConf, "double_tap_window must not be negative")
	case c.LongPressHold < 0:
		return errors.New(errors.ErrCodeInvalidGestureConf, "long_press_hold must not be negative")
	case c.PanStartDistance < 0:
		return errors.New(errors.ErrCodeInvalidGestureConf, "pan_start_distance must not be negative")
	case c.PinchThreshold <= 0 || c.PinchThreshold >= 1:
		return errors.New(errors.ErrCodeInvalidGestureConf, "pinch_threshold %f must be in (0, 1)", c.PinchThreshold)
	case c.MinZoom <= 0 || c.MaxZoom <= c.MinZoom:
		return errors.New(errors.ErrCodeInvalidGestureConf, "zoom bounds [%f, %f] invalid", c.MinZoom, c.MaxZoom)
	}
	return nil
}

// clampZoom clamps a scale to the configured zoom bounds.
func (c Config) clampZoom(scale float64) float64 {
	if scale < c.MinZoom {
		return c.MinZoom
	}
	if scale > c.MaxZoom {
		return c.MaxZoom
	}
	return scale
}

package layout

import (
	"time"

	"github.com/artatlas/artgraph/pkg/errors"
	"github.com/artatlas/artgraph/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for Engine, CLI, and API
// =============================================================================

const (
	// DefaultAlpha is the simulation's starting temperature.
	DefaultAlpha = 1.0

	// DefaultAlphaMin is the temperature below which the simulation is
	// considered stabilized.
	DefaultAlphaMin = 0.001

	// DefaultAlphaDecay is the per-tick fractional temperature decay.
	// The default reaches AlphaMin after roughly 300 ticks.
	DefaultAlphaDecay = 0.0228

	// DefaultVelocityDecay damps velocity each tick to suppress oscillation.
	DefaultVelocityDecay = 0.4

	// DefaultMaxTicks bounds the tick count of a single simulation run.
	DefaultMaxTicks = 500

	// DefaultMaxDuration bounds the wall-clock time of a single run.
	// Matches the processing guard used by the graph service.
	DefaultMaxDuration = 5 * time.Second

	// DefaultLinkDistance is the rest length of relationship springs.
	DefaultLinkDistance = 90.0

	// DefaultTouchTarget is the minimum touch target diameter in layout
	// units, per mobile accessibility guidelines.
	DefaultTouchTarget = 44.0

	// DefaultTouchFactor enlarges collision radii beyond the visual radius
	// so adjacent nodes stay comfortably tappable.
	DefaultTouchFactor = 1.25

	// DefaultMinSeparation is the minimum arc spacing between seeded
	// neighbors on the same ring.
	DefaultMinSeparation = 60.0

	// DefaultCenterStrength controls how firmly the position centroid is
	// pulled toward the viewport center each tick.
	DefaultCenterStrength = 0.1
)

// chargeByWeight maps weight classes to repulsion charge magnitudes. Primary
// entities keep the most breathing room.
var chargeByWeight = map[graph.WeightClass]float64{
	graph.WeightPrimary:   180,
	graph.WeightSecondary: 120,
	graph.WeightTertiary:  80,
}

// Config tunes the force simulation. The zero value is not usable; obtain a
// baseline with DefaultConfig and override fields as needed.
type Config struct {
	Alpha          float64       `toml:"alpha"`
	AlphaMin       float64       `toml:"alpha_min"`
	AlphaDecay     float64       `toml:"alpha_decay"`
	VelocityDecay  float64       `toml:"velocity_decay"`
	MaxTicks       int           `toml:"max_ticks"`
	MaxDuration    time.Duration `toml:"max_duration"`
	LinkDistance   float64       `toml:"link_distance"`
	TouchTarget    float64       `toml:"touch_target"`
	TouchFactor    float64       `toml:"touch_factor"`
	MinSeparation  float64       `toml:"min_separation"`
	CenterStrength float64       `toml:"center_strength"`

	// DeviceScale multiplies touch target sizes for high-DPI surfaces.
	DeviceScale float64 `toml:"device_scale"`

	// PreservePositions keeps positions of node ids that survive a snapshot
	// replacement instead of reseeding them.
	PreservePositions bool `toml:"preserve_positions"`
}

// DefaultConfig returns the baseline simulation configuration.
func DefaultConfig() Config {
	return Config{
		Alpha:             DefaultAlpha,
		AlphaMin:          DefaultAlphaMin,
		AlphaDecay:        DefaultAlphaDecay,
		VelocityDecay:     DefaultVelocityDecay,
		MaxTicks:          DefaultMaxTicks,
		MaxDuration:       DefaultMaxDuration,
		LinkDistance:      DefaultLinkDistance,
		TouchTarget:       DefaultTouchTarget,
		TouchFactor:       DefaultTouchFactor,
		MinSeparation:     DefaultMinSeparation,
		CenterStrength:    DefaultCenterStrength,
		DeviceScale:       1.0,
		PreservePositions: true,
	}
}

// ValidateAndSetDefaults checks the configuration for usability and fills
// zero-valued fields with defaults.
func (c *Config) ValidateAndSetDefaults() error {
	def := DefaultConfig()
	if c.Alpha == 0 {
		c.Alpha = def.Alpha
	}
	if c.AlphaMin == 0 {
		c.AlphaMin = def.AlphaMin
	}
	if c.AlphaDecay == 0 {
		c.AlphaDecay = def.AlphaDecay
	}
	if c.VelocityDecay == 0 {
		c.VelocityDecay = def.VelocityDecay
	}
	if c.MaxTicks == 0 {
		c.MaxTicks = def.MaxTicks
	}
	if c.MaxDuration == 0 {
		c.MaxDuration = def.MaxDuration
	}
	if c.LinkDistance == 0 {
		c.LinkDistance = def.LinkDistance
	}
	if c.TouchTarget == 0 {
		c.TouchTarget = def.TouchTarget
	}
	if c.TouchFactor == 0 {
		c.TouchFactor = def.TouchFactor
	}
	if c.MinSeparation == 0 {
		c.MinSeparation = def.MinSeparation
	}
	if c.CenterStrength == 0 {
		c.CenterStrength = def.CenterStrength
	}
	if c.DeviceScale == 0 {
		c.DeviceScale = def.DeviceScale
	}

	switch {
	case c.Alpha < 0 || c.Alpha > 10:
		return errors.New(errors.ErrCodeInvalidLayoutConf, "alpha %f out of range", c.Alpha)
	case c.AlphaMin <= 0 || c.AlphaMin >= c.Alpha:
		return errors.New(errors.ErrCodeInvalidLayoutConf, "alpha_min %f must be in (0, alpha)", c.AlphaMin)
	case c.AlphaDecay <= 0 || c.AlphaDecay >= 1:
		return errors.New(errors.ErrCodeInvalidLayoutConf, "alpha_decay %f must be in (0, 1)", c.AlphaDecay)
	case c.VelocityDecay < 0 || c.VelocityDecay >= 1:
		return errors.New(errors.ErrCodeInvalidLayoutConf, "velocity_decay %f must be in [0, 1)", c.VelocityDecay)
	case c.MaxTicks < 1:
		return errors.New(errors.ErrCodeInvalidLayoutConf, "max_ticks must be positive")
	case c.MaxDuration < 0:
		return errors.New(errors.ErrCodeInvalidLayoutConf, "max_duration must not be negative")
	}
	return nil
}

// chargeFor returns the repulsion charge for a weight class.
func chargeFor(w graph.WeightClass) float64 {
	if c, ok := chargeByWeight[w]; ok {
		return c
	}
	return chargeByWeight[graph.WeightTertiary]
}

// touchRadius returns the collision radius for a node: half the touch target
// diameter scaled by importance and device scale, enlarged by the touch
// factor, and never below the accessibility minimum.
func (c Config) touchRadius(n *graph.Node) float64 {
	d := c.TouchTarget * n.Importance() * c.DeviceScale
	if d < DefaultTouchTarget {
		d = DefaultTouchTarget
	}
	return d / 2 * c.TouchFactor
}

package postfx

import "fmt"

// BloomBlendMode selects how the bloom pass is blended over the scene.
type BloomBlendMode int

const (
	// BloomBlendAdd adds the bloom color to the scene color.
	BloomBlendAdd BloomBlendMode = iota

	// BloomBlendScreen applies componentwise screen blending.
	BloomBlendScreen

	// BloomBlendSoftLight applies soft-light blending.
	BloomBlendSoftLight
)

// String returns the blend mode name.
func (m BloomBlendMode) String() string {
	switch m {
	case BloomBlendAdd:
		return "Add"
	case BloomBlendScreen:
		return "Screen"
	case BloomBlendSoftLight:
		return "SoftLight"
	default:
		return "Unknown"
	}
}

// BloomConfig configures the bloom effect.
//
// Enabled and BlendMode are hot; Threshold, Strength and Radius are cold
// and only take effect after Pipeline.Rebuild.
type BloomConfig struct {
	// Enabled toggles the effect. Hot.
	Enabled bool `json:"enabled"`

	// BlendMode selects how bloom combines with the scene. Hot.
	BlendMode BloomBlendMode `json:"blendMode"`

	// Threshold is the luminance above which pixels feed the bloom
	// bright-pass. Cold.
	Threshold float32 `json:"threshold"`

	// Strength scales the accumulated bloom color. Cold.
	Strength float32 `json:"strength"`

	// Radius is the gaussian blur radius of the bloom spread, in pixels.
	// Cold.
	Radius float32 `json:"radius"`
}

// RadialFocusConfig configures the radial focus (tilt-shift style) effect:
// sharp at the configured center, blurred toward the periphery.
//
// Everything except BlurStrength is hot.
type RadialFocusConfig struct {
	// Enabled toggles the effect. Hot.
	Enabled bool `json:"enabled"`

	// CenterX, CenterY locate the focus center in normalized UV
	// coordinates (0..1, top-left origin). Hot.
	CenterX float32 `json:"centerX"`
	CenterY float32 `json:"centerY"`

	// Radius is the normalized distance below which the image stays
	// fully sharp. Hot.
	Radius float32 `json:"radius"`

	// Falloff shapes the sharp-to-blurred transition; higher values
	// push the blur toward the far edge. Hot.
	Falloff float32 `json:"falloff"`

	// BlurStrength is the gaussian radius, in pixels, of the blurred
	// image the mask reveals. Cold.
	BlurStrength float32 `json:"blurStrength"`
}

// ChromaticAberrationConfig configures the radial chromatic aberration
// effect: channel fringing that intensifies toward the viewport edges.
//
// Enabled, EdgeIntensity and Falloff are hot; Strength and Angle are cold.
type ChromaticAberrationConfig struct {
	// Enabled toggles the effect. Hot.
	Enabled bool `json:"enabled"`

	// EdgeIntensity scales the radial mask. Hot.
	EdgeIntensity float32 `json:"edgeIntensity"`

	// Falloff is the exponent applied to the normalized distance before
	// scaling by EdgeIntensity. Hot.
	Falloff float32 `json:"falloff"`

	// Strength is the channel offset distance in pixels. Cold.
	Strength float32 `json:"strength"`

	// Angle is the offset direction in radians. Cold.
	Angle float32 `json:"angle"`
}

// Config is the full effect configuration consumed by Pipeline.Build.
type Config struct {
	Bloom      BloomConfig               `json:"bloom"`
	Focus      RadialFocusConfig         `json:"focus"`
	Aberration ChromaticAberrationConfig `json:"aberration"`
}

// DefaultConfig returns a configuration with all three effects enabled at
// moderate settings.
func DefaultConfig() Config {
	return Config{
		Bloom: BloomConfig{
			Enabled:   true,
			BlendMode: BloomBlendAdd,
			Threshold: 0.8,
			Strength:  0.6,
			Radius:    8,
		},
		Focus: RadialFocusConfig{
			Enabled:      true,
			CenterX:      0.5,
			CenterY:      0.5,
			Radius:       0.3,
			Falloff:      1.5,
			BlurStrength: 6,
		},
		Aberration: ChromaticAberrationConfig{
			Enabled:       true,
			EdgeIntensity: 0.5,
			Falloff:       2,
			Strength:      3,
			Angle:         0,
		},
	}
}

func (c *BloomConfig) validate() error {
	if c.BlendMode < BloomBlendAdd || c.BlendMode > BloomBlendSoftLight {
		return fmt.Errorf("postfx: invalid bloom blend mode %d", c.BlendMode)
	}
	if c.Radius < 0 {
		return fmt.Errorf("postfx: negative bloom radius %g", c.Radius)
	}
	return nil
}

func (c *RadialFocusConfig) validate() error {
	if c.BlurStrength < 0 {
		return fmt.Errorf("postfx: negative focus blur strength %g", c.BlurStrength)
	}
	return nil
}

func (c *ChromaticAberrationConfig) validate() error {
	if c.Strength < 0 {
		return fmt.Errorf("postfx: negative aberration strength %g", c.Strength)
	}
	return nil
}

// ParamClass classifies a configurable field as hot or cold.
type ParamClass int

const (
	// ParamHot values take effect on the next Render with no rebuild.
	ParamHot ParamClass = iota

	// ParamCold values are baked into pass construction and require a
	// Rebuild to take effect.
	ParamCold
)

// Partition is the declared hot/cold classification of every configurable
// field. It is part of the public contract: callers (and tests) can rely on
// hot fields never costing a rebuild and cold fields never applying without
// one.
var Partition = map[string]ParamClass{
	"bloom.enabled":            ParamHot,
	"bloom.blendMode":          ParamHot,
	"bloom.threshold":          ParamCold,
	"bloom.strength":           ParamCold,
	"bloom.radius":             ParamCold,
	"focus.enabled":            ParamHot,
	"focus.centerX":            ParamHot,
	"focus.centerY":            ParamHot,
	"focus.radius":             ParamHot,
	"focus.falloff":            ParamHot,
	"focus.blurStrength":       ParamCold,
	"aberration.enabled":       ParamHot,
	"aberration.edgeIntensity": ParamHot,
	"aberration.falloff":       ParamHot,
	"aberration.strength":      ParamCold,
	"aberration.angle":         ParamCold,
}

// BloomUpdate is a partial update of BloomConfig. Nil fields are left
// unchanged.
type BloomUpdate struct {
	Enabled   *bool
	BlendMode *BloomBlendMode
	Threshold *float32
	Strength  *float32
	Radius    *float32
}

// RadialFocusUpdate is a partial update of RadialFocusConfig.
type RadialFocusUpdate struct {
	Enabled      *bool
	CenterX      *float32
	CenterY      *float32
	Radius       *float32
	Falloff      *float32
	BlurStrength *float32
}

// ChromaticAberrationUpdate is a partial update of ChromaticAberrationConfig.
type ChromaticAberrationUpdate struct {
	Enabled       *bool
	EdgeIntensity *float32
	Falloff       *float32
	Strength      *float32
	Angle         *float32
}

// merge applies u to a copy of cfg and validates the result. The returned
// config is only meaningful when err is nil, keeping updates atomic.
func (u BloomUpdate) merge(cfg BloomConfig) (BloomConfig, error) {
	if u.Enabled != nil {
		cfg.Enabled = *u.Enabled
	}
	if u.BlendMode != nil {
		cfg.BlendMode = *u.BlendMode
	}
	if u.Threshold != nil {
		cfg.Threshold = *u.Threshold
	}
	if u.Strength != nil {
		cfg.Strength = *u.Strength
	}
	if u.Radius != nil {
		cfg.Radius = *u.Radius
	}
	return cfg, cfg.validate()
}

func (u RadialFocusUpdate) merge(cfg RadialFocusConfig) (RadialFocusConfig, error) {
	if u.Enabled != nil {
		cfg.Enabled = *u.Enabled
	}
	if u.CenterX != nil {
		cfg.CenterX = *u.CenterX
	}
	if u.CenterY != nil {
		cfg.CenterY = *u.CenterY
	}
	if u.Radius != nil {
		cfg.Radius = *u.Radius
	}
	if u.Falloff != nil {
		cfg.Falloff = *u.Falloff
	}
	if u.BlurStrength != nil {
		cfg.BlurStrength = *u.BlurStrength
	}
	return cfg, cfg.validate()
}

func (u ChromaticAberrationUpdate) merge(cfg ChromaticAberrationConfig) (ChromaticAberrationConfig, error) {
	if u.Enabled != nil {
		cfg.Enabled = *u.Enabled
	}
	if u.EdgeIntensity != nil {
		cfg.EdgeIntensity = *u.EdgeIntensity
	}
	if u.Falloff != nil {
		cfg.Falloff = *u.Falloff
	}
	if u.Strength != nil {
		cfg.Strength = *u.Strength
	}
	if u.Angle != nil {
		cfg.Angle = *u.Angle
	}
	return cfg, cfg.validate()
}

// Pointer helpers for building partial updates inline.

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Float returns a pointer to v.
func Float(v float32) *float32 { return &v }

// Blend returns a pointer to m.
func Blend(m BloomBlendMode) *BloomBlendMode { return &m }

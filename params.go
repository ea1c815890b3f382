package postfx

// ParameterSet is the compositor-resident mirror of the hot subset of all
// three effect configs. The composite stage reads only this struct, never
// the configs themselves; the Pipeline refreshes it on every hot update, so
// a change is visible to the next Render with no reconstruction.
//
// Values are stored as float32 scalars in the shape the composite math
// consumes: enabled flags as 0/1 weights and the blend mode as a continuous
// scalar fed to the branchless selector.
type ParameterSet struct {
	// BloomEnabled is 0 or 1.
	BloomEnabled float32

	// BloomMode is the continuous blend-mode scalar: values in [0.9, 1.1]
	// select screen, values at or above 1.9 select soft-light, anything
	// else selects additive blending.
	BloomMode float32

	// FocusEnabled is 0 or 1.
	FocusEnabled float32

	// FocusCenterX, FocusCenterY locate the focus center in UV space.
	FocusCenterX float32
	FocusCenterY float32

	// FocusRadius is the normalized distance kept fully sharp.
	FocusRadius float32

	// FocusFalloff is the exponent shaping the focus mask.
	FocusFalloff float32

	// CAEnabled is 0 or 1.
	CAEnabled float32

	// CAEdgeIntensity scales the aberration mask.
	CAEdgeIntensity float32

	// CAFalloff is the exponent applied to the normalized distance.
	CAFalloff float32
}

// NewParameterSet builds a ParameterSet mirroring cfg's hot fields.
// Most callers never need this; the Pipeline maintains its own set. It is
// exported for custom CompositeBackend implementations and their tests.
func NewParameterSet(cfg Config) *ParameterSet {
	p := &ParameterSet{}
	p.syncBloom(cfg.Bloom)
	p.syncFocus(cfg.Focus)
	p.syncAberration(cfg.Aberration)
	return p
}

func (p *ParameterSet) syncBloom(cfg BloomConfig) {
	p.BloomEnabled = boolWeight(cfg.Enabled)
	p.BloomMode = float32(cfg.BlendMode)
}

func (p *ParameterSet) syncFocus(cfg RadialFocusConfig) {
	p.FocusEnabled = boolWeight(cfg.Enabled)
	p.FocusCenterX = cfg.CenterX
	p.FocusCenterY = cfg.CenterY
	p.FocusRadius = cfg.Radius
	p.FocusFalloff = cfg.Falloff
}

func (p *ParameterSet) syncAberration(cfg ChromaticAberrationConfig) {
	p.CAEnabled = boolWeight(cfg.Enabled)
	p.CAEdgeIntensity = cfg.EdgeIntensity
	p.CAFalloff = cfg.Falloff
}

func boolWeight(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

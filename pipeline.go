package postfx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Common errors returned by Pipeline operations.
var (
	// ErrNotBuilt is returned when Render or an update is called before
	// Build has succeeded.
	ErrNotBuilt = errors.New("postfx: pipeline is not built")

	// ErrDisposed is returned when operating on a disposed pipeline.
	ErrDisposed = errors.New("postfx: pipeline is disposed")

	// ErrRenderInFlight is returned when Render is called while a prior
	// Render call has not returned. Overlapping calls are a caller error;
	// the pipeline does not serialize them.
	ErrRenderInFlight = errors.New("postfx: render already in flight")

	// ErrNilFrameSource is returned when a pipeline is created without a
	// frame source.
	ErrNilFrameSource = errors.New("postfx: nil frame source")
)

// FrameSource produces one linear-HDR scene image per frame.
//
// Contract: the produced pixels must be linear, untonemapped HDR. An
// upstream renderer must disable its own tone mapping and gamma encoding
// while feeding a compositor; the composited output is tone-mapped by the
// downstream consumer instead.
type FrameSource interface {
	// RenderScene renders the current frame into dst.
	RenderScene(ctx context.Context, dst *FrameBuffer) error
}

// CompositeBackend evaluates the composite stage over full frames.
// The default backend runs CompositeColor on the CPU; the gpu package
// provides a WebGPU-backed implementation.
type CompositeBackend interface {
	// Composite blends the scene and the three pass images into dst
	// using the current parameter set.
	Composite(dst, scene, bloom, blurred, shifted *FrameBuffer, p *ParameterSet) error

	// Resize prepares backend resources for a new viewport size.
	Resize(width, height int) error

	// Destroy releases backend resources.
	Destroy()
}

// pipelineState tracks the Pipeline lifecycle.
type pipelineState int

const (
	stateUnbuilt pipelineState = iota
	stateBuilt
	stateDisposed
)

func (s pipelineState) String() string {
	switch s {
	case stateUnbuilt:
		return "Unbuilt"
	case stateBuilt:
		return "Built"
	case stateDisposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

// FrameStats holds per-stage durations of the last rendered frame.
type FrameStats struct {
	// Scene is the time spent in FrameSource.RenderScene.
	Scene time.Duration

	// Passes is the wall time of the concurrent effect passes.
	Passes time.Duration

	// Composite is the time spent in the composite stage.
	Composite time.Duration

	// Total is the full Render duration.
	Total time.Duration
}

// Option configures a Pipeline during creation.
type Option func(*pipelineOptions)

type pipelineOptions struct {
	workers int
	backend CompositeBackend
}

// WithWorkers sets the number of goroutines used by per-pixel stages.
// Zero (the default) uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *pipelineOptions) {
		o.workers = n
	}
}

// WithBackend sets a custom composite backend, e.g. gpu.NewCompositor.
// The backend's Resize is called during Build and Resize; a Resize failure
// during Build fails the build.
func WithBackend(b CompositeBackend) Option {
	return func(o *pipelineOptions) {
		o.backend = b
	}
}

// Pipeline wires a FrameSource through the three effect passes and the
// composite stage, and owns every buffer involved.
//
// Lifecycle: Unbuilt -> Built (via Build) -> Disposed (via Dispose,
// terminal). Rebuild tears down and reconstructs the pass graph in place,
// applying any cold config values stored by earlier updates.
//
// Pipeline is driven by an external per-frame tick: exactly one Render call
// per displayed frame, never overlapping. Hot updates may be issued from
// the controlling goroutine at any time between frames and take effect on
// the next Render.
type Pipeline struct {
	mu sync.Mutex

	source FrameSource
	opts   pipelineOptions

	state pipelineState

	cfg    Config
	params *ParameterSet

	bloom  *bloomPass
	blur   *radialBlurPass
	shift  *chanShiftPass
	passes []EffectPass

	scene *FrameBuffer
	out   *FrameBuffer

	width  int
	height int

	inFlight atomic.Bool
	last     FrameStats
}

// NewPipeline creates an unbuilt pipeline reading frames from source.
func NewPipeline(source FrameSource, options ...Option) *Pipeline {
	opts := pipelineOptions{}
	for _, o := range options {
		o(&opts)
	}
	return &Pipeline{
		source: source,
		opts:   opts,
	}
}

// Build constructs the pass graph for the given viewport size and full
// (hot + cold) config, and transitions the pipeline to Built.
//
// On failure nothing is retained: the pipeline rolls back to Unbuilt with
// no partially-constructed resources referenced.
func (p *Pipeline) Build(width, height int, cfg Config) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == stateDisposed {
		return ErrDisposed
	}
	if p.source == nil {
		return ErrNilFrameSource
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("postfx: invalid viewport size: %dx%d", width, height)
	}
	if err := cfg.Bloom.validate(); err != nil {
		return err
	}
	if err := cfg.Focus.validate(); err != nil {
		return err
	}
	if err := cfg.Aberration.validate(); err != nil {
		return err
	}

	if p.state == stateBuilt {
		p.destroyGraphLocked()
		p.state = stateUnbuilt
	}

	if p.opts.backend != nil {
		if err := p.opts.backend.Resize(width, height); err != nil {
			return fmt.Errorf("postfx: backend init: %w", err)
		}
	}

	p.cfg = cfg
	p.width = width
	p.height = height
	p.scene = NewFrameBuffer(width, height)
	p.out = NewFrameBuffer(width, height)
	p.bloom = newBloomPass(width, height, cfg.Bloom, p.opts.workers)
	p.blur = newRadialBlurPass(width, height, cfg.Focus, p.opts.workers)
	p.shift = newChanShiftPass(width, height, cfg.Aberration, p.opts.workers)
	p.passes = []EffectPass{p.bloom, p.blur, p.shift}
	p.params = NewParameterSet(cfg)
	p.state = stateBuilt

	Logger().Info("postfx: pipeline built",
		"width", width, "height", height,
		"bloom", cfg.Bloom.Enabled, "focus", cfg.Focus.Enabled,
		"aberration", cfg.Aberration.Enabled)
	return nil
}

// Rebuild reconstructs the pass graph from the stored config, applying any
// cold parameter values accepted by earlier update calls. Hot values and
// viewport size are preserved. Rebuilds are expensive; they never happen
// implicitly on an update.
func (p *Pipeline) Rebuild() error {
	p.mu.Lock()
	switch p.state {
	case stateDisposed:
		p.mu.Unlock()
		return ErrDisposed
	case stateUnbuilt:
		p.mu.Unlock()
		return ErrNotBuilt
	}
	width, height, cfg := p.width, p.height, p.cfg
	p.destroyGraphLocked()
	p.state = stateUnbuilt
	p.mu.Unlock()

	return p.Build(width, height, cfg)
}

// Render produces one composited frame: the frame source renders the scene,
// the three effect passes derive their images concurrently, and the
// composite stage blends all four into the output buffer.
//
// Render must not be called again while a prior call is still running;
// overlapping calls return ErrRenderInFlight. A transient failure (frame
// source or backend error) is reported for this frame only; the pipeline
// stays Built and the caller decides whether to rebuild.
func (p *Pipeline) Render(ctx context.Context) error {
	if !p.inFlight.CompareAndSwap(false, true) {
		return ErrRenderInFlight
	}
	defer p.inFlight.Store(false)

	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case stateDisposed:
		return ErrDisposed
	case stateUnbuilt:
		return ErrNotBuilt
	}

	start := time.Now()

	if err := p.source.RenderScene(ctx, p.scene); err != nil {
		return fmt.Errorf("postfx: scene render: %w", err)
	}
	p.last.Scene = time.Since(start)

	// The passes only read the scene buffer; run them concurrently and
	// keep the first error.
	passStart := time.Now()
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for _, pass := range p.passes {
		wg.Add(1)
		go func(pass EffectPass) {
			defer wg.Done()
			if err := pass.Process(ctx, p.scene); err != nil {
				errOnce.Do(func() { firstErr = err })
			}
		}(pass)
	}
	wg.Wait()
	if firstErr != nil {
		return fmt.Errorf("postfx: effect pass: %w", firstErr)
	}
	p.last.Passes = time.Since(passStart)

	compositeStart := time.Now()
	if p.opts.backend != nil {
		err := p.opts.backend.Composite(
			p.out, p.scene, p.bloom.Output(), p.blur.Output(), p.shift.Output(), p.params)
		if err != nil {
			return fmt.Errorf("postfx: composite: %w", err)
		}
	} else {
		Composite(p.out, p.scene, p.bloom.Output(), p.blur.Output(), p.shift.Output(),
			p.params, p.opts.workers)
	}
	p.last.Composite = time.Since(compositeStart)
	p.last.Total = time.Since(start)

	Logger().Debug("postfx: frame rendered",
		"scene", p.last.Scene, "passes", p.last.Passes,
		"composite", p.last.Composite)
	return nil
}

// Output returns the composited frame buffer. Contents are valid after a
// successful Render and until the next Render, Resize or Dispose. The
// colors are linear HDR; tone mapping is the consumer's job.
func (p *Pipeline) Output() *FrameBuffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out
}

// LastFrameStats returns the per-stage timings of the last rendered frame.
func (p *Pipeline) LastFrameStats() FrameStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Resize reallocates viewport-sized buffers in place. The stored config,
// cold parameters included, is preserved; Resize is not a rebuild of cold
// parameters, it only swaps buffers.
func (p *Pipeline) Resize(width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case stateDisposed:
		return ErrDisposed
	case stateUnbuilt:
		return ErrNotBuilt
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("postfx: invalid viewport size: %dx%d", width, height)
	}

	if p.opts.backend != nil {
		if err := p.opts.backend.Resize(width, height); err != nil {
			return fmt.Errorf("postfx: backend resize: %w", err)
		}
	}

	p.width = width
	p.height = height
	p.scene = NewFrameBuffer(width, height)
	p.out = NewFrameBuffer(width, height)
	for _, pass := range p.passes {
		pass.Resize(width, height)
	}
	return nil
}

// UpdateBloom merges a partial bloom update into the stored config.
// Hot fields (Enabled, BlendMode) reach the parameter set immediately;
// cold fields are stored but take effect only after Rebuild. The merge is
// atomic: on validation failure nothing is changed.
func (p *Pipeline) UpdateBloom(u BloomUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkUpdatableLocked(); err != nil {
		return err
	}
	merged, err := u.merge(p.cfg.Bloom)
	if err != nil {
		return err
	}
	p.cfg.Bloom = merged
	p.params.syncBloom(merged)
	return nil
}

// UpdateRadialFocus merges a partial radial focus update. Everything except
// BlurStrength is hot.
func (p *Pipeline) UpdateRadialFocus(u RadialFocusUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkUpdatableLocked(); err != nil {
		return err
	}
	merged, err := u.merge(p.cfg.Focus)
	if err != nil {
		return err
	}
	p.cfg.Focus = merged
	p.params.syncFocus(merged)
	return nil
}

// UpdateRadialAberration merges a partial chromatic aberration update.
// Strength and Angle are cold; the rest is hot.
func (p *Pipeline) UpdateRadialAberration(u ChromaticAberrationUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkUpdatableLocked(); err != nil {
		return err
	}
	merged, err := u.merge(p.cfg.Aberration)
	if err != nil {
		return err
	}
	p.cfg.Aberration = merged
	p.params.syncAberration(merged)
	return nil
}

// Config returns a copy of the stored config, including cold values that
// have been accepted but not yet applied by a Rebuild.
func (p *Pipeline) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// Dispose releases all resources and transitions the pipeline to its
// terminal state. Safe to call after a Render has been awaited, and
// idempotent: repeated calls are no-ops.
func (p *Pipeline) Dispose() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == stateDisposed {
		return
	}
	p.destroyGraphLocked()
	if p.opts.backend != nil {
		p.opts.backend.Destroy()
	}
	p.state = stateDisposed
	Logger().Info("postfx: pipeline disposed")
}

func (p *Pipeline) checkUpdatableLocked() error {
	switch p.state {
	case stateDisposed:
		return ErrDisposed
	case stateUnbuilt:
		return ErrNotBuilt
	}
	return nil
}

func (p *Pipeline) destroyGraphLocked() {
	for _, pass := range p.passes {
		pass.Destroy()
	}
	p.passes = nil
	p.bloom = nil
	p.blur = nil
	p.shift = nil
	p.scene = nil
	p.out = nil
	p.params = nil
}

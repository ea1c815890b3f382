// Package postfx provides a post-processing compositor for linear-HDR frames.
//
// # Overview
//
// postfx takes a rendered scene image (linear, untonemapped HDR) and blends
// it with three derived effect passes (bloom, radial blur and channel
// shift) into a final linear-HDR frame. The composite applies a branchless
// blend-mode selector for bloom and two distance-based radial masks (focus
// and chromatic aberration), evaluated independently per output pixel.
//
// # Quick Start
//
//	src := myFrameSource{} // implements postfx.FrameSource
//	p := postfx.NewPipeline(src)
//
//	if err := p.Build(640, 360, postfx.DefaultConfig()); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Dispose()
//
//	// Once per displayed frame:
//	if err := p.Render(ctx); err != nil {
//	    log.Printf("render failed: %v", err)
//	}
//	frame := p.Output() // linear HDR, tone-map downstream
//
// # Hot and cold parameters
//
// Every configurable value is classified exactly once as hot or cold.
// Hot values (enabled flags, blend mode, focus center/radius/falloff,
// aberration edge intensity/falloff) take effect on the next Render call
// with no reconstruction. Cold values (bloom threshold/strength/radius,
// blur strength, aberration strength/angle) are baked into the effect
// passes at construction; updates store them but they have no effect on
// rendered output until an explicit Rebuild. Update calls never rebuild
// implicitly.
//
// # Color space
//
// The compositor consumes and produces linear HDR. The upstream renderer
// must disable its own tone mapping and gamma encoding while the compositor
// is active; tone mapping the output is the downstream consumer's job.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Pipeline, FrameBuffer, effect configs, CompositeColor
//   - Passes: bloom, radial blur, channel shift (independent, scene-fed)
//   - Internal: kernel (gaussian kernels), parallel (row worker pool)
//   - Backend: gpu/ (WebGPU compositor via gogpu/wgpu and gogpu/naga)
package postfx

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)

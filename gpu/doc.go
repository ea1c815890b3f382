// Package gpu provides a WebGPU-backed composite backend for postfx.
//
// The Compositor compiles the composite shader (WGSL, compiled to SPIR-V
// via gogpu/naga) and builds the full wgpu/hal compute pipeline: bind group
// layouts for the uniform parameter block, the four input images and the
// output image, the pipeline layout, and the compute pipeline itself.
//
// GPU dispatch requires buffer binding support that the HAL does not expose
// yet; until it lands, Composite evaluates the exact CPU mirror of the
// shader (postfx.Composite), so results are identical either way and the
// GPU resource lifecycle is fully exercised.
//
// The device is always provided by the host application; the package never
// creates its own GPU instance. Pass hal handles directly to NewCompositor,
// or a shared gpucontext.DeviceProvider to NewCompositorFromProvider.
package gpu

package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (e.g. a gogpu.App) implements the provider and passes it to
// NewCompositorFromProvider, so the compositor shares the application's
// device instead of creating one. DeviceHandle is an alias for
// gpucontext.DeviceProvider, keeping full compatibility with the
// gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// PresentTextureDescriptor describes the texture a host should allocate to
// present composited output. The compositor itself works in storage buffers
// holding linear HDR; presentation happens after the host tone-maps, so the
// surface format is standard 8-bit RGBA.
type PresentTextureDescriptor struct {
	// Label is an optional debug label for the texture.
	Label string

	// Width, Height are the viewport dimensions in pixels.
	Width  uint32
	Height uint32

	// Format is the texture pixel format.
	Format gputypes.TextureFormat
}

// DefaultPresentTextureDescriptor returns a descriptor for a standard
// presentation texture at the given size.
func DefaultPresentTextureDescriptor(width, height uint32) PresentTextureDescriptor {
	return PresentTextureDescriptor{
		Label:  "postfx_present",
		Width:  width,
		Height: height,
		Format: gputypes.TextureFormatRGBA8Unorm,
	}
}

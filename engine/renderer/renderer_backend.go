package renderer

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RenderTarget is where the renderer draws to. window.Window satisfies it; Offscreen returns a
// target without a surface.
type RenderTarget interface {
	// SurfaceDescriptor returns the platform surface descriptor, nil for offscreen rendering.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

type offscreenTarget struct {
	width, height int
}

func (o offscreenTarget) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (o offscreenTarget) Width() int                                 { return o.width }
func (o offscreenTarget) Height() int                                { return o.height }

// Offscreen returns a render target of the given size that is not attached to a window.
// Frames are rendered into an RGBA8 texture and Present does nothing.
//
// Parameters:
//   - width: the target width in pixels
//   - height: the target height in pixels
//
// Returns:
//   - RenderTarget: the offscreen target
func Offscreen(width, height int) RenderTarget {
	return offscreenTarget{width: width, height: height}
}

// GroupBinding is one bind group set for a draw call: the provider bound at its schema's group
// index and the dynamic offsets of its dynamic uniform slots in binding order.
type GroupBinding struct {
	Provider       bind_group_provider.BindGroupProvider
	DynamicOffsets []uint32
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

package camera

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraBuilderOption is a functional option used to configure a Camera during construction.
type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the eye position.
//
// Parameters:
//   - p: the eye position in world space
//
// Returns:
//   - CameraBuilderOption: a function that applies the position option to the camera
func WithPosition(p mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = p
	}
}

// WithTarget sets the look-at target.
//
// Parameters:
//   - t: the target in world space
//
// Returns:
//   - CameraBuilderOption: a function that applies the target option to the camera
func WithTarget(t mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.target = t
	}
}

// WithUp sets the camera's up vector.
//
// Parameters:
//   - up: the up vector
//
// Returns:
//   - CameraBuilderOption: a function that applies the up vector option to the camera
func WithUp(up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = up
	}
}

// WithPerspective selects a perspective projection.
//
// Parameters:
//   - fov: the vertical field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that applies the projection option to the camera
func WithPerspective(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = ProjectionPerspective
		c.fov = fov
	}
}

// WithOrthographic selects an orthographic projection.
//
// Parameters:
//   - height: the number of world units covered by the viewport height
//
// Returns:
//   - CameraBuilderOption: a function that applies the projection option to the camera
func WithOrthographic(height float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = ProjectionOrthographic
		c.orthoHeight = height
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: the near plane distance
//   - far: the far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that applies the clip planes option to the camera
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithViewport sets the viewport rectangle in pixels.
//
// Parameters:
//   - x, y, width, height: the rectangle
//
// Returns:
//   - CameraBuilderOption: a function that applies the viewport option to the camera
func WithViewport(x, y, width, height float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.viewport = mgl32.Vec4{x, y, width, height}
	}
}

// WithBindGroupProvider sets the bind group provider for the camera.
//
// Parameters:
//   - provider: the bind group provider to use
//
// Returns:
//   - CameraBuilderOption: a function that applies the bind group provider option to the camera
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bindGroupProvider = provider
	}
}

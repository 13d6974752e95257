package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

// clipCorrection maps the OpenGL clip depth range [-1, 1] produced by mgl32 onto WebGPU's [0, 1].
var clipCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Projection selects how the camera projects view space.
type Projection int

const (
	ProjectionPerspective Projection = iota
	// ProjectionOrthographic maps OrthoHeight world units onto the viewport height, the usual
	// choice for sprites.
	ProjectionOrthographic
)

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	projection  Projection
	fov         float32
	orthoHeight float32
	near        float32
	far         float32
	viewport    mgl32.Vec4

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera is the view collaborator: it holds the eye, the projection settings and the viewport,
// and produces the group 1 view uniform once per frame.
type Camera interface {
	// Position returns the eye position in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Target returns the point the camera looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the look-at target
	Target() mgl32.Vec3

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// Projection returns the projection mode.
	//
	// Returns:
	//   - Projection: perspective or orthographic
	Projection() Projection

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the viewport aspect ratio (width / height), 1 for an empty viewport.
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Viewport returns the viewport rectangle in pixels.
	//
	// Returns:
	//   - mgl32.Vec4: x, y, width, height
	Viewport() mgl32.Vec4

	// ViewMatrix returns the world-to-view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the view-to-clip matrix with WebGPU depth range.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// Uniform builds the group 1 view uniform from the current state.
	//
	// Returns:
	//   - GPUViewUniform: the view uniform
	Uniform() GPUViewUniform

	// SetPosition moves the eye.
	//
	// Parameters:
	//   - p: the eye position
	SetPosition(p mgl32.Vec3)

	// SetTarget changes the look-at target.
	//
	// Parameters:
	//   - t: the target
	SetTarget(t mgl32.Vec3)

	// SetViewport sets the viewport rectangle, which also sets the aspect ratio.
	//
	// Parameters:
	//   - x, y, width, height: the rectangle in pixels
	SetViewport(x, y, width, height float32)

	// BindGroupProvider returns the provider holding the view uniform buffer.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider replaces the provider holding the view uniform buffer.
	//
	// Parameters:
	//   - provider: the provider
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with the provided options. The default camera is a perspective
// camera at (0, 0, 3) looking at the origin with a 45 degree field of view.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		position:    mgl32.Vec3{0, 0, 3},
		up:          mgl32.Vec3{0, 1, 0},
		fov:         mgl32.DegToRad(45),
		orthoHeight: 2,
		near:        0.1,
		far:         100.0,
		viewport:    mgl32.Vec4{0, 0, 1, 1},
	}
	for _, option := range options {
		option(c)
	}
	if c.bindGroupProvider == nil {
		c.bindGroupProvider = bind_group_provider.NewBindGroupProvider(
			bind_group_provider.WithLabel("camera_"+strconv.FormatUint(cameraCount.Load(), 10)),
			bind_group_provider.WithSchema(material.ViewSchema()),
		)
	}
	cameraCount.Add(1)
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect()
}

func (c *cameraImpl) Viewport() mgl32.Vec4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix()
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix()
}

func (c *cameraImpl) Uniform() GPUViewUniform {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := c.viewMatrix()
	proj := c.projectionMatrix()
	viewProj := proj.Mul4(view)
	return GPUViewUniform{
		ViewProj:          viewProj,
		InverseViewProj:   viewProj.Inv(),
		View:              view,
		InverseView:       view.Inv(),
		Projection:        proj,
		InverseProjection: proj.Inv(),
		WorldPosition:     c.position,
		Viewport:          c.viewport,
	}
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
}

func (c *cameraImpl) SetTarget(t mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = t
}

func (c *cameraImpl) SetViewport(x, y, width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport = mgl32.Vec4{x, y, width, height}
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

func (c *cameraImpl) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindGroupProvider = provider
}

// aspect derives the aspect ratio from the viewport. Caller must hold the mutex.
func (c *cameraImpl) aspect() float32 {
	if c.viewport.W() <= 0 || c.viewport.Z() <= 0 {
		return 1
	}
	return c.viewport.Z() / c.viewport.W()
}

// viewMatrix computes the look-at matrix. Caller must hold the mutex.
func (c *cameraImpl) viewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.target, c.up)
}

// projectionMatrix computes the projection for the current mode. Caller must hold the mutex.
func (c *cameraImpl) projectionMatrix() mgl32.Mat4 {
	aspect := c.aspect()
	if c.projection == ProjectionOrthographic {
		halfH := c.orthoHeight / 2
		halfW := halfH * aspect
		return clipCorrection.Mul4(mgl32.Ortho(-halfW, halfW, -halfH, halfH, c.near, c.far))
	}
	return clipCorrection.Mul4(mgl32.Perspective(c.fov, aspect, c.near, c.far))
}

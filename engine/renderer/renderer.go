package renderer

import (
	"slices"
	"strconv"
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/camera"
	"github.com/Carmen-Shannon/oxy-bind/engine/model"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pipeline"
	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	pipelines   pipeline.Cache

	// modelProvider holds the model uniform of every model, one dynamic-offset slot per Model.Slot
	modelProvider bind_group_provider.BindGroupProvider
	// owned are providers created by the renderer, released with it
	owned []bind_group_provider.BindGroupProvider

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *wgpu.Color
	cacheOptions         []pipeline.CacheBuilderOption
	modelCapacity        int
}

// Renderer draws models with the pipelines their materials resolve to.
//
// Pipelines are compiled through a pipeline.Cache, so every distinct material variant is compiled
// once no matter how many materials or models use it. Bind groups follow the fixed group
// convention: group 0 holds the model uniform, group 1 the camera's view uniform, and groups 2
// and up the material's resources.
type Renderer interface {
	// Pipelines returns the pipeline cache the renderer compiles through.
	//
	// Returns:
	//   - pipeline.Cache: the cache
	Pipelines() pipeline.Cache

	// Pipeline returns the pipeline of a material variant, compiling it on first use.
	//
	// Parameters:
	//   - v: the material variant
	//
	// Returns:
	//   - pipeline.Pipeline: the shared pipeline
	//   - error: the resolver or compilation error
	Pipeline(v material.Variant) (pipeline.Pipeline, error)

	// Prewarm compiles the pipelines of the given variants ahead of the first frame.
	//
	// Parameters:
	//   - variants: the variants to compile
	//
	// Returns:
	//   - error: every failure combined
	Prewarm(variants ...material.Variant) error

	// Resize configures the underlying backend to handle a new target size.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if the attachments could not be recreated
	Resize(width, height int) error

	// SetPresentMode sets the surface present mode. A call to Resize is required after changing
	// this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// InitCamera creates the camera's view bind group and uploads its current view uniform.
	//
	// Parameters:
	//   - cam: the camera
	//
	// Returns:
	//   - error: an error if the bind group could not be created
	InitCamera(cam camera.Camera) error

	// UpdateCamera uploads the camera's current view uniform.
	//
	// Parameters:
	//   - cam: an initialized camera
	//
	// Returns:
	//   - error: an error if the camera was not initialized
	UpdateCamera(cam camera.Camera) error

	// InitMaterial compiles the material's pipeline, creates the bind groups of its material
	// groups and uploads its uniform values. Texture slots without texture data are bound to a
	// 1x1 white fallback texture.
	//
	// Parameters:
	//   - mat: the material
	//
	// Returns:
	//   - error: the pipeline error or an error creating a resource
	InitMaterial(mat material.Material) error

	// InitModel uploads the model's mesh in its material's vertex layout, initializes the
	// material if needed and uploads the model uniform into the model's slot.
	//
	// Parameters:
	//   - m: the model; it must have a material and a slot below the model capacity
	//
	// Returns:
	//   - error: an error if the model cannot be initialized
	InitModel(m model.Model) error

	// UpdateModel uploads the model's current transform into its slot.
	//
	// Parameters:
	//   - m: an initialized model
	//
	// Returns:
	//   - error: an error if the model slot is out of range
	UpdateModel(m model.Model) error

	// BeginFrame acquires the next color target and begins the main render pass.
	// Must be paired with EndFrame after all DrawModel calls.
	//
	// Returns:
	//   - error: an error if the target could not be acquired
	BeginFrame() error

	// DrawModel draws an initialized model as seen from an initialized camera, binding the model,
	// view and material groups with their dynamic offsets.
	//
	// Parameters:
	//   - m: the model
	//   - cam: the camera
	//
	// Returns:
	//   - error: an error if a pipeline or bind group is missing
	DrawModel(m model.Model, cam camera.Camera) error

	// EndFrame ends the current render pass and submits it.
	EndFrame()

	// Present presents the frame. It does nothing for offscreen targets.
	Present()

	// Release releases every pipeline, bind group and device object the renderer created.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into target. Pass a window.Window to render to a
// surface, or Offscreen(width, height) to render without one.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - target: the render target
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the new renderer
//   - error: an error if no adapter or device is available, or the target could not be configured
func NewRenderer(backendType RendererBackendType, target RenderTarget, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		backendType:   backendType,
		modelCapacity: 256,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(target.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}
	if err != nil {
		return nil, err
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}
	if err := r.backend.ConfigureSurface(target.Width(), target.Height()); err != nil {
		r.backend.Release()
		return nil, err
	}

	r.pipelines = pipeline.NewCache(r.backend, r.cacheOptions...)

	r.modelProvider = bind_group_provider.NewBindGroupProvider(
		bind_group_provider.WithLabel("models"),
		bind_group_provider.WithSchema(material.ModelSchema()),
		bind_group_provider.WithCapacity(r.modelCapacity),
	)
	if err := r.backend.InitBindGroup(r.modelProvider); err != nil {
		r.Release()
		return nil, err
	}
	r.owned = append(r.owned, r.modelProvider)

	return r, nil
}

func (r *renderer) Pipelines() pipeline.Cache {
	return r.pipelines
}

func (r *renderer) Pipeline(v material.Variant) (pipeline.Pipeline, error) {
	return r.pipelines.GetOrCreate(v)
}

func (r *renderer) Prewarm(variants ...material.Variant) error {
	return r.pipelines.Prewarm(variants...)
}

func (r *renderer) Resize(width, height int) error {
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) InitCamera(cam camera.Camera) error {
	provider := cam.BindGroupProvider()
	if provider.BindGroup() == nil {
		if err := r.backend.InitBindGroup(provider); err != nil {
			return err
		}
	}
	return r.UpdateCamera(cam)
}

func (r *renderer) UpdateCamera(cam camera.Camera) error {
	provider := cam.BindGroupProvider()
	offset, err := provider.DynamicOffset(0, 0)
	if err != nil {
		return err
	}
	u := cam.Uniform()
	return r.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: provider,
		Binding:  0,
		Offset:   uint64(offset),
		Data:     u.Marshal(),
	}})
}

func (r *renderer) InitMaterial(mat material.Material) error {
	p, err := r.pipelines.GetOrCreate(mat.Variant())
	if err != nil {
		return err
	}

	for _, schema := range mat.MaterialSchemas() {
		if mat.BindGroupProvider(schema.Group) != nil {
			continue
		}
		provider := bind_group_provider.NewBindGroupProvider(
			bind_group_provider.WithLabel(mat.Name()+"_group_"+strconv.FormatUint(uint64(schema.Group), 10)),
			bind_group_provider.WithSchema(schema),
		)
		if err := r.initMaterialResources(mat, provider); err != nil {
			provider.Release()
			return errors.Wrapf(err, "material %q", mat.Name())
		}
		if err := r.backend.InitBindGroup(provider); err != nil {
			provider.Release()
			return errors.Wrapf(err, "material %q", mat.Name())
		}
		mat.SetBindGroupProvider(schema.Group, provider)

		r.mu.Lock()
		r.owned = append(r.owned, provider)
		r.mu.Unlock()
	}

	writes, err := mat.UniformWrites()
	if err != nil {
		return err
	}
	if err := r.backend.WriteBuffers(writes); err != nil {
		return err
	}

	mat.SetPipelineKey(uuid.UUID(p.Fingerprint()))
	common.Logger().Debug("material initialized", "material", mat.Name(), "variant", mat.Variant().String(), "pipeline", p.Fingerprint().String())
	return nil
}

// initMaterialResources fills the texture and sampler slots of a material group provider.
func (r *renderer) initMaterialResources(mat material.Material, provider bind_group_provider.BindGroupProvider) error {
	for _, slot := range provider.Schema().Slots {
		binding := int(slot.Binding)
		switch slot.Kind {
		case bind_group_schema.ResourceKindTexture, bind_group_schema.ResourceKindTextureArray:
			if tex := mat.Texture(); tex != nil {
				if err := r.backend.InitTextureView(provider, binding, *tex); err != nil {
					return err
				}
				continue
			}
			view, err := r.backend.FallbackTextureView(slot.Kind)
			if err != nil {
				return err
			}
			provider.SetBorrowedTextureView(binding, view)
		case bind_group_schema.ResourceKindSampler:
			var staging common.SamplerStagingData
			if s := mat.Sampler(); s != nil {
				staging = *s
			}
			if err := r.backend.InitSampler(provider, binding, staging); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *renderer) InitModel(m model.Model) error {
	mat := m.Material()
	if mat == nil {
		return errors.Newf("model %q has no material", m.Name())
	}
	if m.Slot() < 0 || m.Slot() >= r.modelCapacity {
		return errors.Newf("model %q: slot %d out of range [0, %d)", m.Name(), m.Slot(), r.modelCapacity)
	}
	if mat.PipelineKey() == uuid.Nil {
		if err := r.InitMaterial(mat); err != nil {
			return err
		}
	}

	if m.MeshProvider() == nil {
		vertexData, err := m.VertexData()
		if err != nil {
			return errors.Wrapf(err, "model %q", m.Name())
		}
		mesh := m.Mesh()
		provider := bind_group_provider.NewBindGroupProvider(
			bind_group_provider.WithLabel(m.Name() + "_mesh"),
		)
		if err := r.backend.InitMeshBuffers(provider, vertexData, mesh.IndexData(), len(mesh.Indices)); err != nil {
			provider.Release()
			return err
		}
		m.SetMeshProvider(provider)

		r.mu.Lock()
		r.owned = append(r.owned, provider)
		r.mu.Unlock()
	}

	return r.UpdateModel(m)
}

func (r *renderer) UpdateModel(m model.Model) error {
	offset, err := r.modelProvider.DynamicOffset(0, m.Slot())
	if err != nil {
		return errors.Wrapf(err, "model %q", m.Name())
	}
	u := m.Uniform()
	return r.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: r.modelProvider,
		Binding:  0,
		Offset:   uint64(offset),
		Data:     u.Marshal(),
	}})
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawModel(m model.Model, cam camera.Camera) error {
	mat := m.Material()
	if mat == nil || m.MeshProvider() == nil {
		return errors.Newf("model %q is not initialized", m.Name())
	}
	p, err := materialPipeline(r.pipelines, mat)
	if err != nil {
		return err
	}

	groups, err := drawGroups(p.Resolved().Schemas, func(group uint32) (bind_group_provider.BindGroupProvider, int) {
		switch {
		case group == material.GroupModel:
			return r.modelProvider, m.Slot()
		case group == material.GroupView:
			return cam.BindGroupProvider(), 0
		default:
			return mat.BindGroupProvider(group), 0
		}
	})
	if err != nil {
		return errors.Wrapf(err, "model %q", m.Name())
	}

	return r.backend.Draw(p.Handle(), m.MeshProvider(), groups)
}

// materialPipeline returns the pipeline InitMaterial stored for mat, looked up by fingerprint.
func materialPipeline(pipelines pipeline.Cache, mat material.Material) (pipeline.Pipeline, error) {
	key := mat.PipelineKey()
	if key == uuid.Nil {
		return nil, errors.Newf("material %q is not initialized", mat.Name())
	}
	p, ok := pipelines.Get(pipeline.Fingerprint(key))
	if !ok {
		return nil, errors.Newf("material %q: pipeline %s is not cached", mat.Name(), key)
	}
	return p, nil
}

// drawGroups assembles the bind groups of a draw call in group order. providerFor returns the
// provider bound at a group and the dynamic-offset slot to select in it.
func drawGroups(schemas []bind_group_schema.Schema, providerFor func(group uint32) (bind_group_provider.BindGroupProvider, int)) ([]GroupBinding, error) {
	groups := make([]GroupBinding, len(schemas))
	for _, s := range schemas {
		if int(s.Group) >= len(groups) {
			return nil, errors.Newf("group %d out of range for %d schemas", s.Group, len(schemas))
		}
		provider, slot := providerFor(s.Group)
		if provider == nil {
			return nil, errors.Newf("group %d has no bind group provider", s.Group)
		}
		offsets, err := dynamicOffsets(provider, slot)
		if err != nil {
			return nil, err
		}
		groups[s.Group] = GroupBinding{Provider: provider, DynamicOffsets: offsets}
	}
	return groups, nil
}

// dynamicOffsets returns the offsets of slot in every dynamic uniform binding of the provider,
// ordered by binding index.
func dynamicOffsets(provider bind_group_provider.BindGroupProvider, slot int) ([]uint32, error) {
	var bindings []int
	for _, s := range provider.Schema().Slots {
		if s.DynamicOffset {
			bindings = append(bindings, int(s.Binding))
		}
	}
	slices.Sort(bindings)

	var offsets []uint32
	for _, b := range bindings {
		offset, err := provider.DynamicOffset(b, slot)
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, offset)
	}
	return offsets, nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.owned {
		p.Release()
	}
	r.owned = nil
	if r.pipelines != nil {
		r.pipelines.Release()
	}
	r.backend.Release()
}

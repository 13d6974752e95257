package renderer

import (
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/layout"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pipeline"
	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// offscreenFormat is the color format of the target used when no surface exists.
const offscreenFormat = wgpu.TextureFormatRGBA8Unorm

// textureFormat is the format every sampled material texture is uploaded in.
const textureFormat = wgpu.TextureFormatRGBA8UnormSrgb

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	targetFormat         wgpu.TextureFormat
	attachments          []*wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	offscreenView        *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor
	clearColor           wgpu.Color

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	sampleCount MSAASampleCount

	// bindGroupLayouts caches one layout per distinct schema structure; pipelines and bind groups share them
	bindGroupLayouts map[string]*wgpu.BindGroupLayout
	// textures holds every material texture created by InitTextureView
	textures []*wgpu.Texture
	// fallbackViews holds the 1x1 white views bound to texture slots without texture data
	fallbackViews map[bind_group_schema.ResourceKind]*wgpu.TextureView

	// Frame state for batched rendering across multiple draw calls
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

// compiledPipeline is the device pipeline handed to the pipeline cache.
type compiledPipeline struct {
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.PipelineLayout
	module   *wgpu.ShaderModule
}

func (c *compiledPipeline) Release() {
	c.pipeline.Release()
	c.layout.Release()
	c.module.Release()
}

type wgpuRendererBackend interface {
	pipeline.Compiler

	Device() *wgpu.Device
	Queue() *wgpu.Queue

	// ConfigureSurface (re)creates the color, MSAA and depth targets for a new size.
	// This is required when the surface size changes, such as when the window is resized.
	//
	// Parameters:
	//   - width: the new width of the target in pixels
	//   - height: the new height of the target in pixels
	//
	// Returns:
	//   - error: an error if an attachment could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the main pass clears to.
	SetClearColor(color wgpu.Color)

	// TargetFormat returns the color format pipelines render into.
	TargetFormat() wgpu.TextureFormat

	// BindGroupLayout returns the device layout for a schema, creating it on first use. Schemas
	// with the same structure share one layout.
	//
	// Parameters:
	//   - schema: the bind group schema
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the cached layout, owned by the backend
	//   - error: the schema or device error
	BindGroupLayout(schema bind_group_schema.Schema) (*wgpu.BindGroupLayout, error)

	// InitMeshBuffers inits the vertex and index buffers for a mesh based on the provided vertex and index data, and stores them on the given BindGroupProvider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created vertex and index buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU
	//   - indexCount: the number of indices represented in the indexData, used for draw calls
	//
	// Returns:
	//   - error: an error if the buffers could not be created or initialized, otherwise nil
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates the uniform buffers and the bind group of a provider from its schema.
	// Texture and sampler slots must be filled first via InitTextureView, InitSampler or a
	// borrowed fallback view.
	//
	// Parameters:
	//   - provider: the BindGroupProvider whose schema describes the group
	//
	// Returns:
	//   - error: an error if a resource is missing or the bind group could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider) error

	// InitTextureView uploads staging data into a new texture and stores its view on the provider.
	// The view dimension follows the slot kind: 2D for texture slots, 2D array for texture-array slots.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created texture view on
	//   - binding: the texture slot's binding index
	//   - stagingData: the pixel data and extent
	//
	// Returns:
	//   - error: an error if the slot is not a texture slot, the data is malformed, or creation failed
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, stagingData common.TextureStagingData) error

	// FallbackTextureView returns the shared 1x1 white view for a texture or texture-array slot.
	//
	// Parameters:
	//   - kind: ResourceKindTexture or ResourceKindTextureArray
	//
	// Returns:
	//   - *wgpu.TextureView: the view, owned by the backend
	//   - error: an error for other kinds or if creation failed
	FallbackTextureView(kind bind_group_schema.ResourceKind) (*wgpu.TextureView, error)

	// InitSampler creates a GPU sampler based on the provided staging data, and stores it on the given BindGroupProvider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - binding: the sampler slot's binding index
	//   - samplerStagingData: the sampler configuration, zero fields take defaults
	//
	// Returns:
	//   - error: an error if the sampler could not be created
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	//
	// Returns:
	//   - error: an error naming the first write whose provider has no buffer at the binding
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// BeginFrame acquires the next color target, creates a command encoder, and begins
	// the main render pass. Must be paired with EndFrame after all Draw invocations.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// Draw encodes one indexed draw within the current render pass.
	//
	// Parameters:
	//   - h: a pipeline handle compiled by this backend
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers
	//   - groups: the bind groups, index i bound at group i
	//
	// Returns:
	//   - error: an error if no frame is in progress or the handle is foreign
	Draw(h pipeline.Handle, meshProvider bind_group_provider.BindGroupProvider, groups []GroupBinding) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Call Present afterwards to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// It does nothing for offscreen targets.
	Present()

	// Release releases every device object the backend owns.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) (wgpuRendererBackend, error) {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:               &sync.Mutex{},
		instance:         wgpu.CreateInstance(nil),
		presentMode:      wgpu.PresentModeImmediate,
		sampleCount:      sampleCount,
		targetFormat:     offscreenFormat,
		clearColor:       wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
		bindGroupLayouts: make(map[string]*wgpu.BindGroupLayout),
		fallbackViews:    make(map[bind_group_schema.ResourceKind]*wgpu.TextureView),
	}
	if surfaceDescriptor != nil {
		w.surface = w.instance.CreateSurface(surfaceDescriptor)
	}

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		return nil, errors.Wrap(err, "request adapter")
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "request device")
	}
	w.device = d
	w.queue = d.GetQueue()

	return w, nil
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) TargetFormat() wgpu.TextureFormat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.targetFormat
}

func (b *wgpuRendererBackendImpl) SetClearColor(color wgpu.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearColor = color
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = color
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return errors.Newf("invalid target size %dx%d", width, height)
	}
	b.releaseAttachments()

	if b.surface != nil {
		capabilities := b.surface.GetCapabilities(b.adapter)
		b.targetFormat = capabilities.Formats[0]
		b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      b.targetFormat,
			Width:       uint32(width),
			Height:      uint32(height),
			PresentMode: b.presentMode,
			AlphaMode:   capabilities.AlphaModes[0],
		})
	} else {
		view, err := b.createAttachment("Offscreen Target", b.targetFormat, width, height, 1, wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageCopySrc)
		if err != nil {
			return err
		}
		b.offscreenView = view
	}

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	if msaaEnabled {
		// the pass draws into the MSAA texture and resolves into the frame's color view
		view, err := b.createAttachment("MSAA Texture", b.targetFormat, width, height, count, wgpu.TextureUsageRenderAttachment)
		if err != nil {
			return err
		}
		b.msaaTextureView = view
	}

	// Depth texture sample count must match the color attachment.
	depthView, err := b.createAttachment("Depth Texture", wgpu.TextureFormatDepth24Plus, width, height, count, wgpu.TextureUsageRenderAttachment)
	if err != nil {
		return err
	}
	b.depthTextureView = depthView

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}

	common.Logger().Debug("render target configured",
		"width", width, "height", height, "samples", count, "offscreen", b.surface == nil)
	return nil
}

func (b *wgpuRendererBackendImpl) createAttachment(label string, format wgpu.TextureFormat, width, height int, samples uint32, usage wgpu.TextureUsage) (*wgpu.TextureView, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", label)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, errors.Wrapf(err, "create %s view", label)
	}
	b.attachments = append(b.attachments, tex)
	return view, nil
}

func (b *wgpuRendererBackendImpl) releaseAttachments() {
	for _, v := range []*wgpu.TextureView{b.msaaTextureView, b.depthTextureView, b.offscreenView} {
		if v != nil {
			v.Release()
		}
	}
	for _, t := range b.attachments {
		t.Release()
	}
	b.attachments = nil
	b.msaaTextureView = nil
	b.depthTextureView = nil
	b.offscreenView = nil
}

func (b *wgpuRendererBackendImpl) BindGroupLayout(schema bind_group_schema.Schema) (*wgpu.BindGroupLayout, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bindGroupLayout(schema)
}

func (b *wgpuRendererBackendImpl) bindGroupLayout(schema bind_group_schema.Schema) (*wgpu.BindGroupLayout, error) {
	key := string(schema.AppendCanonical(nil))
	if l, ok := b.bindGroupLayouts[key]; ok {
		return l, nil
	}

	desc, err := schema.Descriptor()
	if err != nil {
		return nil, err
	}
	l, err := b.device.CreateBindGroupLayout(&desc)
	if err != nil {
		return nil, errors.Wrapf(err, "create bind group layout for group %d", schema.Group)
	}
	b.bindGroupLayouts[key] = l
	return l, nil
}

func (b *wgpuRendererBackendImpl) CompileRenderPipeline(d pipeline.Descriptor) (pipeline.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderPassDescriptor == nil {
		return nil, errors.New("render target is not configured")
	}

	bindGroupLayouts := make([]*wgpu.BindGroupLayout, len(d.Schemas))
	for _, s := range d.Schemas {
		if int(s.Group) >= len(bindGroupLayouts) || bindGroupLayouts[s.Group] != nil {
			return nil, errors.Newf("schemas must cover groups 0..%d once each, got group %d", len(d.Schemas)-1, s.Group)
		}
		l, err := b.bindGroupLayout(s)
		if err != nil {
			return nil, err
		}
		bindGroupLayouts[s.Group] = l
	}

	module, err := b.device.CreateShaderModule(d.Shader.Module())
	if err != nil {
		return nil, errors.Wrap(err, "create shader module")
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            d.Label,
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		module.Release()
		return nil, errors.Wrap(err, "create pipeline layout")
	}

	depthCompare := wgpu.CompareFunctionLess
	if !d.State.DepthTest {
		depthCompare = wgpu.CompareFunctionAlways
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  d.Label,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: d.Shader.VertexEntryPoint(),
			Buffers:    []wgpu.VertexBufferLayout{d.VertexLayout.BufferLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: d.Shader.FragmentEntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.targetFormat,
					Blend:     d.State.BlendStatePtr(),
					WriteMask: d.State.WriteMask,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  d.State.Topology,
			FrontFace: d.State.FrontFace,
			CullMode:  d.State.CullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled:   d.State.DepthWrite,
			DepthCompare:        depthCompare,
			DepthBias:           d.State.DepthBias,
			DepthBiasSlopeScale: d.State.DepthBiasSlopeScale,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		pipelineLayout.Release()
		module.Release()
		return nil, errors.Wrap(err, "create render pipeline")
	}

	return &compiledPipeline{
		pipeline: created,
		layout:   pipelineLayout,
		module:   module,
	}, nil
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: provider.Label() + " Vertex Buffer",
			Size:  uint64(len(vertexData)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return errors.Wrapf(err, "%s: vertex buffer", provider.Label())
		}
		b.queue.WriteBuffer(buf, 0, vertexData)
		provider.SetVertexBuffer(buf)
	}

	if len(indexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: provider.Label() + " Index Buffer",
			Size:  uint64(len(indexData)),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return errors.Wrapf(err, "%s: index buffer", provider.Label())
		}
		b.queue.WriteBuffer(buf, 0, indexData)
		provider.SetIndexBuffer(buf)
	}

	provider.SetIndexCount(indexCount)

	return nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	schema := provider.Schema()
	if len(schema.Slots) == 0 {
		return nil
	}
	bgl, err := b.bindGroupLayout(schema)
	if err != nil {
		return err
	}

	entries := make([]wgpu.BindGroupEntry, 0, len(schema.Slots))
	for _, slot := range schema.Slots {
		binding := int(slot.Binding)
		switch slot.Kind {
		case bind_group_schema.ResourceKindTexture, bind_group_schema.ResourceKindTextureArray:
			tv := provider.TextureView(binding)
			if tv == nil {
				return errors.Newf("%s: %s binding %d has no texture view", provider.Label(), slot.Kind, binding)
			}
			entries = append(entries, wgpu.BindGroupEntry{Binding: slot.Binding, TextureView: tv})
		case bind_group_schema.ResourceKindSampler:
			samp := provider.Sampler(binding)
			if samp == nil {
				return errors.Newf("%s: sampler binding %d has no sampler", provider.Label(), binding)
			}
			entries = append(entries, wgpu.BindGroupEntry{Binding: slot.Binding, Sampler: samp})
		case bind_group_schema.ResourceKindUniformBuffer:
			buf := provider.Buffer(binding)
			if buf == nil {
				size, err := provider.BufferSize(binding)
				if err != nil {
					return err
				}
				buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: provider.Label() + " Uniform Buffer",
					Size:  size,
					Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
				})
				if err != nil {
					return errors.Wrapf(err, "%s: uniform buffer %d", provider.Label(), binding)
				}
				provider.SetBuffer(binding, buf)
			}
			// dynamic slots bind one block-sized window that the draw offset moves
			var size uint64 = wgpu.WholeSize
			if slot.DynamicOffset {
				size = layout.MustEncode(*slot.Uniform).Size
			}
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: slot.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    size,
			})
		default:
			return errors.Newf("%s: binding %d has unsupported kind %s", provider.Label(), binding, slot.Kind)
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  bgl,
		Entries: entries,
	})
	if err != nil {
		return errors.Wrapf(err, "%s: create bind group", provider.Label())
	}
	provider.SetBindGroup(bindGroup)

	return nil
}

func (b *wgpuRendererBackendImpl) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, stagingData common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	slot, ok := provider.Schema().Slot(uint32(binding))
	if !ok {
		return errors.Newf("%s: no slot at binding %d", provider.Label(), binding)
	}
	if err := stagingData.Validate(); err != nil {
		return errors.Wrapf(err, "%s: binding %d", provider.Label(), binding)
	}
	if slot.Kind == bind_group_schema.ResourceKindTexture && stagingData.LayerCount() > 1 {
		return errors.Newf("%s: binding %d is a 2D texture slot, texture has %d layers", provider.Label(), binding, stagingData.LayerCount())
	}

	view, err := b.createSampledTexture(provider.Label()+" Texture", slot.Kind, stagingData)
	if err != nil {
		return errors.Wrapf(err, "%s: binding %d", provider.Label(), binding)
	}
	provider.SetTextureView(binding, view)

	return nil
}

func (b *wgpuRendererBackendImpl) createSampledTexture(label string, kind bind_group_schema.ResourceKind, stagingData common.TextureStagingData) (*wgpu.TextureView, error) {
	var dimension wgpu.TextureViewDimension
	switch kind {
	case bind_group_schema.ResourceKindTexture:
		dimension = wgpu.TextureViewDimension2D
	case bind_group_schema.ResourceKindTextureArray:
		dimension = wgpu.TextureViewDimension2DArray
	default:
		return nil, errors.Newf("%s is not a texture kind", kind)
	}

	layers := stagingData.LayerCount()
	extent := wgpu.Extent3D{
		Width:              stagingData.Width,
		Height:             stagingData.Height,
		DepthOrArrayLayers: layers,
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          extent,
		Format:        textureFormat,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create texture")
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  stagingData.Width * 4,
			RowsPerImage: stagingData.Height,
		},
		&extent,
	)

	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           label + " View",
		Format:          textureFormat,
		Dimension:       dimension,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: layers,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		tex.Release()
		return nil, errors.Wrap(err, "create texture view")
	}
	b.textures = append(b.textures, tex)
	return view, nil
}

func (b *wgpuRendererBackendImpl) FallbackTextureView(kind bind_group_schema.ResourceKind) (*wgpu.TextureView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if v, ok := b.fallbackViews[kind]; ok {
		return v, nil
	}
	view, err := b.createSampledTexture("Fallback "+kind.String(), kind, *common.SolidTexture(1, 1, 0, [4]byte{255, 255, 255, 255}))
	if err != nil {
		return nil, err
	}
	b.fallbackViews[kind] = view
	return view, nil
}

func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " Sampler",
		AddressModeU:  common.Coalesce(samplerStagingData.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(samplerStagingData.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(samplerStagingData.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(samplerStagingData.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(samplerStagingData.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(samplerStagingData.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(samplerStagingData.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(samplerStagingData.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(samplerStagingData.MaxAnisotropy, 1),
	})
	if err != nil {
		return errors.Wrapf(err, "%s: sampler %d", provider.Label(), binding)
	}
	provider.SetSampler(binding, samp)

	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			return errors.Newf("%s: binding %d has no buffer", w.Provider.Label(), w.Binding)
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderPassDescriptor == nil {
		return errors.New("render target is not configured")
	}
	// holding a surface texture means Present was skipped; acquiring another fails in wgpu-native
	if b.frameSurface != nil || b.framePass != nil {
		return errors.New("previous frame not yet presented")
	}

	var view *wgpu.TextureView
	if b.surface != nil {
		surfaceTexture, err := b.surface.GetCurrentTexture()
		if err != nil {
			return errors.Wrap(err, "acquire surface texture")
		}
		view, err = surfaceTexture.CreateView(nil)
		if err != nil {
			surfaceTexture.Release()
			return errors.Wrap(err, "create surface view")
		}
		b.frameSurface = surfaceTexture
		b.frameView = view
	} else {
		view = b.offscreenView
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		b.releaseFrameTarget()
		return errors.Wrap(err, "create command encoder")
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	b.frameEncoder = encoder
	b.framePass = encoder.BeginRenderPass(b.renderPassDescriptor)

	return nil
}

func (b *wgpuRendererBackendImpl) Draw(h pipeline.Handle, meshProvider bind_group_provider.BindGroupProvider, groups []GroupBinding) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return errors.New("draw outside of a frame")
	}
	compiled, ok := h.(*compiledPipeline)
	if !ok {
		return errors.Newf("pipeline handle %T was not compiled by this backend", h)
	}
	if meshProvider.VertexBuffer() == nil || meshProvider.IndexBuffer() == nil {
		return errors.Newf("%s: mesh buffers are not initialized", meshProvider.Label())
	}

	b.framePass.SetPipeline(compiled.pipeline)
	for i, g := range groups {
		bg := g.Provider.BindGroup()
		if bg == nil {
			return errors.Newf("%s: bind group %d is not initialized", g.Provider.Label(), i)
		}
		b.framePass.SetBindGroup(uint32(i), bg, g.DynamicOffsets)
	}

	b.framePass.SetVertexBuffer(0, meshProvider.VertexBuffer(), 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(meshProvider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(meshProvider.IndexCount()), 1, 0, 0, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		common.Logger().Warn("frame encoding failed", "error", err)
		b.releaseFrameTarget()
		return
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.releaseFrameTarget()
}

func (b *wgpuRendererBackendImpl) releaseFrameTarget() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseFrameTarget()
	for _, v := range b.fallbackViews {
		v.Release()
	}
	b.fallbackViews = make(map[bind_group_schema.ResourceKind]*wgpu.TextureView)
	for _, t := range b.textures {
		t.Release()
	}
	b.textures = nil
	for _, l := range b.bindGroupLayouts {
		l.Release()
	}
	b.bindGroupLayouts = make(map[string]*wgpu.BindGroupLayout)
	b.releaseAttachments()

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

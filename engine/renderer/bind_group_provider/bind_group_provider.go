package bind_group_provider

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/layout"
	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string
	// schema declares the slots this provider holds resources for.
	schema bind_group_schema.Schema
	// capacity is the number of dynamic-offset slots each dynamic uniform buffer holds.
	capacity int

	// The following fields are GPU allocated resources and must be released when no longer needed. They are populated by the Renderer during initialization, not by user-creation.

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized with the Renderer.
	bindGroup *wgpu.BindGroup
	// buffers holds the GPU buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// textureViews holds the GPU texture views created for this provider, keyed by binding index.
	textureViews map[int]*wgpu.TextureView
	// borrowed marks texture views owned elsewhere (fallback textures) that Release must not free.
	borrowed map[int]bool
	// samplers holds the GPU samplers created for this provider, keyed by binding index.
	samplers map[int]*wgpu.Sampler

	// The following fields are specific to mesh providers.

	// vertexBuffer is the GPU vertex buffer created for this provider, or nil if not initialized with the Renderer.
	vertexBuffer *wgpu.Buffer
	// indexBuffer is the GPU index buffer created for this provider, or nil if not initialized with the Renderer.
	indexBuffer *wgpu.Buffer
	// indexCount is the number of indices for draw calls.
	indexCount int
}

// BindGroupProvider holds the GPU resources bound at one bind group index: the bind group itself,
// its uniform buffers, texture views and samplers. The provider's Schema declares which
// resources exist; the Renderer creates them from it.
//
// Usage pattern:
//  1. Create a provider with the schema of the group (WithSchema) and a dynamic slot capacity
//  2. Call Renderer.InitBindGroup(provider) to create GPU resources
//  3. Queue BufferWrites for uniform values, at DynamicOffset(binding, slot) for dynamic slots
//  4. Bind BindGroup() at Schema().Group for draw calls
//
// Providers created for meshes hold a vertex and index buffer instead of a bind group.
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider. Borrowed texture views are
	// dropped without being released.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Schema returns the schema describing the provider's bindings.
	//
	// Returns:
	//   - bind_group_schema.Schema: the group schema
	Schema() bind_group_schema.Schema

	// Capacity returns the number of dynamic-offset slots in each dynamic uniform buffer.
	//
	// Returns:
	//   - int: the slot count, at least 1
	Capacity() int

	// SlotStride returns the distance in bytes between consecutive dynamic-offset slots of a
	// uniform binding, or the block size for a non-dynamic uniform.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - uint64: the stride in bytes
	//   - error: if the binding is not a uniform slot of the schema
	SlotStride(binding int) (uint64, error)

	// BufferSize returns the size of the GPU buffer backing a uniform binding: the stride times
	// the capacity for dynamic slots, the block size otherwise.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - uint64: the buffer size in bytes
	//   - error: if the binding is not a uniform slot of the schema
	BufferSize(binding int) (uint64, error)

	// DynamicOffset returns the byte offset of a dynamic-offset slot. The value is passed both to
	// the BufferWrite that fills the slot and to SetBindGroup when drawing with it.
	//
	// Parameters:
	//   - binding: the binding index
	//   - slot: the slot index, below Capacity()
	//
	// Returns:
	//   - uint32: the byte offset
	//   - error: if the binding is not a dynamic uniform or slot is out of range
	DynamicOffset(binding int, slot int) (uint32, error)

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// Buffer returns the uniform buffer at a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the GPU texture view for a specific binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the GPU sampler for a specific binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// VertexBuffer returns the GPU vertex buffer, or nil if not initialized.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the GPU index buffer, or nil if not initialized.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices for draw calls.
	IndexCount() int

	// SetBindGroup sets the bind group after GPU initialization.
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBuffer stores the uniform buffer created for a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTextureView stores a texture view owned by this provider.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view to store
	SetTextureView(binding int, tv *wgpu.TextureView)

	// SetBorrowedTextureView stores a texture view owned elsewhere, such as a shared fallback
	// texture. Release does not free it.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the shared texture view
	SetBorrowedTextureView(binding int, tv *wgpu.TextureView)

	// SetSampler stores a GPU sampler for a specific binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler to store
	SetSampler(binding int, s *wgpu.Sampler)

	// SetVertexBuffer stores the GPU vertex buffer of a mesh provider.
	SetVertexBuffer(buf *wgpu.Buffer)

	// SetIndexBuffer stores the GPU index buffer of a mesh provider.
	SetIndexBuffer(buf *wgpu.Buffer)

	// SetIndexCount sets the number of indices for draw calls.
	SetIndexCount(count int)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		capacity:     1,
		buffers:      make(map[int]*wgpu.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
		borrowed:     make(map[int]bool),
		samplers:     make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.label == "" {
		p.label = p.schema.Label
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Schema() bind_group_schema.Schema {
	return p.schema
}

func (p *bindGroupProvider) Capacity() int {
	return p.capacity
}

func (p *bindGroupProvider) uniformSlot(binding int) (bind_group_schema.BindingSlot, layout.BlockLayout, error) {
	slot, ok := p.schema.Slot(uint32(binding))
	if !ok || slot.Kind != bind_group_schema.ResourceKindUniformBuffer || slot.Uniform == nil {
		return slot, layout.BlockLayout{}, errors.Newf("provider %q: binding %d is not a uniform slot", p.label, binding)
	}
	l, err := layout.Encode(*slot.Uniform)
	if err != nil {
		return slot, l, errors.Wrapf(err, "provider %q: binding %d", p.label, binding)
	}
	return slot, l, nil
}

func (p *bindGroupProvider) SlotStride(binding int) (uint64, error) {
	slot, l, err := p.uniformSlot(binding)
	if err != nil {
		return 0, err
	}
	if slot.DynamicOffset {
		return layout.AlignDynamicOffset(l.Size), nil
	}
	return l.Size, nil
}

func (p *bindGroupProvider) BufferSize(binding int) (uint64, error) {
	slot, l, err := p.uniformSlot(binding)
	if err != nil {
		return 0, err
	}
	if slot.DynamicOffset {
		return layout.AlignDynamicOffset(l.Size) * uint64(p.capacity), nil
	}
	return l.Size, nil
}

func (p *bindGroupProvider) DynamicOffset(binding int, slot int) (uint32, error) {
	s, l, err := p.uniformSlot(binding)
	if err != nil {
		return 0, err
	}
	if !s.DynamicOffset {
		return 0, errors.Newf("provider %q: binding %d has no dynamic offset", p.label, binding)
	}
	if slot < 0 || slot >= p.capacity {
		return 0, errors.Newf("provider %q: slot %d out of range [0, %d)", p.label, slot, p.capacity)
	}
	return uint32(layout.AlignDynamicOffset(l.Size) * uint64(slot)), nil
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
	delete(p.borrowed, binding)
}

func (p *bindGroupProvider) SetBorrowedTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
	p.borrowed[binding] = true
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

func (p *bindGroupProvider) Release() {
	for i, tv := range p.textureViews {
		if tv != nil && !p.borrowed[i] {
			tv.Release()
		}
		delete(p.textureViews, i)
		delete(p.borrowed, i)
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}

	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
}

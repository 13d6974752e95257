package pipeline

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// State is the fixed-function configuration of a render pipeline.
type State struct {
	DepthTest           bool
	DepthWrite          bool
	DepthBias           int32
	DepthBiasSlopeScale float32
	Blend               bool
	BlendState          wgpu.BlendState
	CullMode            wgpu.CullMode
	Topology            wgpu.PrimitiveTopology
	FrontFace           wgpu.FrontFace
	WriteMask           wgpu.ColorWriteMask
}

// AlphaBlending is straight-alpha "over" blending for the color target.
var AlphaBlending = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// DefaultState is the sprite state every material kind starts from: alpha blended, no depth test
// or depth write, no culling, counter-clockwise triangle lists writing every channel.
func DefaultState() State {
	return State{
		Blend:      true,
		BlendState: AlphaBlending,
		CullMode:   wgpu.CullModeNone,
		Topology:   wgpu.PrimitiveTopologyTriangleList,
		FrontFace:  wgpu.FrontFaceCCW,
		WriteMask:  wgpu.ColorWriteMaskAll,
	}
}

// BlendStatePtr returns the blend state for a color target, nil when blending is disabled.
func (s State) BlendStatePtr() *wgpu.BlendState {
	if !s.Blend {
		return nil
	}
	bs := s.BlendState
	return &bs
}

func (s State) appendCanonical(buf []byte) []byte {
	flags := byte(0)
	if s.DepthTest {
		flags |= 1
	}
	if s.DepthWrite {
		flags |= 2
	}
	if s.Blend {
		flags |= 4
	}
	buf = append(buf, flags)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(s.DepthBias))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(s.DepthBiasSlopeScale))
	if s.Blend {
		for _, c := range []wgpu.BlendComponent{s.BlendState.Color, s.BlendState.Alpha} {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(c.SrcFactor))
			buf = binary.LittleEndian.AppendUint32(buf, uint32(c.DstFactor))
			buf = binary.LittleEndian.AppendUint32(buf, uint32(c.Operation))
		}
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(s.CullMode))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(s.Topology))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(s.FrontFace))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(s.WriteMask))
	return buf
}

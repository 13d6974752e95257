package pipeline

import (
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pelletier/go-toml/v2"
)

// Config overrides the fixed-function state of pipelines. Unset fields keep the value
// inherited from DefaultState, then Defaults, then the kind's entry.
//
//	[defaults]
//	cull_mode = "back"
//
//	[kinds.textured-array]
//	depth_test = true
//	depth_write = true
type Config struct {
	Defaults StateConfig            `toml:"defaults"`
	Kinds    map[string]StateConfig `toml:"kinds"`
}

// StateConfig is one set of State overrides.
type StateConfig struct {
	DepthTest           *bool    `toml:"depth_test"`
	DepthWrite          *bool    `toml:"depth_write"`
	DepthBias           *int32   `toml:"depth_bias"`
	DepthBiasSlopeScale *float32 `toml:"depth_bias_slope_scale"`
	Blend               *bool    `toml:"blend"`
	CullMode            string   `toml:"cull_mode"`
	Topology            string   `toml:"topology"`
	FrontFace           string   `toml:"front_face"`
}

var cullModes = map[string]wgpu.CullMode{
	"none":  wgpu.CullModeNone,
	"front": wgpu.CullModeFront,
	"back":  wgpu.CullModeBack,
}

var topologies = map[string]wgpu.PrimitiveTopology{
	"point-list":     wgpu.PrimitiveTopologyPointList,
	"line-list":      wgpu.PrimitiveTopologyLineList,
	"line-strip":     wgpu.PrimitiveTopologyLineStrip,
	"triangle-list":  wgpu.PrimitiveTopologyTriangleList,
	"triangle-strip": wgpu.PrimitiveTopologyTriangleStrip,
}

var frontFaces = map[string]wgpu.FrontFace{
	"ccw": wgpu.FrontFaceCCW,
	"cw":  wgpu.FrontFaceCW,
}

// LoadConfig reads a TOML pipeline state file.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the parsed config
//   - error: a read, decode or validation error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "pipeline config %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "pipeline config %s", path)
	}
	return cfg, nil
}

// ParseConfig decodes TOML pipeline state overrides and checks that kind names and enum values
// are known.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the parsed config
//   - error: a decode error, an unknown enum value, or a *material.UnknownMaterialKindError
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode")
	}
	if _, err := cfg.Defaults.apply(DefaultState()); err != nil {
		return Config{}, errors.Wrap(err, "defaults")
	}
	for name, sc := range cfg.Kinds {
		if _, err := material.ParseKind(name); err != nil {
			return Config{}, err
		}
		if _, err := sc.apply(DefaultState()); err != nil {
			return Config{}, errors.Wrapf(err, "kinds.%s", name)
		}
	}
	return cfg, nil
}

// StateFor returns the state of a kind: DefaultState, then Defaults, then the kind's overrides.
// Config values are checked by ParseConfig; invalid enum strings in a hand-built Config are ignored.
//
// Parameters:
//   - kind: the material kind
//
// Returns:
//   - State: the effective state
func (c Config) StateFor(kind material.Kind) State {
	s, _ := c.Defaults.apply(DefaultState())
	for name, sc := range c.Kinds {
		if k, err := material.ParseKind(name); err == nil && k == kind {
			s, _ = sc.apply(s)
		}
	}
	return s
}

// apply overlays the set fields onto s. On an unknown enum value the remaining fields are still
// applied and the first error is returned.
func (sc StateConfig) apply(s State) (State, error) {
	var err error
	if sc.DepthTest != nil {
		s.DepthTest = *sc.DepthTest
	}
	if sc.DepthWrite != nil {
		s.DepthWrite = *sc.DepthWrite
	}
	if sc.DepthBias != nil {
		s.DepthBias = *sc.DepthBias
	}
	if sc.DepthBiasSlopeScale != nil {
		s.DepthBiasSlopeScale = *sc.DepthBiasSlopeScale
	}
	if sc.Blend != nil {
		s.Blend = *sc.Blend
	}
	if sc.CullMode != "" {
		if v, ok := cullModes[strings.ToLower(sc.CullMode)]; ok {
			s.CullMode = v
		} else if err == nil {
			err = errors.Newf("unknown cull_mode %q", sc.CullMode)
		}
	}
	if sc.Topology != "" {
		if v, ok := topologies[strings.ToLower(sc.Topology)]; ok {
			s.Topology = v
		} else if err == nil {
			err = errors.Newf("unknown topology %q", sc.Topology)
		}
	}
	if sc.FrontFace != "" {
		if v, ok := frontFaces[strings.ToLower(sc.FrontFace)]; ok {
			s.FrontFace = v
		} else if err == nil {
			err = errors.Newf("unknown front_face %q", sc.FrontFace)
		}
	}
	return s, err
}

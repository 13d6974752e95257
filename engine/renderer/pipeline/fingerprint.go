package pipeline

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind_group_schema"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/material"
	"github.com/google/uuid"
)

// fingerprintNamespace is the name-based UUID namespace pipeline fingerprints are derived in.
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("oxy-bind/pipeline"))

// Fingerprint identifies the structural shape of a pipeline. Two variants with equal fingerprints
// share one compiled pipeline.
type Fingerprint uuid.UUID

// NewFingerprint derives the fingerprint of a pipeline from its vertex layout, bind group schemas,
// feature flags and fixed-function state. Labels, variable names and layout tags do not contribute.
//
// Parameters:
//   - vertex: the vertex layout
//   - schemas: the bind group schemas ordered by group
//   - flags: the normalized feature flags
//   - state: the fixed-function pipeline state
//
// Returns:
//   - Fingerprint: the deterministic fingerprint
func NewFingerprint(vertex material.VertexLayout, schemas []bind_group_schema.Schema, flags material.FeatureSet, state State) Fingerprint {
	buf := vertex.AppendCanonical(make([]byte, 0, 256))
	buf = append(buf, byte(len(schemas)))
	for _, s := range schemas {
		buf = s.AppendCanonical(buf)
	}
	for _, f := range flags {
		buf = append(buf, string(f)...)
		buf = append(buf, 0)
	}
	buf = state.appendCanonical(buf)
	return Fingerprint(uuid.NewSHA1(fingerprintNamespace, buf))
}

func (f Fingerprint) String() string {
	return uuid.UUID(f).String()
}

package decoders

import (
	"fmt"

	"github.com/decodestack/decode-gate/internal/models"
)

// Registry is a static mapping from method identifier to decoder
// instance. The requirements matrix may describe methods ahead of their
// implementation, so a missing registration is not an error: Decode
// yields a well-defined REFUSED result instead.
type Registry struct {
	decoders map[string]Decoder
}

// NewRegistry builds a registry over the given decoders.
func NewRegistry(decoders ...Decoder) *Registry {
	m := make(map[string]Decoder, len(decoders))
	for _, d := range decoders {
		m[d.MethodID()] = d
	}
	return &Registry{decoders: m}
}

// Default returns the registry of implemented decoders.
func Default() *Registry {
	return NewRegistry(
		NewDurationDecoder(),
		NewFramingDecoder(),
	)
}

// Get returns the decoder bound to methodID, if implemented.
func (r *Registry) Get(methodID string) (Decoder, bool) {
	d, ok := r.decoders[methodID]
	return d, ok
}

// Decode runs the decoder for methodID, or returns a REFUSED result when
// no decoder is registered for it.
func (r *Registry) Decode(methodID string, bundle models.InputBundle, params Params) models.ExperimentResult {
	d, ok := r.decoders[methodID]
	if !ok {
		return Refused(methodID, "registry", fmt.Sprintf("decoder not implemented for method %q", methodID))
	}
	return d.Decode(bundle, params)
}

// Versions lists implemented decoders as method id → decoder version.
func (r *Registry) Versions() map[string]string {
	out := make(map[string]string, len(r.decoders))
	for id, d := range r.decoders {
		out[id] = d.Version()
	}
	return out
}

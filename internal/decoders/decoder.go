// Package decoders holds the structural decoder capability set. A decoder
// transforms an input bundle plus explicit parameters into artifacts; it
// never judges applicability (handled upstream) and never claims that
// decoded content is meaningful.
package decoders

import (
	"time"

	"github.com/google/uuid"

	"github.com/decodestack/decode-gate/internal/models"
)

// Params carries explicit decoder parameters. Decoders declare their own
// defaults; nothing is implicit beyond those declarations.
type Params map[string]any

// Float returns a numeric parameter or the declared default.
func (p Params) Float(key string, def float64) float64 {
	if v, ok := p.lookupFloat(key); ok {
		return v
	}
	return def
}

// FloatOpt returns a numeric parameter and whether it was set.
func (p Params) FloatOpt(key string) (float64, bool) {
	return p.lookupFloat(key)
}

// Int returns an integer parameter or the declared default.
func (p Params) Int(key string, def int) int {
	if v, ok := p.lookupFloat(key); ok {
		return int(v)
	}
	return def
}

// IntSlice returns a list parameter or the declared default.
func (p Params) IntSlice(key string, def []int) []int {
	v, ok := p[key]
	if !ok {
		return def
	}
	switch vals := v.(type) {
	case []int:
		return vals
	case []any:
		out := make([]int, 0, len(vals))
		for _, item := range vals {
			switch n := item.(type) {
			case int:
				out = append(out, n)
			case float64:
				out = append(out, int(n))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}

func (p Params) lookupFloat(key string) (float64, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Decoder is the decode contract. Each implementation is bound to exactly
// one method identifier from the requirements matrix. A decoder must
// re-validate its own field-level preconditions even when the evaluator
// already judged the method applicable at the family level.
type Decoder interface {
	MethodID() string
	Version() string
	Decode(bundle models.InputBundle, params Params) models.ExperimentResult
}

// Refused builds a standardized REFUSED result: the decode was not
// attempted because a structural precondition or parameter was invalid.
func Refused(methodID, version, reason string) models.ExperimentResult {
	return models.ExperimentResult{
		ExperimentID:   uuid.NewString(),
		MethodID:       methodID,
		DecoderVersion: version,
		Status:         models.ExperimentRefused,
		Diagnostics:    []string{reason},
		CreatedAt:      time.Now().UTC(),
	}
}

// Failed builds a standardized FAILURE result: the decode was attempted
// but the transform degenerated (e.g. empty input).
func Failed(methodID, version, reason string) models.ExperimentResult {
	return models.ExperimentResult{
		ExperimentID:   uuid.NewString(),
		MethodID:       methodID,
		DecoderVersion: version,
		Status:         models.ExperimentFailure,
		Diagnostics:    []string{reason},
		CreatedAt:      time.Now().UTC(),
	}
}

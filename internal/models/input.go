package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Provenance documents where an Input came from: the upstream analyzer
// methods consumed, the parameters those methods ran with, the builder
// version, and a creation timestamp. Never mutated after creation.
type Provenance struct {
	Methods        []string                  `json:"source_methods"`
	MethodParams   map[string]map[string]any `json:"source_params,omitempty"`
	BuilderVersion string                    `json:"builder_version"`
	CreatedAt      time.Time                 `json:"created_at"`
}

// NewProvenance stamps a provenance record with the current UTC time.
func NewProvenance(methods []string, methodParams map[string]map[string]any, builderVersion string) Provenance {
	return Provenance{
		Methods:        methods,
		MethodParams:   methodParams,
		BuilderVersion: builderVersion,
		CreatedAt:      time.Now().UTC(),
	}
}

// Input is one family's observation for one channel. It is a factual
// artifact: availability is a cardinality fact, metrics are descriptive
// numbers, and notes are free-text observations. No field carries a
// pass/fail verdict; judgment belongs to the evaluator.
type Input struct {
	Family     Family             `json:"family"`
	Available  bool               `json:"available"`
	Data       map[string]any     `json:"data,omitempty"`
	Provenance Provenance         `json:"provenance"`
	Metrics    map[string]float64 `json:"metrics"`
	Notes      []string           `json:"notes,omitempty"`
}

// NewInput validates the family tag and returns the immutable observation.
func NewInput(family Family, available bool, data map[string]any, prov Provenance, metrics map[string]float64, notes []string) (Input, error) {
	if !ValidFamily(family) {
		return Input{}, fmt.Errorf("invalid family %q: must be one of %v", family, Families())
	}
	if metrics == nil {
		metrics = map[string]float64{}
	}
	return Input{
		Family:     family,
		Available:  available,
		Data:       data,
		Provenance: prov,
		Metrics:    metrics,
		Notes:      notes,
	}, nil
}

// NoteSummary joins the builder notes into one reason string, or returns
// "unavailable" when the builder recorded none.
func (in Input) NoteSummary() string {
	if len(in.Notes) == 0 {
		return "unavailable"
	}
	return strings.Join(in.Notes, ", ")
}

// InputBundle holds exactly six Inputs, one per family, for one channel.
// It is assembled once and treated as an atomic unit of evidence.
type InputBundle struct {
	Channel string           `json:"channel"`
	Inputs  map[Family]Input `json:"inputs"`
}

// NewInputBundle enforces the exact six-family key set. Partial or extra
// keys indicate a broken contract between builders and are fatal.
func NewInputBundle(channel string, inputs map[Family]Input) (InputBundle, error) {
	var missing, extra []string
	for _, f := range Families() {
		if _, ok := inputs[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	for f := range inputs {
		if !ValidFamily(f) {
			extra = append(extra, string(f))
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(missing)
		sort.Strings(extra)
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, fmt.Sprintf("missing: %v", missing))
		}
		if len(extra) > 0 {
			parts = append(parts, fmt.Sprintf("extra: %v", extra))
		}
		return InputBundle{}, fmt.Errorf("input bundle for channel %q must have exactly E,Δ,S,V,M,R (%s)", channel, strings.Join(parts, ", "))
	}
	copied := make(map[Family]Input, len(inputs))
	for f, in := range inputs {
		copied[f] = in
	}
	return InputBundle{Channel: channel, Inputs: copied}, nil
}

// Input returns the observation for one family. The bundle invariant
// guarantees every canonical family is present.
func (b InputBundle) Input(family Family) Input {
	return b.Inputs[family]
}

package models

import "time"

// ExperimentStatus is the outcome of a single decoding attempt.
type ExperimentStatus string

const (
	// ExperimentSuccess: the decoding procedure executed and produced artifacts.
	ExperimentSuccess ExperimentStatus = "success"
	// ExperimentFailure: decoding was attempted but failed structurally.
	ExperimentFailure ExperimentStatus = "failure"
	// ExperimentRefused: decoding was not attempted (unmet preconditions or
	// invalid parameters).
	ExperimentRefused ExperimentStatus = "refused"
)

// ExperimentResult is the outcome of one decode attempt under fixed,
// explicit parameters. It carries structural artifacts only and makes no
// claim about the meaning or correctness of decoded content.
type ExperimentResult struct {
	ExperimentID   string           `json:"experiment_id"`
	MethodID       string           `json:"method_id"`
	DecoderVersion string           `json:"decoder_version"`
	Status         ExperimentStatus `json:"status"`

	// ParametersUsed holds the exact parameters the decoder ran with.
	ParametersUsed map[string]any `json:"parameters_used"`

	// Artifacts are decoder-specific structural outputs: symbol streams,
	// bitstreams, text hypotheses, counts.
	Artifacts map[string]any `json:"artifacts,omitempty"`

	// Diagnostics are factual observations; every non-success result has
	// at least one human-readable reason here.
	Diagnostics []string `json:"diagnostics,omitempty"`

	// InputsProvenance carries the provenance of the inputs actually consumed.
	InputsProvenance map[Family]Provenance `json:"inputs_provenance,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

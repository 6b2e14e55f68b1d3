package models

import (
	"fmt"
	"time"
)

// ApplicabilityStatus is the evaluator's judgment for one method.
type ApplicabilityStatus string

const (
	// StatusApplicable: all required inputs present and stable.
	StatusApplicable ApplicabilityStatus = "applicable"
	// StatusMissingInputs: at least one required input unavailable.
	StatusMissingInputs ApplicabilityStatus = "missing_inputs"
	// StatusUnderconstrained: required inputs present but at least one unstable.
	StatusUnderconstrained ApplicabilityStatus = "underconstrained"
	// StatusNotApplicable: structural incompatibility. Reserved.
	StatusNotApplicable ApplicabilityStatus = "not_applicable"
)

// EvaluationProvenance records how an applicability evaluation was
// performed. EvaluatedAt is informational only and is excluded from the
// report's logical content for equality and idempotence purposes.
type EvaluationProvenance struct {
	MethodSource  string         `json:"method_source"`
	ParamsVersion string         `json:"params_version"`
	BundleChannel string         `json:"bundle_channel"`
	Thresholds    map[string]any `json:"thresholds"`
	EvaluatedAt   time.Time      `json:"evaluated_at"`
}

// ApplicabilityReport is the evaluator output for one (method, bundle,
// threshold-set) combination. Judgment outcomes are values, not errors.
type ApplicabilityReport struct {
	MethodID       string               `json:"method_id"`
	MethodFamily   string               `json:"method_family"`
	Label          string               `json:"label"`
	Status         ApplicabilityStatus  `json:"status"`
	RequiredInputs []Family             `json:"required_inputs"`
	MissingInputs  map[Family]string    `json:"missing_inputs,omitempty"`
	UnstableInputs map[Family]string    `json:"unstable_inputs,omitempty"`
	Diagnostics    []string             `json:"diagnostics,omitempty"`
	Provenance     EvaluationProvenance `json:"provenance"`
}

// IsApplicable reports whether the method may be attempted.
func (r ApplicabilityReport) IsApplicable() bool {
	return r.Status == StatusApplicable
}

// Summary gives the one-line form used in logs and reports.
func (r ApplicabilityReport) Summary() string {
	return fmt.Sprintf("%s: %s", r.MethodID, r.Status)
}

package engine

import (
	"fmt"
	"time"

	"github.com/decodestack/decode-gate/internal/models"
)

// Evaluate judges whether one method can be attempted against a bundle,
// using only the explicit thresholds in params. It is a pure function:
// identical (requirements, bundle, params) always yields an identical
// report, modulo the provenance timestamp.
//
// A required family that is unavailable is recorded as missing and is not
// also checked for stability: a method cannot be merely underconstrained
// when its evidence does not exist at all.
func Evaluate(method models.MethodRequirements, bundle models.InputBundle, params Params) models.ApplicabilityReport {
	required := method.RequiredFamilies()

	missing := map[models.Family]string{}
	unstable := map[models.Family]string{}
	var diagnostics []string

	for _, family := range required {
		in := bundle.Input(family)

		if !in.Available {
			reason := in.NoteSummary()
			missing[family] = reason
			diagnostics = append(diagnostics, fmt.Sprintf("%s: %s", family, reason))
			continue
		}

		if stable, reason := checkStability(in, params); !stable {
			unstable[family] = reason
			diagnostics = append(diagnostics, fmt.Sprintf("%s: %s", family, reason))
		}
	}

	// Missing takes precedence over unstable.
	status := models.StatusApplicable
	switch {
	case len(missing) > 0:
		status = models.StatusMissingInputs
	case len(unstable) > 0:
		status = models.StatusUnderconstrained
	}

	return models.ApplicabilityReport{
		MethodID:       method.MethodID,
		MethodFamily:   method.MethodFamily,
		Label:          method.Label,
		Status:         status,
		RequiredInputs: required,
		MissingInputs:  missing,
		UnstableInputs: unstable,
		Diagnostics:    diagnostics,
		Provenance: models.EvaluationProvenance{
			MethodSource:  method.SourceFile,
			ParamsVersion: params.Version,
			BundleChannel: bundle.Channel,
			Thresholds:    params.Thresholds(),
			EvaluatedAt:   time.Now().UTC(),
		},
	}
}

// checkStability applies the family-specific stability predicate. The
// reason string embeds the measured value and the threshold it failed.
func checkStability(in models.Input, params Params) (bool, string) {
	metrics := in.Metrics

	switch in.Family {
	case models.FamilyEvents:
		regularity := metrics["regularity_score"]
		if regularity < params.MinRegularity {
			return false, fmt.Sprintf("low regularity %.3f < %g", regularity, params.MinRegularity)
		}

	case models.FamilyIntervals:
		cv := metrics["coefficient_of_variation"]
		if cv > params.MaxCV {
			return false, fmt.Sprintf("high CV %.3f > %g", cv, params.MaxCV)
		}

	case models.FamilySymbols:
		minRatio := metrics["ratio_short"]
		if r := metrics["ratio_long"]; r < minRatio {
			minRatio = r
		}
		if minRatio < params.MinSymbolBalance {
			return false, fmt.Sprintf("unbalanced %.3f < %g", minRatio, params.MinSymbolBalance)
		}

	case models.FamilyVectors:
		sources := int(metrics["num_sources"])
		if sources < params.MinVectorSources {
			return false, fmt.Sprintf("insufficient sources %d < %d", sources, params.MinVectorSources)
		}

	case models.FamilyMatrices:
		if metrics["is_proxy_only"] > 0.5 && !params.AcceptMatrixProxies {
			return false, "using proxies only (set accept_matrix_proxies to allow)"
		}
		if windows, ok := metrics["num_windows"]; ok && int(windows) < params.MinMatrixWindows {
			return false, fmt.Sprintf("insufficient windows %d < %d", int(windows), params.MinMatrixWindows)
		}

	case models.FamilyRelations:
		types := int(metrics["num_relation_types"])
		if types < params.MinRelationTypes {
			return false, fmt.Sprintf("insufficient types %d < %d", types, params.MinRelationTypes)
		}
	}

	return true, ""
}

// EvaluateAll evaluates every method in the matrix against one bundle.
func EvaluateAll(matrix models.RequirementsMatrix, bundle models.InputBundle, params Params) map[string]models.ApplicabilityReport {
	reports := make(map[string]models.ApplicabilityReport, len(matrix.Methods))
	for id, method := range matrix.Methods {
		reports[id] = Evaluate(method, bundle, params)
	}
	return reports
}

// FilterApplicable keeps only the reports judged applicable.
func FilterApplicable(reports map[string]models.ApplicabilityReport) map[string]models.ApplicabilityReport {
	out := make(map[string]models.ApplicabilityReport)
	for id, report := range reports {
		if report.IsApplicable() {
			out[id] = report
		}
	}
	return out
}

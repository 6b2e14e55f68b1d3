// Package builders converts raw per-channel measurements into typed,
// provenance-carrying observations, one per input family. Builders report
// facts only: counts, descriptive statistics, and availability by
// family-specific minimum cardinality. Quality and stability judgments
// belong to the applicability evaluator.
package builders

// Source is the narrow read interface over the upstream analyzer's
// measurements. A nil return means the method was not run; that is the
// normal case, never an error.
type Source interface {
	// Method returns the measurements for one method on one channel.
	Method(name, channel string) map[string]any
	// MethodAllChannels returns every measurement mapping a method
	// produced, keyed by channel or pair name (e.g. "left_vs_right").
	MethodAllChannels(name string) map[string]map[string]any
	// MethodMetrics returns the parameters a method ran with.
	MethodMetrics(name string) map[string]any
}

const builderVersion = "1.0.0"

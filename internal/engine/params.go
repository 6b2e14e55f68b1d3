package engine

// Params holds the explicit, versioned thresholds used by applicability
// evaluation. One value is shared by reference across every evaluation in
// a run and never mutated mid-run; mutating it would break report
// comparability within that run.
type Params struct {
	// Version identifies this threshold set for reproducibility.
	Version string `yaml:"version"`

	// MinRegularity is the minimum events regularity score (0..1).
	MinRegularity float64 `yaml:"minRegularity"`

	// MaxCV is the maximum coefficient of variation (std/mean) for intervals.
	MaxCV float64 `yaml:"maxCV"`

	// MinSymbolBalance is the minimum ratio of the minority symbol class.
	MinSymbolBalance float64 `yaml:"minSymbolBalance"`

	// MinVectorSources is the minimum count of distinct vector sources.
	MinVectorSources int `yaml:"minVectorSources"`

	// MinMatrixWindows is the minimum window count for time-series matrix
	// proxies that report one.
	MinMatrixWindows int `yaml:"minMatrixWindows"`

	// AcceptMatrixProxies allows time-series proxies to stand in for full
	// time-frequency matrices. Proxies and full matrices are not
	// equivalent; the default is strict.
	AcceptMatrixProxies bool `yaml:"acceptMatrixProxies"`

	// MinRelationTypes is the minimum count of distinct relation types.
	MinRelationTypes int `yaml:"minRelationTypes"`
}

// DefaultParams returns the permissive baseline thresholds.
func DefaultParams() Params {
	return Params{
		Version:             "1.0.0",
		MinRegularity:       0.1,
		MaxCV:               1.0,
		MinSymbolBalance:    0.2,
		MinVectorSources:    3,
		MinMatrixWindows:    10,
		AcceptMatrixProxies: false,
		MinRelationTypes:    1,
	}
}

// Thresholds returns the parameter values for evaluation provenance.
func (p Params) Thresholds() map[string]any {
	return map[string]any{
		"min_regularity":        p.MinRegularity,
		"max_cv":                p.MaxCV,
		"min_symbol_balance":    p.MinSymbolBalance,
		"min_vector_sources":    p.MinVectorSources,
		"min_matrix_windows":    p.MinMatrixWindows,
		"accept_matrix_proxies": p.AcceptMatrixProxies,
		"min_relation_types":    p.MinRelationTypes,
	}
}

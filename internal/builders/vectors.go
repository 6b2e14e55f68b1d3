package builders

import (
	"fmt"

	"github.com/decodestack/decode-gate/internal/models"
)

// vectorSources maps analyzer methods to the scalar features they
// contribute to the V family.
var vectorSources = map[string][]string{
	"shannon_entropy":    {"shannon_entropy", "normalized_entropy"},
	"local_entropy":      {"mean_entropy", "std_entropy"},
	"compression_ratio":  {"compression_ratio"},
	"am_detection":       {"modulation_depth", "modulation_index"},
	"fm_detection":       {"frequency_deviation"},
	"fft_global":         {"peak_frequency", "spectral_energy"},
	"peak_detection":     {"num_peaks"},
	"spectral_centroid":  {"centroid_mean"},
	"spectral_bandwidth": {"bandwidth_mean"},
	"spectral_flatness":  {"flatness_mean"},
	"band_stability":     {"stability"},
	"harmonic_analysis":  {"harmonic_ratio"},
}

// BuildVectors builds the V family by aggregating every available
// statistical or spectral analysis. The number of contributing sources is
// a factual count, not a sufficiency judgment.
func BuildVectors(src Source, channel string) models.Input {
	vectors := map[string]any{}
	var methods []string
	params := map[string]map[string]any{}

	for name := range vectorSources {
		data := src.Method(name, channel)
		if data == nil {
			continue
		}
		methods = append(methods, name)
		if p := src.MethodMetrics(name); p != nil {
			params[name] = p
		}
		vectors[name] = data
	}
	prov := models.NewProvenance(methods, params, builderVersion)

	if len(vectors) == 0 {
		return models.Input{
			Family:     models.FamilyVectors,
			Available:  false,
			Provenance: prov,
			Metrics:    map[string]float64{},
			Notes:      []string{"no vector analyses in measurement set"},
		}
	}

	numFeatures := 0
	for _, v := range vectors {
		if m, ok := v.(map[string]any); ok {
			numFeatures += len(m)
		}
	}

	metrics := map[string]float64{
		"num_sources":  float64(len(vectors)),
		"num_features": float64(numFeatures),
	}

	return models.Input{
		Family:     models.FamilyVectors,
		Available:  len(vectors) >= 1,
		Data:       map[string]any{"vectors": vectors},
		Provenance: prov,
		Metrics:    metrics,
		Notes:      []string{fmt.Sprintf("%d vector source(s)", len(vectors))},
	}
}

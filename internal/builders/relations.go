package builders

import (
	"fmt"
	"strings"

	"github.com/decodestack/decode-gate/internal/models"
)

// relationMethods are the inter-channel analyses aggregated into R.
var relationMethods = []string{
	"cross_correlation",
	"phase_difference",
	"time_delay",
	"lr_difference",
}

// BuildRelations builds the R family. Besides the channel-specific
// measurements, globally reported cross-channel pairs (keys containing
// "_vs_", e.g. "left_vs_right") are always merged in so that requesting a
// single channel does not lose pairwise data. On key collision the
// channel-specific entry wins.
//
// TODO: the channel-over-global precedence is preserved from the existing
// rule files' expectations; revisit whether global pair data should ever
// be shadowed by a channel-specific key of the same name.
func BuildRelations(src Source, channel string) models.Input {
	relations := map[string]any{}
	var methods []string
	params := map[string]map[string]any{}

	for _, name := range relationMethods {
		merged := map[string]any{}

		if all := src.MethodAllChannels(name); all != nil {
			for key, data := range all {
				if strings.Contains(key, "_vs_") {
					merged[key] = data
				}
			}
		}
		if chData := src.Method(name, channel); chData != nil {
			for key, value := range chData {
				merged[key] = value
			}
		}

		if len(merged) == 0 {
			continue
		}
		methods = append(methods, name)
		if p := src.MethodMetrics(name); p != nil {
			params[name] = p
		}
		relations[name] = merged
	}
	prov := models.NewProvenance(methods, params, builderVersion)

	if len(relations) == 0 {
		return models.Input{
			Family:     models.FamilyRelations,
			Available:  false,
			Provenance: prov,
			Metrics:    map[string]float64{},
			Notes:      []string{"no inter-channel analyses in measurement set"},
		}
	}

	metrics := map[string]float64{
		"num_relation_types": float64(len(relations)),
	}

	return models.Input{
		Family:     models.FamilyRelations,
		Available:  len(relations) >= 1,
		Data:       map[string]any{"relations": relations},
		Provenance: prov,
		Metrics:    metrics,
		Notes:      []string{fmt.Sprintf("%d relation type(s)", len(relations))},
	}
}

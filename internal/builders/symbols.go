package builders

import (
	"fmt"

	"github.com/decodestack/decode-gate/internal/models"
)

// SymbolAlphabet is the two-symbol alphabet produced by the interval
// discretization. Intervals strictly below the median threshold map to
// the first symbol.
var SymbolAlphabet = []string{"short", "long"}

// BuildSymbols builds the S family by discretizing intervals with a
// median threshold. The discretization method and alphabet are recorded
// in provenance so the choice stays auditable.
func BuildSymbols(src Source, channel string) models.Input {
	pulse := src.Method("pulse_detection", channel)

	var methods []string
	params := map[string]map[string]any{}
	if pulse != nil {
		methods = append(methods, "pulse_detection")
		if p := src.MethodMetrics("pulse_detection"); p != nil {
			params["pulse_detection"] = p
		}
	}
	params["discretization"] = map[string]any{
		"method":   "median_threshold",
		"alphabet": SymbolAlphabet,
	}
	prov := models.NewProvenance(methods, params, builderVersion)

	if pulse == nil {
		return models.Input{
			Family:     models.FamilySymbols,
			Available:  false,
			Provenance: prov,
			Metrics:    map[string]float64{},
			Notes:      []string{"pulse_detection not present in measurement set"},
		}
	}

	// Two symbols need two intervals, hence three events.
	positions := toFloatSlice(pulse["pulse_positions"])
	if len(positions) < 3 {
		return models.Input{
			Family:     models.FamilySymbols,
			Available:  false,
			Provenance: prov,
			Metrics:    map[string]float64{"num_events": float64(len(positions))},
			Notes:      []string{fmt.Sprintf("only %d event(s), need ≥3", len(positions))},
		}
	}

	intervals := diff(positions)
	threshold := median(intervals)

	symbols := make([]string, len(intervals))
	shortCount := 0
	for i, v := range intervals {
		if v < threshold {
			symbols[i] = SymbolAlphabet[0]
			shortCount++
		} else {
			symbols[i] = SymbolAlphabet[1]
		}
	}

	total := len(symbols)
	pShort := float64(shortCount) / float64(total)
	pLong := float64(total-shortCount) / float64(total)

	metrics := map[string]float64{
		"num_symbols":              float64(total),
		"symbol_entropy":           binaryEntropy(pShort, pLong),
		"ratio_short":              pShort,
		"ratio_long":               pLong,
		"discretization_threshold": threshold,
	}

	return models.Input{
		Family:    models.FamilySymbols,
		Available: total >= 2,
		Data: map[string]any{
			"symbols":   symbols,
			"alphabet":  SymbolAlphabet,
			"threshold": threshold,
		},
		Provenance: prov,
		Metrics:    metrics,
	}
}

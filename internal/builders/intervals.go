package builders

import (
	"fmt"

	"github.com/decodestack/decode-gate/internal/models"
)

// BuildIntervals builds the Δ family: successive differences of detected
// event positions. The coefficient of variation is reported as a factual
// metric; whether it is "too high" is the evaluator's call.
func BuildIntervals(src Source, channel string) models.Input {
	pulse := src.Method("pulse_detection", channel)

	var methods []string
	params := map[string]map[string]any{}
	if pulse != nil {
		methods = append(methods, "pulse_detection")
		if p := src.MethodMetrics("pulse_detection"); p != nil {
			params["pulse_detection"] = p
		}
	}
	prov := models.NewProvenance(methods, params, builderVersion)

	if pulse == nil {
		return models.Input{
			Family:     models.FamilyIntervals,
			Available:  false,
			Provenance: prov,
			Metrics:    map[string]float64{},
			Notes:      []string{"pulse_detection not present in measurement set"},
		}
	}

	positions := toFloatSlice(pulse["pulse_positions"])
	if len(positions) < 2 {
		return models.Input{
			Family:     models.FamilyIntervals,
			Available:  false,
			Provenance: prov,
			Metrics:    map[string]float64{"num_events": float64(len(positions))},
			Notes:      []string{fmt.Sprintf("only %d event(s), need ≥2", len(positions))},
		}
	}

	intervals := diff(positions)
	m := mean(intervals)
	sd := stdDev(intervals, m)
	cv := 0.0
	if m > 0 {
		cv = sd / m
	}
	lo, hi := minMax(intervals)

	metrics := map[string]float64{
		"num_intervals":            float64(len(intervals)),
		"interval_mean":            m,
		"interval_std":             sd,
		"interval_min":             lo,
		"interval_max":             hi,
		"coefficient_of_variation": cv,
	}

	return models.Input{
		Family:     models.FamilyIntervals,
		Available:  len(intervals) >= 1,
		Data:       map[string]any{"intervals": intervals},
		Provenance: prov,
		Metrics:    metrics,
	}
}

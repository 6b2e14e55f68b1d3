package builders

import (
	"fmt"

	"github.com/decodestack/decode-gate/internal/models"
)

// BuildEvents builds the E family from the analyzer's pulse detection.
// Availability is a cardinality fact: at least two detected events are
// needed before intervals can exist downstream.
func BuildEvents(src Source, channel string) models.Input {
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
			Family:     models.FamilyEvents,
			Available:  false,
			Provenance: prov,
			Metrics:    map[string]float64{},
			Notes:      []string{"pulse_detection not present in measurement set"},
		}
	}

	positions := toFloatSlice(pulse["pulse_positions"])
	numEvents := int(floatOrZero(pulse["num_pulses"]))
	if numEvents == 0 {
		numEvents = len(positions)
	}

	metrics := map[string]float64{
		"num_events":       float64(numEvents),
		"regularity_score": floatOrZero(pulse["regularity_score"]),
		"interval_mean":    floatOrZero(pulse["interval_mean"]),
		"interval_std":     floatOrZero(pulse["interval_std"]),
	}

	var notes []string
	if numEvents < 2 {
		notes = append(notes, fmt.Sprintf("only %d event(s), need ≥2 for intervals", numEvents))
	}

	return models.Input{
		Family:     models.FamilyEvents,
		Available:  numEvents >= 2,
		Data:       map[string]any{"positions": positions},
		Provenance: prov,
		Metrics:    metrics,
		Notes:      notes,
	}
}

package decoders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decodestack/decode-gate/internal/models"
)

func bundleWithIntervals(t *testing.T, intervals []float64) models.InputBundle {
	t.Helper()
	inputs := map[models.Family]models.Input{}
	for _, f := range models.Families() {
		inputs[f] = models.Input{Family: f}
	}
	inputs[models.FamilyIntervals] = models.Input{
		Family:    models.FamilyIntervals,
		Available: true,
		Data:      map[string]any{"intervals": intervals},
		Provenance: models.Provenance{
			Methods:        []string{"pulse_detection"},
			BuilderVersion: "1.0.0",
		},
	}
	b, err := models.NewInputBundle("left", inputs)
	require.NoError(t, err)
	return b
}

func TestDurationDecode(t *testing.T) {
	d := NewDurationDecoder()
	bundle := bundleWithIntervals(t, []float64{0.05, 0.25, 0.05, 0.25})

	result := d.Decode(bundle, Params{"dot_max": 0.12, "dash_min": 0.20})

	require.Equal(t, models.ExperimentSuccess, result.Status)
	assert.Equal(t, "duration_based_morse_like", result.MethodID)
	assert.Equal(t, []string{".", "-", ".", "-"}, result.Artifacts["symbol_stream"])
	assert.Equal(t, []int{0, 1, 0, 1}, result.Artifacts["bitstream"])

	counts := result.Artifacts["symbol_counts"].(map[string]int)
	assert.Equal(t, 2, counts["dot"])
	assert.Equal(t, 2, counts["dash"])
	assert.Equal(t, 0, counts["ambiguous"])

	assert.Equal(t, 0.12, result.ParametersUsed["dot_max"])
	assert.Equal(t, 0.20, result.ParametersUsed["dash_min"])
	assert.Contains(t, result.InputsProvenance, models.FamilyIntervals)
	assert.NotEmpty(t, result.ExperimentID)
}

func TestDurationDecodeGapSeparators(t *testing.T) {
	d := NewDurationDecoder()
	bundle := bundleWithIntervals(t, []float64{0.05, 0.5, 0.25, 1.2, 0.15})

	result := d.Decode(bundle, Params{
		"dot_max":        0.12,
		"dash_min":       0.20,
		"letter_gap_min": 0.4,
		"word_gap_min":   1.0,
	})

	require.Equal(t, models.ExperimentSuccess, result.Status)
	// Word gap outranks letter gap; dash boundary only applies below the gaps.
	assert.Equal(t, []string{".", "|", "-", "/", "?"}, result.Artifacts["symbol_stream"])
	assert.Equal(t, []int{0, NoBit, 1, NoBit, NoBit}, result.Artifacts["bitstream"])
}

func TestDurationDecodeInvalidParams(t *testing.T) {
	d := NewDurationDecoder()
	bundle := bundleWithIntervals(t, []float64{0.05, 0.25})

	cases := []struct {
		name   string
		params Params
		reason string
	}{
		{"dot_max above dash_min", Params{"dot_max": 0.3, "dash_min": 0.2}, "dot_max"},
		{"non-positive dot_max", Params{"dot_max": 0.0}, "dot_max"},
		{"non-positive dash_min", Params{"dash_min": -1.0}, "dash_min"},
		{"letter gap above word gap", Params{"letter_gap_min": 2.0, "word_gap_min": 1.0}, "letter_gap_min"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := d.Decode(bundle, tc.params)
			assert.Equal(t, models.ExperimentRefused, result.Status)
			require.NotEmpty(t, result.Diagnostics)
			assert.Contains(t, result.Diagnostics[0], tc.reason)
		})
	}
}

func TestDurationDecodeMissingInput(t *testing.T) {
	d := NewDurationDecoder()

	inputs := map[models.Family]models.Input{}
	for _, f := range models.Families() {
		inputs[f] = models.Input{Family: f}
	}
	bundle, err := models.NewInputBundle("left", inputs)
	require.NoError(t, err)

	result := d.Decode(bundle, nil)
	assert.Equal(t, models.ExperimentRefused, result.Status)
}

func TestDurationDecodeEmptyIntervals(t *testing.T) {
	d := NewDurationDecoder()
	bundle := bundleWithIntervals(t, []float64{})

	result := d.Decode(bundle, nil)
	assert.Equal(t, models.ExperimentFailure, result.Status)
	require.NotEmpty(t, result.Diagnostics)
	assert.Contains(t, result.Diagnostics[0], "empty")
}

package decoders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decodestack/decode-gate/internal/models"
)

func TestRegistryUnknownMethodRefuses(t *testing.T) {
	r := Default()
	bundle := bundleWithIntervals(t, []float64{0.1, 0.2})

	result := r.Decode("frequency_shift_fsk", bundle, nil)

	assert.Equal(t, models.ExperimentRefused, result.Status)
	assert.Equal(t, "frequency_shift_fsk", result.MethodID)
	require.NotEmpty(t, result.Diagnostics)
	assert.Contains(t, result.Diagnostics[0], "decoder not implemented")
}

func TestRegistryDispatch(t *testing.T) {
	r := Default()

	d, ok := r.Get("duration_based_morse_like")
	require.True(t, ok)
	assert.Equal(t, "duration_based_morse_like", d.MethodID())

	_, ok = r.Get("nope")
	assert.False(t, ok)

	bundle := bundleWithIntervals(t, []float64{0.05, 0.25})
	result := r.Decode("duration_based_morse_like", bundle, nil)
	assert.Equal(t, models.ExperimentSuccess, result.Status)
}

func TestRegistryVersions(t *testing.T) {
	versions := Default().Versions()
	assert.Equal(t, map[string]string{
		"duration_based_morse_like": "0.1.0",
		"amplitude_modulation_am":   "1.0.0",
	}, versions)
}

func TestParamsCoercion(t *testing.T) {
	p := Params{
		"f64":   1.5,
		"int":   3,
		"json":  []any{8.0, 7.0},
		"slice": []int{5, 6},
	}

	assert.Equal(t, 1.5, p.Float("f64", 0))
	assert.Equal(t, 0.25, p.Float("absent", 0.25))
	assert.Equal(t, 3, p.Int("int", 0))
	assert.Equal(t, 9, p.Int("absent", 9))
	assert.Equal(t, []int{8, 7}, p.IntSlice("json", nil))
	assert.Equal(t, []int{5, 6}, p.IntSlice("slice", nil))
	assert.Equal(t, []int{8}, p.IntSlice("absent", []int{8}))

	_, ok := p.FloatOpt("absent")
	assert.False(t, ok)
	v, ok := p.FloatOpt("f64")
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilies(t *testing.T) {
	assert.Equal(t, []Family{"E", "Δ", "S", "V", "M", "R"}, Families())

	for _, f := range Families() {
		assert.True(t, ValidFamily(f), "family %q should be valid", f)
	}
	assert.False(t, ValidFamily("X"))
	assert.False(t, ValidFamily(""))
}

func TestNewInputRejectsUnknownFamily(t *testing.T) {
	_, err := NewInput("X", true, nil, Provenance{}, nil, nil)
	require.Error(t, err)

	in, err := NewInput(FamilyEvents, true, nil, Provenance{}, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, in.Metrics, "metrics map should never be nil")
}

func TestNoteSummary(t *testing.T) {
	in := Input{Family: FamilyEvents}
	assert.Equal(t, "unavailable", in.NoteSummary())

	in.Notes = []string{"only 1 event(s)", "need ≥2"}
	assert.Equal(t, "only 1 event(s), need ≥2", in.NoteSummary())
}

func fullInputs() map[Family]Input {
	inputs := make(map[Family]Input, len(Families()))
	for _, f := range Families() {
		inputs[f] = Input{Family: f, Available: true}
	}
	return inputs
}

func TestNewInputBundleExactFamilies(t *testing.T) {
	b, err := NewInputBundle("left", fullInputs())
	require.NoError(t, err)
	assert.Equal(t, "left", b.Channel)
	assert.Len(t, b.Inputs, 6)

	t.Run("missing family", func(t *testing.T) {
		inputs := fullInputs()
		delete(inputs, FamilyMatrices)
		_, err := NewInputBundle("left", inputs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing: [M]")
	})

	t.Run("extra family", func(t *testing.T) {
		inputs := fullInputs()
		inputs["Z"] = Input{Family: "Z"}
		_, err := NewInputBundle("left", inputs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "extra: [Z]")
	})
}

func TestInputBundleIsolatedFromCallerMap(t *testing.T) {
	inputs := fullInputs()
	b, err := NewInputBundle("left", inputs)
	require.NoError(t, err)

	inputs[FamilyEvents] = Input{Family: FamilyEvents, Available: false}
	assert.True(t, b.Input(FamilyEvents).Available, "bundle must not alias the caller's map")
}

func TestMethodRequirementsValidate(t *testing.T) {
	valid := MethodRequirements{
		MethodID:     "duration_based_morse_like",
		MethodFamily: "time_domain",
		Label:        "Duration-based",
		Requires: map[Family]RequirementLevel{
			FamilyEvents:    RequirementOptional,
			FamilyIntervals: RequirementRequired,
			FamilySymbols:   RequirementOptional,
			FamilyVectors:   RequirementNotApplicable,
			FamilyMatrices:  RequirementNotApplicable,
			FamilyRelations: RequirementNotApplicable,
		},
	}
	require.NoError(t, valid.Validate())
	assert.Equal(t, []Family{FamilyIntervals}, valid.RequiredFamilies())

	t.Run("missing family level", func(t *testing.T) {
		m := valid
		m.Requires = map[Family]RequirementLevel{FamilyIntervals: RequirementRequired}
		assert.Error(t, m.Validate())
	})

	t.Run("bad level", func(t *testing.T) {
		m := valid
		m.Requires = map[Family]RequirementLevel{}
		for f, l := range valid.Requires {
			m.Requires[f] = l
		}
		m.Requires[FamilyEvents] = "mandatory"
		assert.Error(t, m.Validate())
	})
}

func TestRequirementsMatrixLookups(t *testing.T) {
	m := RequirementsMatrix{
		SchemaVersion: "1.0.0",
		Methods: map[string]MethodRequirements{
			"a": {MethodID: "a", MethodFamily: "time_domain"},
			"b": {MethodID: "b", MethodFamily: "modulation"},
		},
	}

	got, ok := m.Method("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.MethodID)

	_, ok = m.Method("missing")
	assert.False(t, ok)

	byFamily := m.MethodsByFamily("modulation")
	assert.Len(t, byFamily, 1)
	assert.Contains(t, byFamily, "b")
}

func TestApplicabilityReport(t *testing.T) {
	r := ApplicabilityReport{MethodID: "a", Status: StatusApplicable}
	assert.True(t, r.IsApplicable())
	assert.Equal(t, "a: applicable", r.Summary())

	r.Status = StatusMissingInputs
	assert.False(t, r.IsApplicable())
}

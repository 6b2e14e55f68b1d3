package matrix

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decodestack/decode-gate/internal/models"
)

const validIndex = `
schema_version: "1.0.0"
input_families: ["E", "Δ", "S", "V", "M", "R"]
matrices:
  - file: time_domain.yaml
    family: time_domain
`

const validTimeDomain = `
family: time_domain
methods:
  duration_based_morse_like:
    label: "Duration-based decoding"
    requires:
      E: optional
      Δ: required
      S: optional
      V: not_applicable
      M: not_applicable
      R: not_applicable
`

func writePack(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadValidPack(t *testing.T) {
	dir := writePack(t, map[string]string{
		"_index.yaml":      validIndex,
		"time_domain.yaml": validTimeDomain,
	})

	m, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", m.SchemaVersion)
	require.Len(t, m.Methods, 1)

	method, ok := m.Method("duration_based_morse_like")
	require.True(t, ok)
	assert.Equal(t, "time_domain", method.MethodFamily)
	assert.Equal(t, "time_domain.yaml", method.SourceFile)
	assert.Equal(t, models.RequirementRequired, method.Requires[models.FamilyIntervals])
	assert.Equal(t, []models.Family{models.FamilyIntervals}, method.RequiredFamilies())
}

func TestLoadMissingIndex(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoadFamilyMismatch(t *testing.T) {
	dir := writePack(t, map[string]string{
		"_index.yaml": validIndex,
		"time_domain.yaml": `
family: modulation
methods:
  x:
    label: "X"
    requires: {E: optional, Δ: required, S: optional, V: not_applicable, M: not_applicable, R: not_applicable}
`,
	})

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "family mismatch")
}

func TestLoadWrongInputFamilies(t *testing.T) {
	dir := writePack(t, map[string]string{
		"_index.yaml": `
schema_version: "1.0.0"
input_families: ["E", "D", "S", "V", "M", "R"]
matrices:
  - file: time_domain.yaml
    family: time_domain
`,
		"time_domain.yaml": validTimeDomain,
	})

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input_families mismatch")
}

func TestLoadIncompleteRequires(t *testing.T) {
	dir := writePack(t, map[string]string{
		"_index.yaml": validIndex,
		"time_domain.yaml": `
family: time_domain
methods:
  partial:
    label: "Partial"
    requires: {Δ: required}
`,
	})

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing requirement level")
}

func TestLoadInvalidLevel(t *testing.T) {
	dir := writePack(t, map[string]string{
		"_index.yaml": validIndex,
		"time_domain.yaml": `
family: time_domain
methods:
  bad:
    label: "Bad"
    requires: {E: optional, Δ: mandatory, S: optional, V: not_applicable, M: not_applicable, R: not_applicable}
`,
	})

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid requirement level")
}

func TestLoadDuplicateMethod(t *testing.T) {
	dir := writePack(t, map[string]string{
		"_index.yaml": `
schema_version: "1.0.0"
input_families: ["E", "Δ", "S", "V", "M", "R"]
matrices:
  - file: time_domain.yaml
    family: time_domain
  - file: modulation.yaml
    family: modulation
`,
		"time_domain.yaml": validTimeDomain,
		"modulation.yaml": `
family: modulation
methods:
  duration_based_morse_like:
    label: "Duplicate"
    requires: {E: optional, Δ: required, S: optional, V: not_applicable, M: not_applicable, R: not_applicable}
`,
	})

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate method id")
}

func TestLoadShippedPack(t *testing.T) {
	m, err := Load(filepath.Join("..", "..", "configs", "matrices"))
	require.NoError(t, err)
	assert.NotEmpty(t, m.Methods)
	assert.Contains(t, m.Methods, "duration_based_morse_like")
	assert.Contains(t, m.Methods, "amplitude_modulation_am")
}

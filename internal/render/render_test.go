package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decodestack/decode-gate/internal/decoders"
	"github.com/decodestack/decode-gate/internal/engine"
	"github.com/decodestack/decode-gate/internal/models"
)

func sampleRun() engine.RunResult {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	return engine.RunResult{
		RunID:               "11111111-2222-3333-4444-555555555555",
		Source:              "test/results.json",
		MatrixSchemaVersion: "1.0.0",
		StartedAt:           now,
		CompletedAt:         now.Add(120 * time.Millisecond),
		Channels: map[string]engine.ChannelResult{
			"left": {
				Channel: "left",
				Applicability: map[string]models.ApplicabilityReport{
					"duration_based_morse_like": {
						MethodID:     "duration_based_morse_like",
						MethodFamily: "time_domain",
						Status:       models.StatusApplicable,
					},
					"needs_relations": {
						MethodID:     "needs_relations",
						MethodFamily: "cross_channel",
						Status:       models.StatusMissingInputs,
						Diagnostics:  []string{"R: no inter-channel analyses in measurement set"},
					},
				},
				Experiments: map[string]models.ExperimentResult{
					"duration_based_morse_like": {
						ExperimentID:   "exp-1",
						MethodID:       "duration_based_morse_like",
						DecoderVersion: "0.1.0",
						Status:         models.ExperimentSuccess,
						Diagnostics:    []string{"intervals transformed: 4"},
						Artifacts: map[string]any{
							"symbol_stream": []string{".", "-", ".", "-"},
							"text_hypotheses": []decoders.TextCandidate{
								{
									Origin:         "S.symbols",
									Mapping:        "short=0,long=1",
									FrameBits:      8,
									MSBFirst:       true,
									PrintableRatio: 1.0,
									Text:           "HI",
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestRenderRun(t *testing.T) {
	md := RenderRun(sampleRun(), "Structural Decoding Report")

	assert.Contains(t, md, "# Structural Decoding Report")
	assert.Contains(t, md, "## Channel: left")
	assert.Contains(t, md, "✅ applicable")
	assert.Contains(t, md, "❌ missing_inputs")
	assert.Contains(t, md, "R: no inter-channel analyses")
	assert.Contains(t, md, "Symbol stream (4 symbols): `. - . -`")
	assert.Contains(t, md, "`HI`")
	assert.Contains(t, md, "hypothesis only")
}

func TestRenderRunNoExperiments(t *testing.T) {
	run := sampleRun()
	left := run.Channels["left"]
	left.Experiments = nil
	run.Channels["left"] = left

	md := RenderRun(run, "Report")
	assert.Contains(t, md, "No applicable methods; no experiments attempted.")
}

func TestWriteRunBundle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	run := sampleRun()

	require.NoError(t, WriteRunBundle(dir, "Report", run))

	raw, err := os.ReadFile(filepath.Join(dir, "run.json"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, run.RunID, decoded["run_id"])
	assert.Contains(t, decoded, "channels")

	md, err := os.ReadFile(filepath.Join(dir, "report.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Report")
}

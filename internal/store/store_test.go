package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decodestack/decode-gate/internal/engine"
	"github.com/decodestack/decode-gate/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func archivedRun(id string, started time.Time) engine.RunResult {
	return engine.RunResult{
		RunID:               id,
		Source:              "test/results.json",
		MatrixSchemaVersion: "1.0.0",
		StartedAt:           started,
		CompletedAt:         started.Add(time.Second),
		Channels: map[string]engine.ChannelResult{
			"left": {
				Channel: "left",
				Applicability: map[string]models.ApplicabilityReport{
					"duration_based_morse_like": {
						MethodID: "duration_based_morse_like",
						Status:   models.StatusApplicable,
					},
				},
				Experiments: map[string]models.ExperimentResult{
					"duration_based_morse_like": {
						ExperimentID: "exp-1",
						MethodID:     "duration_based_morse_like",
						Status:       models.ExperimentSuccess,
						Diagnostics:  []string{"intervals transformed: 4"},
					},
				},
			},
		},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTestStore(t)
	started := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	run := archivedRun("run-1", started)

	require.NoError(t, s.SaveRun(run))

	loaded, err := s.LoadRun("run-1")
	require.NoError(t, err)

	assert.Equal(t, run.RunID, loaded.RunID)
	assert.Equal(t, run.Source, loaded.Source)
	assert.True(t, run.StartedAt.Equal(loaded.StartedAt))
	require.Contains(t, loaded.Channels, "left")

	left := loaded.Channels["left"]
	assert.Equal(t, models.StatusApplicable, left.Applicability["duration_based_morse_like"].Status)
	assert.Equal(t, models.ExperimentSuccess, left.Experiments["duration_based_morse_like"].Status)
}

func TestSaveRunRejectsDuplicateID(t *testing.T) {
	s := openTestStore(t)
	run := archivedRun("run-1", time.Now().UTC())

	require.NoError(t, s.SaveRun(run))
	assert.Error(t, s.SaveRun(run))
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveRun(archivedRun("run-old", base)))
	require.NoError(t, s.SaveRun(archivedRun("run-new", base.Add(time.Hour))))

	runs, err := s.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "run-new", runs[0].RunID, "newest first")
	assert.Equal(t, "run-old", runs[1].RunID)
	assert.Equal(t, 1, runs[0].Channels)

	limited, err := s.ListRuns(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestLoadRunMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadRun("absent")
	assert.Error(t, err)
}

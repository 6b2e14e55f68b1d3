package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResults = `{
  "timestamp": "2026-08-20T10:00:00Z",
  "metadata": {
    "sample_rate": 44100,
    "channels": ["left", "right"],
    "audio_file": "capture.wav",
    "config_version": "2.1"
  },
  "results": {
    "time_domain": [
      {
        "method": "pulse_detection",
        "metrics": {"threshold": 0.3},
        "measurements": {
          "left":  {"pulse_positions": [0.0, 0.1, 0.25], "num_pulses": 3},
          "right": {"pulse_positions": [0.0, 0.2], "num_pulses": 2}
        }
      }
    ],
    "cross_channel": [
      {
        "method": "cross_correlation",
        "metrics": {},
        "measurements": {
          "left_vs_right": {"max_correlation": 0.95}
        }
      }
    ]
  }
}`

func writeResults(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "results.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeResults(t, sampleResults)

	set, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, set.SourcePath())
	assert.Equal(t, "2026-08-20T10:00:00Z", set.Timestamp())
	assert.Equal(t, 44100, set.SampleRate())
	assert.Equal(t, []string{"left", "right"}, set.Channels())
	assert.Equal(t, []string{"cross_correlation", "pulse_detection"}, set.Methods())
}

func TestLoadDirectory(t *testing.T) {
	path := writeResults(t, sampleResults)

	set, err := Load(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, set.HasMethod("pulse_detection"))
}

func TestMethodLookups(t *testing.T) {
	set, err := Load(writeResults(t, sampleResults))
	require.NoError(t, err)

	left := set.Method("pulse_detection", "left")
	require.NotNil(t, left)
	assert.Equal(t, 3.0, left["num_pulses"])

	assert.Nil(t, set.Method("pulse_detection", "center"))
	assert.Nil(t, set.Method("fft_global", "left"))

	all := set.MethodAllChannels("cross_correlation")
	require.NotNil(t, all)
	assert.Contains(t, all, "left_vs_right")

	metrics := set.MethodMetrics("pulse_detection")
	require.NotNil(t, metrics)
	assert.Equal(t, 0.3, metrics["threshold"])
	assert.Nil(t, set.MethodMetrics("fft_global"))
}

func TestLoadRejectsBrokenFiles(t *testing.T) {
	t.Run("not json", func(t *testing.T) {
		_, err := Load(writeResults(t, "not json at all"))
		assert.Error(t, err)
	})

	t.Run("missing metadata", func(t *testing.T) {
		_, err := Load(writeResults(t, `{"results": {}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "metadata")
	})

	t.Run("missing results", func(t *testing.T) {
		_, err := Load(writeResults(t, `{"metadata": {"sample_rate": 1, "channels": []}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "results")
	})

	t.Run("nonexistent path", func(t *testing.T) {
		assert.Error(t, Validate(filepath.Join(t.TempDir(), "missing.json")))
	})
}

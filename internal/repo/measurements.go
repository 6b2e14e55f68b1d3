package repo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/decodestack/decode-gate/internal/utils"
)

// MethodEntry is one analyzer method's exported result: the parameters it
// ran with and its per-channel measurement mappings. Pair measurements
// (e.g. "left_vs_right") appear as channel keys alongside plain channels.
type MethodEntry struct {
	Method       string                    `json:"method"`
	Metrics      map[string]any            `json:"metrics"`
	Measurements map[string]map[string]any `json:"measurements"`
}

// Metadata describes the analyzed signal as recorded by the upstream tool.
type Metadata struct {
	SampleRate    int            `json:"sample_rate"`
	Channels      []string       `json:"channels"`
	SourceFile    string         `json:"audio_file"`
	ConfigVersion string         `json:"config_version"`
	SignalInfo    map[string]any `json:"audio_info"`
}

type resultsFile struct {
	Timestamp string                   `json:"timestamp"`
	Metadata  *Metadata                `json:"metadata"`
	Results   map[string][]MethodEntry `json:"results"`
}

// MeasurementSet is a normalized, read-only view of the upstream
// analyzer's results file. Absent methods are the normal case and are
// reported as nil, never as an error.
type MeasurementSet struct {
	sourcePath string
	timestamp  string
	metadata   Metadata
	results    map[string][]MethodEntry
	index      map[string]MethodEntry
}

// Load reads a results file (or a directory containing results.json) and
// builds the method index.
func Load(path string) (*MeasurementSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, utils.NewAppError("repo.Load", "measurement file not accessible", err)
	}
	if info.IsDir() {
		path = filepath.Join(path, "results.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.NewAppError("repo.Load", "read measurement file", err)
	}

	var file resultsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, utils.NewAppError("repo.Load", fmt.Sprintf("invalid JSON in %s", path), err)
	}
	if file.Metadata == nil {
		return nil, utils.NewAppError("repo.Load", fmt.Sprintf("%s: missing required field 'metadata'", path), nil)
	}
	if file.Results == nil {
		return nil, utils.NewAppError("repo.Load", fmt.Sprintf("%s: missing required field 'results'", path), nil)
	}

	index := make(map[string]MethodEntry)
	for _, entries := range file.Results {
		for _, entry := range entries {
			if entry.Method != "" {
				index[entry.Method] = entry
			}
		}
	}

	return &MeasurementSet{
		sourcePath: path,
		timestamp:  file.Timestamp,
		metadata:   *file.Metadata,
		results:    file.Results,
		index:      index,
	}, nil
}

// Validate loads a results file purely to check its structure.
func Validate(path string) error {
	_, err := Load(path)
	return err
}

// Method returns the measurements for one method on one channel, or nil
// when the method was not run or has no data for that channel.
func (m *MeasurementSet) Method(name, channel string) map[string]any {
	entry, ok := m.index[name]
	if !ok {
		return nil
	}
	return entry.Measurements[channel]
}

// MethodAllChannels returns every measurement mapping a method produced,
// keyed by channel (including pair keys such as "left_vs_right"), or nil
// when the method was not run.
func (m *MeasurementSet) MethodAllChannels(name string) map[string]map[string]any {
	entry, ok := m.index[name]
	if !ok {
		return nil
	}
	return entry.Measurements
}

// MethodMetrics returns the parameters a method ran with, or nil.
func (m *MeasurementSet) MethodMetrics(name string) map[string]any {
	entry, ok := m.index[name]
	if !ok {
		return nil
	}
	return entry.Metrics
}

// HasMethod reports whether the analyzer ran the named method.
func (m *MeasurementSet) HasMethod(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Methods lists every method present in the results, sorted.
func (m *MeasurementSet) Methods() []string {
	names := make([]string, 0, len(m.index))
	for name := range m.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Channels returns the ordered channel list recorded by the analyzer.
func (m *MeasurementSet) Channels() []string {
	return append([]string(nil), m.metadata.Channels...)
}

// SourcePath is the path of the loaded results file.
func (m *MeasurementSet) SourcePath() string { return m.sourcePath }

// Timestamp is the analyzer run timestamp, if recorded.
func (m *MeasurementSet) Timestamp() string { return m.timestamp }

// SampleRate is the signal sample rate in Hz.
func (m *MeasurementSet) SampleRate() int { return m.metadata.SampleRate }

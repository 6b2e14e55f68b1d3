package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decodestack/decode-gate/internal/engine"
)

// Config is the full engine configuration. Values come from defaults,
// then an optional YAML file, then GATE_ENGINE_* environment variables,
// in that order of precedence.
type Config struct {
	Measurements MeasurementsConfig        `yaml:"measurements"`
	Matrix       MatrixConfig              `yaml:"matrix"`
	Output       OutputConfig              `yaml:"output"`
	Channels     []string                  `yaml:"channels"`
	Thresholds   engine.Params             `yaml:"thresholds"`
	Decoders     map[string]map[string]any `yaml:"decoders"`
	Logging      LoggingConfig             `yaml:"logging"`
	Metrics      MetricsConfig             `yaml:"metrics"`
	Archive      ArchiveConfig             `yaml:"archive"`
}

type MeasurementsConfig struct {
	// Path is a results.json file or a directory containing one.
	Path string `yaml:"path"`
}

type MatrixConfig struct {
	// Dir holds the requirements matrix pack (_index.yaml plus family files).
	Dir string `yaml:"dir"`
}

type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Title string `yaml:"title"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type MetricsConfig struct {
	// Address enables a Prometheus /metrics listener when non-empty,
	// e.g. ":9090".
	Address string `yaml:"address"`
}

type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Matrix: MatrixConfig{Dir: "configs/matrices"},
		Output: OutputConfig{
			Dir:   "decode_out",
			Title: "Structural Decoding Report",
		},
		Thresholds: engine.DefaultParams(),
		Logging:    LoggingConfig{Level: "info"},
		Archive:    ArchiveConfig{Path: "decode-gate.db"},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GATE_ENGINE_MEASUREMENTS"); v != "" {
		cfg.Measurements.Path = v
	}
	if v := os.Getenv("GATE_ENGINE_MATRIX_DIR"); v != "" {
		cfg.Matrix.Dir = v
	}
	if v := os.Getenv("GATE_ENGINE_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("GATE_ENGINE_CHANNELS"); v != "" {
		cfg.Channels = splitList(v)
	}
	if v := os.Getenv("GATE_ENGINE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GATE_ENGINE_LOG_JSON"); v != "" {
		cfg.Logging.JSON = parseBool(v, cfg.Logging.JSON)
	}
	if v := os.Getenv("GATE_ENGINE_METRICS_ADDRESS"); v != "" {
		cfg.Metrics.Address = v
	}
	if v := os.Getenv("GATE_ENGINE_ARCHIVE_ENABLED"); v != "" {
		cfg.Archive.Enabled = parseBool(v, cfg.Archive.Enabled)
	}
	if v := os.Getenv("GATE_ENGINE_ARCHIVE_PATH"); v != "" {
		cfg.Archive.Path = v
	}
	if v := os.Getenv("GATE_ENGINE_ACCEPT_MATRIX_PROXIES"); v != "" {
		cfg.Thresholds.AcceptMatrixProxies = parseBool(v, cfg.Thresholds.AcceptMatrixProxies)
	}
}

func (c *Config) validate() error {
	if c.Matrix.Dir == "" {
		return fmt.Errorf("config: matrix.dir must not be empty")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("config: output.dir must not be empty")
	}
	if c.Archive.Enabled && c.Archive.Path == "" {
		return fmt.Errorf("config: archive.path required when archive is enabled")
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

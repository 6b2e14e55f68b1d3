package engine

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/decodestack/decode-gate/internal/builders"
	"github.com/decodestack/decode-gate/internal/decoders"
	"github.com/decodestack/decode-gate/internal/metrics"
	"github.com/decodestack/decode-gate/internal/models"
	"github.com/decodestack/decode-gate/internal/utils"
)

// MeasurementSource is the pipeline's view of the upstream analyzer
// results: the builders' narrow read interface plus channel discovery.
type MeasurementSource interface {
	builders.Source
	Channels() []string
	SourcePath() string
}

// ChannelResult collects everything one channel produced.
type ChannelResult struct {
	Channel       string                                 `json:"channel"`
	Applicability map[string]models.ApplicabilityReport `json:"applicability"`
	Experiments   map[string]models.ExperimentResult    `json:"experiments"`
}

// RunResult is the full output of one pipeline run.
type RunResult struct {
	RunID               string                   `json:"run_id"`
	Source              string                   `json:"source"`
	MatrixSchemaVersion string                   `json:"matrix_schema_version"`
	StartedAt           time.Time                `json:"started_at"`
	CompletedAt         time.Time                `json:"completed_at"`
	Channels            map[string]ChannelResult `json:"channels"`
}

// Pipeline sequences the per-channel flow: build bundle, evaluate every
// method, decode only the applicable ones. Channels are independent and
// processed concurrently; one method's refusal or failure never aborts
// other methods or channels.
type Pipeline struct {
	logger        *slog.Logger
	registry      *decoders.Registry
	params        Params
	decoderParams map[string]decoders.Params
	latencies     *utils.LatencyTracker
}

// NewPipeline constructs a pipeline. A nil registry gets the default
// decoder set; decoderParams maps method id to its explicit parameters.
func NewPipeline(logger *slog.Logger, registry *decoders.Registry, params Params, decoderParams map[string]decoders.Params) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = decoders.Default()
	}
	return &Pipeline{
		logger:        logger,
		registry:      registry,
		params:        params,
		decoderParams: decoderParams,
		latencies:     utils.NewLatencyTracker(1024),
	}
}

// Run executes the pipeline over the selected channels. An empty channel
// allow-list means every channel the analyzer reported. Structural errors
// (a bundle that cannot be assembled) abort the run; judgment and decode
// outcomes never do.
func (p *Pipeline) Run(ctx context.Context, src MeasurementSource, matrix models.RequirementsMatrix, channels []string) (RunResult, error) {
	selected := src.Channels()
	if len(channels) > 0 {
		allow := make(map[string]struct{}, len(channels))
		for _, ch := range channels {
			allow[ch] = struct{}{}
		}
		filtered := selected[:0]
		for _, ch := range selected {
			if _, ok := allow[ch]; ok {
				filtered = append(filtered, ch)
			}
		}
		selected = filtered
	}

	run := RunResult{
		RunID:               uuid.NewString(),
		Source:              src.SourcePath(),
		MatrixSchemaVersion: matrix.SchemaVersion,
		StartedAt:           time.Now().UTC(),
		Channels:            make(map[string]ChannelResult, len(selected)),
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, channel := range selected {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		wg.Add(1)
		go func(channel string) {
			defer wg.Done()

			result, err := p.runChannel(src, matrix, channel)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			run.Channels[channel] = result
		}(channel)
	}
	wg.Wait()

	if firstErr != nil {
		return RunResult{}, firstErr
	}

	run.CompletedAt = time.Now().UTC()

	if count := p.latencies.Count(); count >= 20 {
		p.logger.Debug("decode latency",
			slog.Int("samples", count),
			slog.Duration("p95", p.latencies.Percentile(95)))
	}

	return run, nil
}

func (p *Pipeline) runChannel(src MeasurementSource, matrix models.RequirementsMatrix, channel string) (ChannelResult, error) {
	bundle, err := builders.BuildBundle(src, channel)
	if err != nil {
		return ChannelResult{}, err
	}

	reports := EvaluateAll(matrix, bundle, p.params)
	for _, report := range reports {
		metrics.ObserveEvaluation(string(report.Status))
	}

	applicable := FilterApplicable(reports)
	methodIDs := make([]string, 0, len(applicable))
	for id := range applicable {
		methodIDs = append(methodIDs, id)
	}
	sort.Strings(methodIDs)

	experiments := make(map[string]models.ExperimentResult, len(methodIDs))
	for _, methodID := range methodIDs {
		start := time.Now()
		result := p.registry.Decode(methodID, bundle, p.decoderParams[methodID])
		elapsed := time.Since(start)

		metrics.ObserveDecode(elapsed, string(result.Status))
		p.latencies.Observe(elapsed)
		experiments[methodID] = result

		if result.Status != models.ExperimentSuccess {
			p.logger.Info("decode did not succeed",
				slog.String("channel", channel),
				slog.String("method", methodID),
				slog.String("status", string(result.Status)))
		}
	}

	p.logger.Debug("channel processed",
		slog.String("channel", channel),
		slog.Int("methods", len(reports)),
		slog.Int("applicable", len(applicable)),
		slog.Int("experiments", len(experiments)))

	return ChannelResult{
		Channel:       channel,
		Applicability: reports,
		Experiments:   experiments,
	}, nil
}

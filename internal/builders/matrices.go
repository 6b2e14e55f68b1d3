package builders

import (
	"fmt"

	"github.com/decodestack/decode-gate/internal/models"
)

// BuildMatrices builds the M family from time-frequency analyses. The
// analyzer exports only time-series proxies, not full time-frequency
// matrices; that limitation is recorded in provenance and surfaced as an
// explicit is_proxy_only flag instead of treating proxies as equivalent.
func BuildMatrices(src Source, channel string) models.Input {
	proxies := map[string]any{}
	var methods []string
	params := map[string]map[string]any{}
	numWindows := -1.0

	if localEnt := src.Method("local_entropy", channel); localEnt != nil {
		methods = append(methods, "local_entropy")
		if p := src.MethodMetrics("local_entropy"); p != nil {
			params["local_entropy"] = p
		}
		windows := floatOrZero(localEnt["num_windows"])
		numWindows = windows
		proxies["local_entropy"] = map[string]any{
			"type":        "time_series",
			"num_windows": windows,
		}
	}

	if bandStab := src.Method("band_stability", channel); bandStab != nil {
		methods = append(methods, "band_stability")
		if p := src.MethodMetrics("band_stability"); p != nil {
			params["band_stability"] = p
		}
		proxies["band_stability"] = map[string]any{
			"type":      "band_summary",
			"num_bands": float64(len(bandStab)),
		}
	}

	if stft := src.Method("stft", channel); stft != nil {
		methods = append(methods, "stft")
		if p := src.MethodMetrics("stft"); p != nil {
			params["stft"] = p
		}
		proxies["stft_stats"] = map[string]any{
			"type":            "matrix_statistics",
			"num_time_frames": stft["num_time_frames"],
			"num_freq_bins":   stft["num_freq_bins"],
		}
	}

	params["limitation"] = map[string]any{
		"type":     "no_full_matrices",
		"reason":   "analyzer results do not export full time-frequency matrices",
		"strategy": "using time-series proxies",
	}
	prov := models.NewProvenance(methods, params, builderVersion)

	if len(proxies) == 0 {
		return models.Input{
			Family:     models.FamilyMatrices,
			Available:  false,
			Provenance: prov,
			Metrics:    map[string]float64{},
			Notes: []string{
				"no time-frequency data",
				"limitation: full matrices not in measurement set",
			},
		}
	}

	metrics := map[string]float64{
		"num_proxies":   float64(len(proxies)),
		"is_proxy_only": 1.0,
	}
	if numWindows >= 0 {
		metrics["num_windows"] = numWindows
	}

	return models.Input{
		Family:     models.FamilyMatrices,
		Available:  len(proxies) >= 1,
		Data:       map[string]any{"proxies": proxies},
		Provenance: prov,
		Metrics:    metrics,
		Notes: []string{
			fmt.Sprintf("%d time-series proxy/proxies", len(proxies)),
			"limitation: proxies only, not full TF matrices",
		},
	}
}

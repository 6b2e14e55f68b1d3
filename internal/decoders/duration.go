package decoders

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/decodestack/decode-gate/internal/models"
)

// NoBit marks bitstream slots that carry no bit (separators and
// ambiguous symbols).
const NoBit = -1

// DurationDecoder bins interval durations into a symbol stream:
//
//	"."  if interval <= dot_max
//	"-"  if interval >= dash_min
//	"?"  otherwise (ambiguous region between the two)
//
// with optional large-gap separators, word gap taking priority:
//
//	"/"  if interval >= word_gap_min
//	"|"  if interval >= letter_gap_min
//
// A secondary bitstream artifact maps "." and "-" to the configured bits
// and everything else to NoBit. This is plain duration binning; it makes
// no claim of Morse decoding.
type DurationDecoder struct{}

// NewDurationDecoder constructs the duration-binning decoder.
func NewDurationDecoder() *DurationDecoder { return &DurationDecoder{} }

func (d *DurationDecoder) MethodID() string { return "duration_based_morse_like" }
func (d *DurationDecoder) Version() string  { return "0.1.0" }

// Decode consumes the Δ family only.
func (d *DurationDecoder) Decode(bundle models.InputBundle, params Params) models.ExperimentResult {
	delta := bundle.Input(models.FamilyIntervals)

	if !delta.Available {
		return Refused(d.MethodID(), d.Version(), "Δ input unavailable (intervals builder reported available=false)")
	}
	if delta.Data == nil {
		return Refused(d.MethodID(), d.Version(), "Δ data missing; expected key 'intervals'")
	}
	intervals, ok := delta.Data["intervals"].([]float64)
	if !ok {
		return Refused(d.MethodID(), d.Version(), "Δ data 'intervals' missing or invalid; expected a list of numbers")
	}
	if len(intervals) == 0 {
		return Failed(d.MethodID(), d.Version(), "Δ 'intervals' is empty; nothing to transform")
	}

	dotMax := params.Float("dot_max", 0.12)
	dashMin := params.Float("dash_min", 0.20)
	letterGapMin, hasLetterGap := params.FloatOpt("letter_gap_min")
	wordGapMin, hasWordGap := params.FloatOpt("word_gap_min")
	dotBit := params.Int("dot_bit", 0)
	dashBit := params.Int("dash_bit", 1)

	if dotMax <= 0 {
		return Refused(d.MethodID(), d.Version(), fmt.Sprintf("invalid parameter: dot_max must be > 0 (got %g)", dotMax))
	}
	if dashMin <= 0 {
		return Refused(d.MethodID(), d.Version(), fmt.Sprintf("invalid parameter: dash_min must be > 0 (got %g)", dashMin))
	}
	if dotMax >= dashMin {
		return Refused(d.MethodID(), d.Version(), fmt.Sprintf("invalid parameters: dot_max (%g) must be < dash_min (%g)", dotMax, dashMin))
	}
	if hasLetterGap && letterGapMin <= 0 {
		return Refused(d.MethodID(), d.Version(), fmt.Sprintf("invalid parameter: letter_gap_min must be > 0 (got %g)", letterGapMin))
	}
	if hasWordGap && wordGapMin <= 0 {
		return Refused(d.MethodID(), d.Version(), fmt.Sprintf("invalid parameter: word_gap_min must be > 0 (got %g)", wordGapMin))
	}
	if hasLetterGap && hasWordGap && letterGapMin >= wordGapMin {
		return Refused(d.MethodID(), d.Version(), fmt.Sprintf("invalid parameters: letter_gap_min (%g) must be < word_gap_min (%g)", letterGapMin, wordGapMin))
	}

	symbols := make([]string, 0, len(intervals))
	var nDot, nDash, nAmbiguous, nLetterSep, nWordSep int

	for _, dur := range intervals {
		switch {
		case hasWordGap && dur >= wordGapMin:
			symbols = append(symbols, "/")
			nWordSep++
		case hasLetterGap && dur >= letterGapMin:
			symbols = append(symbols, "|")
			nLetterSep++
		case dur <= dotMax:
			symbols = append(symbols, ".")
			nDot++
		case dur >= dashMin:
			symbols = append(symbols, "-")
			nDash++
		default:
			symbols = append(symbols, "?")
			nAmbiguous++
		}
	}

	bitstream := make([]int, 0, len(symbols))
	var nBits, nNoBit int
	for _, s := range symbols {
		switch s {
		case ".":
			bitstream = append(bitstream, dotBit)
			nBits++
		case "-":
			bitstream = append(bitstream, dashBit)
			nBits++
		default:
			bitstream = append(bitstream, NoBit)
			nNoBit++
		}
	}

	parameters := map[string]any{
		"dot_max":  dotMax,
		"dash_min": dashMin,
		"dot_bit":  dotBit,
		"dash_bit": dashBit,
	}
	if hasLetterGap {
		parameters["letter_gap_min"] = letterGapMin
	}
	if hasWordGap {
		parameters["word_gap_min"] = wordGapMin
	}

	diagnostics := []string{
		fmt.Sprintf("intervals transformed: %d", len(intervals)),
		fmt.Sprintf("symbol counts: dot=%d, dash=%d, ambiguous=%d, letter_sep=%d, word_sep=%d", nDot, nDash, nAmbiguous, nLetterSep, nWordSep),
		fmt.Sprintf("bitstream counts: bits=%d, no_bit=%d (ambiguous and separators carry no bit)", nBits, nNoBit),
	}

	return models.ExperimentResult{
		ExperimentID:   uuid.NewString(),
		MethodID:       d.MethodID(),
		DecoderVersion: d.Version(),
		Status:         models.ExperimentSuccess,
		ParametersUsed: parameters,
		Artifacts: map[string]any{
			"symbol_stream": symbols,
			"bitstream":     bitstream,
			"symbol_counts": map[string]int{
				"dot":        nDot,
				"dash":       nDash,
				"ambiguous":  nAmbiguous,
				"letter_sep": nLetterSep,
				"word_sep":   nWordSep,
			},
			"bit_counts": map[string]int{"bits": nBits, "no_bit": nNoBit},
		},
		Diagnostics: diagnostics,
		InputsProvenance: map[models.Family]models.Provenance{
			models.FamilyIntervals: delta.Provenance,
		},
		CreatedAt: time.Now().UTC(),
	}
}

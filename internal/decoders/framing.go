package decoders

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/decodestack/decode-gate/internal/models"
)

// BitstreamHypothesis describes one binary reading of the interval data.
// Two polarity hypotheses are generated per discretization so no arbitrary
// symbol-to-bit assumption is baked in.
type BitstreamHypothesis struct {
	Origin     string `json:"origin"`
	Mapping    string `json:"mapping"`
	LengthBits int    `json:"length_bits"`

	bits []int
}

// TextCandidate is one framing hypothesis: a fixed-width reading of a
// bitstream scored by how much of it lands on printable text. It is a
// structural hypothesis only; no candidate is ever asserted correct.
type TextCandidate struct {
	Origin         string  `json:"origin"`
	Mapping        string  `json:"mapping"`
	FrameBits      int     `json:"frame_bits"`
	MSBFirst       bool    `json:"msb_first"`
	Offset         int     `json:"offset"`
	PrintableRatio float64 `json:"printable_ratio"`
	Text           string  `json:"text_candidate"`
}

// FramingDecoder searches fixed-width bit framings of a discretized
// interval sequence for readings that decode to printable text. The
// search space is deliberately bounded: a small frame-width set, both bit
// orders, and a capped offset range cover the common byte-order and
// alignment ambiguities without combinatorial blow-up.
type FramingDecoder struct{}

// NewFramingDecoder constructs the bit-framing hypothesis search decoder.
func NewFramingDecoder() *FramingDecoder { return &FramingDecoder{} }

func (f *FramingDecoder) MethodID() string { return "amplitude_modulation_am" }
func (f *FramingDecoder) Version() string  { return "1.0.0" }

// Decode requires Δ; S is preferred when present because it already
// carries the documented median discretization, otherwise the decoder
// falls back to its own median threshold over Δ and logs it.
func (f *FramingDecoder) Decode(bundle models.InputBundle, params Params) models.ExperimentResult {
	delta := bundle.Input(models.FamilyIntervals)
	sym := bundle.Input(models.FamilySymbols)
	vec := bundle.Input(models.FamilyVectors)

	if !delta.Available || delta.Data == nil {
		return Refused(f.MethodID(), f.Version(), "Δ intervals missing in input bundle")
	}
	intervals, ok := delta.Data["intervals"].([]float64)
	if !ok {
		return Refused(f.MethodID(), f.Version(), "Δ data 'intervals' missing or invalid; expected a list of numbers")
	}
	if len(intervals) < 8 {
		return Refused(f.MethodID(), f.Version(), fmt.Sprintf("Δ intervals too short for framing hypotheses: got %d, need ≥8", len(intervals)))
	}

	var diagnostics []string
	if vec.Available && vec.Data != nil {
		if vectors, ok := vec.Data["vectors"].(map[string]any); ok {
			if _, present := vectors["am_detection"]; present {
				diagnostics = append(diagnostics, "V.am_detection present")
			} else {
				diagnostics = append(diagnostics, "V.am_detection not present in measurement set")
			}
		}
	}

	bitstreams := f.buildBitstreams(sym, intervals, &diagnostics)

	frameBitsList := params.IntSlice("frame_bits", []int{8, 7})
	maxOffsets := params.Int("max_offsets", 8)
	maxHypotheses := params.Int("max_hypotheses", 10)

	var candidates []TextCandidate
	for _, bs := range bitstreams {
		for _, frameBits := range frameBitsList {
			if frameBits <= 0 {
				continue
			}
			offsets := maxOffsets
			if frameBits < offsets {
				offsets = frameBits
			}
			for _, msbFirst := range []bool{true, false} {
				for offset := 0; offset < offsets; offset++ {
					text, ratio := decodeFrames(bs.bits, frameBits, msbFirst, offset)
					if text == "" {
						continue
					}
					candidates = append(candidates, TextCandidate{
						Origin:         bs.Origin,
						Mapping:        bs.Mapping,
						FrameBits:      frameBits,
						MSBFirst:       msbFirst,
						Offset:         offset,
						PrintableRatio: ratio,
						Text:           text,
					})
				}
			}
		}
	}

	// Rank by printable ratio, then by candidate length.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].PrintableRatio != candidates[j].PrintableRatio {
			return candidates[i].PrintableRatio > candidates[j].PrintableRatio
		}
		return len(candidates[i].Text) > len(candidates[j].Text)
	})
	if len(candidates) > maxHypotheses {
		candidates = candidates[:maxHypotheses]
	}

	if len(candidates) > 0 {
		best := candidates[0]
		diagnostics = append(diagnostics, fmt.Sprintf(
			"best hypothesis: printable_ratio=%.3f, frame_bits=%d, msb_first=%t, offset=%d",
			best.PrintableRatio, best.FrameBits, best.MSBFirst, best.Offset))
	}

	summaries := make([]BitstreamHypothesis, len(bitstreams))
	for i, bs := range bitstreams {
		summaries[i] = BitstreamHypothesis{Origin: bs.Origin, Mapping: bs.Mapping, LengthBits: bs.LengthBits}
	}

	return models.ExperimentResult{
		ExperimentID:   uuid.NewString(),
		MethodID:       f.MethodID(),
		DecoderVersion: f.Version(),
		Status:         models.ExperimentSuccess,
		ParametersUsed: map[string]any{
			"frame_bits":     frameBitsList,
			"max_offsets":    maxOffsets,
			"max_hypotheses": maxHypotheses,
			"bit_orders":     []string{"msb_first", "lsb_first"},
		},
		Artifacts: map[string]any{
			"bitstream_hypotheses": summaries,
			"text_hypotheses":      candidates,
		},
		Diagnostics: diagnostics,
		InputsProvenance: map[models.Family]models.Provenance{
			models.FamilyIntervals: delta.Provenance,
			models.FamilySymbols:   sym.Provenance,
			models.FamilyVectors:   vec.Provenance,
		},
		CreatedAt: time.Now().UTC(),
	}
}

// buildBitstreams derives the binary hypotheses: from S when available,
// otherwise from an explicit median split of Δ.
func (f *FramingDecoder) buildBitstreams(sym models.Input, intervals []float64, diagnostics *[]string) []BitstreamHypothesis {
	if sym.Available && sym.Data != nil {
		if symbols, ok := sym.Data["symbols"].([]string); ok && len(symbols) > 0 {
			bitsA := make([]int, len(symbols))
			bitsB := make([]int, len(symbols))
			for i, s := range symbols {
				if s == "short" {
					bitsA[i], bitsB[i] = 0, 1
				} else {
					bitsA[i], bitsB[i] = 1, 0
				}
			}
			return []BitstreamHypothesis{
				{Origin: "S.symbols", Mapping: "short=0,long=1", LengthBits: len(bitsA), bits: bitsA},
				{Origin: "S.symbols", Mapping: "short=1,long=0", LengthBits: len(bitsB), bits: bitsB},
			}
		}
		*diagnostics = append(*diagnostics, "S available but symbols list is empty or invalid")
	}

	sorted := append([]float64(nil), intervals...)
	sort.Float64s(sorted)
	threshold := sorted[len(sorted)/2]
	*diagnostics = append(*diagnostics, fmt.Sprintf("discretization fallback: median_threshold=%.6f (from Δ intervals)", threshold))

	bitsA := make([]int, len(intervals))
	bitsB := make([]int, len(intervals))
	for i, v := range intervals {
		if v < threshold {
			bitsA[i], bitsB[i] = 0, 1
		} else {
			bitsA[i], bitsB[i] = 1, 0
		}
	}
	mapping := fmt.Sprintf("median=%.6f", threshold)
	return []BitstreamHypothesis{
		{Origin: "Δ.intervals", Mapping: "<median=0,>=median=1 (" + mapping + ")", LengthBits: len(bitsA), bits: bitsA},
		{Origin: "Δ.intervals", Mapping: "<median=1,>=median=0 (" + mapping + ")", LengthBits: len(bitsB), bits: bitsB},
	}
}

// decodeFrames reads fixed-width frames from bits starting at offset and
// returns the decoded text plus the fraction of frames that are printable
// ASCII (including tab, newline, carriage return). Non-printable frames
// render as U+FFFD.
func decodeFrames(bits []int, frameBits int, msbFirst bool, offset int) (string, float64) {
	if offset < 0 || offset >= len(bits) {
		return "", 0
	}
	usable := bits[offset:]
	nFrames := len(usable) / frameBits
	if nFrames == 0 {
		return "", 0
	}

	runes := make([]rune, 0, nFrames)
	printable := 0
	for i := 0; i < nFrames; i++ {
		frame := usable[i*frameBits : (i+1)*frameBits]
		value := bitsToInt(frame, msbFirst)
		if isPrintableASCII(value) {
			printable++
			runes = append(runes, rune(value))
		} else {
			runes = append(runes, '�')
		}
	}
	return string(runes), float64(printable) / float64(nFrames)
}

func bitsToInt(bits []int, msbFirst bool) int {
	value := 0
	if msbFirst {
		for _, b := range bits {
			value = value<<1 | (b & 1)
		}
		return value
	}
	for i, b := range bits {
		value |= (b & 1) << i
	}
	return value
}

func isPrintableASCII(v int) bool {
	return v == 9 || v == 10 || v == 13 || (v >= 32 && v <= 126)
}

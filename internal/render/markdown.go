package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/decodestack/decode-gate/internal/decoders"
	"github.com/decodestack/decode-gate/internal/engine"
	"github.com/decodestack/decode-gate/internal/models"
)

// maxCandidatesShown bounds how many text hypotheses the markdown report
// lists per experiment; the full set stays in run.json.
const maxCandidatesShown = 3

// RenderRun produces the human-readable markdown summary of one run.
func RenderRun(run engine.RunResult, title string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Run: `%s`\n", run.RunID)
	fmt.Fprintf(&b, "- Source: `%s`\n", run.Source)
	fmt.Fprintf(&b, "- Matrix schema: %s\n", run.MatrixSchemaVersion)
	fmt.Fprintf(&b, "- Started: %s\n", run.StartedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Completed: %s\n\n", run.CompletedAt.Format("2006-01-02 15:04:05 UTC"))

	channels := make([]string, 0, len(run.Channels))
	for ch := range run.Channels {
		channels = append(channels, ch)
	}
	sort.Strings(channels)

	for _, ch := range channels {
		renderChannel(&b, run.Channels[ch])
	}

	b.WriteString("---\n\n")
	b.WriteString("All decoded content above is hypothesis only. A successful experiment\n")
	b.WriteString("means the procedure executed and produced structural artifacts, not that\n")
	b.WriteString("the signal carries the decoded message.\n")

	return b.String()
}

func renderChannel(b *strings.Builder, result engine.ChannelResult) {
	fmt.Fprintf(b, "## Channel: %s\n\n", result.Channel)

	b.WriteString("### Applicability\n\n")
	b.WriteString("| Method | Family | Status | Diagnostics |\n")
	b.WriteString("|---|---|---|---|\n")

	methodIDs := sortedKeysReports(result.Applicability)
	for _, id := range methodIDs {
		report := result.Applicability[id]
		diag := strings.Join(report.Diagnostics, "; ")
		if diag == "" {
			diag = "-"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			report.MethodID, report.MethodFamily, statusBadge(report.Status), diag)
	}
	b.WriteString("\n")

	if len(result.Experiments) == 0 {
		b.WriteString("No applicable methods; no experiments attempted.\n\n")
		return
	}

	b.WriteString("### Experiments\n\n")
	expIDs := sortedKeysExperiments(result.Experiments)
	for _, id := range expIDs {
		renderExperiment(b, result.Experiments[id])
	}
}

func renderExperiment(b *strings.Builder, exp models.ExperimentResult) {
	fmt.Fprintf(b, "#### %s (%s, decoder %s)\n\n", exp.MethodID, exp.Status, exp.DecoderVersion)

	for _, d := range exp.Diagnostics {
		fmt.Fprintf(b, "- %s\n", d)
	}
	if len(exp.Diagnostics) > 0 {
		b.WriteString("\n")
	}

	if exp.Status != models.ExperimentSuccess {
		return
	}

	if symbols, ok := exp.Artifacts["symbol_stream"].([]string); ok && len(symbols) > 0 {
		fmt.Fprintf(b, "Symbol stream (%d symbols): `%s`\n\n", len(symbols), strings.Join(symbols, " "))
	}

	if candidates, ok := exp.Artifacts["text_hypotheses"].([]decoders.TextCandidate); ok && len(candidates) > 0 {
		b.WriteString("| Rank | Text candidate | Printable | Frame | Order | Offset | Origin |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for i, c := range candidates {
			if i >= maxCandidatesShown {
				break
			}
			order := "LSB"
			if c.MSBFirst {
				order = "MSB"
			}
			fmt.Fprintf(b, "| %d | `%s` | %.0f%% | %d | %s | %d | %s/%s |\n",
				i+1, c.Text, c.PrintableRatio*100, c.FrameBits, order, c.Offset, c.Origin, c.Mapping)
		}
		b.WriteString("\n")
	}
}

func statusBadge(status models.ApplicabilityStatus) string {
	switch status {
	case models.StatusApplicable:
		return "✅ applicable"
	case models.StatusMissingInputs:
		return "❌ missing_inputs"
	case models.StatusUnderconstrained:
		return "⚠️ underconstrained"
	case models.StatusNotApplicable:
		return "🚫 not_applicable"
	}
	return string(status)
}

func sortedKeysReports(m map[string]models.ApplicabilityReport) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysExperiments(m map[string]models.ExperimentResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/mattn/go-runewidth"
)

// OutputFormat selects how the validation report is rendered.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Report bundles every finding from a run with its severity rollup.
type Report struct {
	Errors   int       `json:"errors"`
	Warnings int       `json:"warnings"`
	Pass     bool      `json:"pass"`
	Findings []Finding `json:"findings"`
}

// NewReport builds a report from accumulated findings. Pass is true iff
// there are zero error-severity findings; warnings never flip it.
func NewReport(findings []Finding) *Report {
	errs, warns := CountBySeverity(findings)
	return &Report{
		Errors:   errs,
		Warnings: warns,
		Pass:     errs == 0,
		Findings: findings,
	}
}

// Write renders the report in the requested format.
func (r *Report) Write(w io.Writer, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return r.writeJSON(w)
	case FormatText, "":
		return r.writeText(w)
	default:
		return fmt.Errorf("invalid format: %s", format)
	}
}

func (r *Report) writeJSON(w io.Writer) error {
	out := *r
	if out.Findings == nil {
		out.Findings = []Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeText prints findings grouped by severity (errors first), each
// group sorted by subject so the order is stable across runs.
func (r *Report) writeText(w io.Writer) error {
	if len(r.Findings) == 0 {
		_, err := fmt.Fprintln(w, "Validation passed with no errors or warnings")
		return err
	}

	for _, sev := range []Severity{SeverityError, SeverityWarning} {
		group := r.filter(sev)
		if len(group) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s (%d):\n", headingFor(sev), len(group)); err != nil {
			return err
		}
		ruleW, subjW := columnWidths(group)
		for _, f := range group {
			subject := f.Record
			if subject == "" {
				subject = f.Path
			}
			if _, err := fmt.Fprintf(w, "  %s  %s  %s\n",
				runewidth.FillRight(string(f.Rule), ruleW),
				runewidth.FillRight(subject, subjW),
				f.Message); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	status := "PASS"
	if !r.Pass {
		status = "FAIL"
	}
	_, err := fmt.Fprintf(w, "%s: %d error(s), %d warning(s)\n", status, r.Errors, r.Warnings)
	return err
}

func (r *Report) filter(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Rule < out[j].Rule
	})
	return out
}

func headingFor(sev Severity) string {
	if sev == SeverityError {
		return "ERRORS"
	}
	return "WARNINGS"
}

func columnWidths(findings []Finding) (ruleW, subjW int) {
	for _, f := range findings {
		if w := runewidth.StringWidth(string(f.Rule)); w > ruleW {
			ruleW = w
		}
		subject := f.Record
		if subject == "" {
			subject = f.Path
		}
		if w := runewidth.StringWidth(subject); w > subjW {
			subjW = w
		}
	}
	return ruleW, subjW
}

// WriteGenerationSummary prints the post-generation rollup: totals per
// category and per toolchain plus the schema version.
func WriteGenerationSummary(w io.Writer, m *Manifest) error {
	if _, err := fmt.Fprintf(w, "Total skills: %d\n", m.Stats.TotalSkills); err != nil {
		return err
	}
	for _, line := range []struct {
		label  string
		counts map[string]int
	}{
		{"Categories", m.Stats.Categories},
		{"Toolchains", m.Stats.Toolchains},
	} {
		if len(line.counts) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s:\n", line.label); err != nil {
			return err
		}
		keys := make([]string, 0, len(line.counts))
		for k := range line.counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "  %s: %d\n", k, line.counts[k]); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "Schema version: %s\n", m.SchemaVersion)
	return err
}

// Package catalog implements the skills catalog engine: discovery,
// metadata extraction, classification, token estimation, validation,
// and manifest assembly.
package catalog

import "fmt"

// State marks whether a record was extracted cleanly or produced despite
// a parsing failure in its source document.
type State string

const (
	StateOK       State = "ok"
	StateDegraded State = "degraded"
)

// Record is one skill's normalized metadata, the unit stored in the catalog.
type Record struct {
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	Category       string   `json:"category"`
	Toolchain      *string  `json:"toolchain"`
	Framework      *string  `json:"framework"`
	Tags           []string `json:"tags"`
	EntryTokens    int      `json:"entry_point_tokens"`
	FullTokens     int      `json:"full_tokens"`
	Requires       []string `json:"requires"`
	Author         string   `json:"author"`
	Updated        string   `json:"updated"`
	License        string   `json:"license"`
	SourcePath     string   `json:"source_path"`
	HasReferences  bool     `json:"has_references"`
	ReferenceFiles []string `json:"reference_files,omitempty"`
	State          State    `json:"state"`
	DegradedReason string   `json:"degraded_reason,omitempty"`
}

// Categories recognized by the classifier.
const (
	CategoryUniversal = "universal"
	CategoryToolchain = "toolchain"
	CategoryExample   = "example"
	CategoryUnknown   = "unknown"
)

// Severity separates findings that fail the run from findings that are
// reported but never flip the exit status.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule identifies which validation rule produced a finding.
type Rule string

const (
	RulePathFormat    Rule = "path-format"
	RulePathExists    Rule = "path-exists"
	RuleUniqueName    Rule = "unique-name"
	RuleRequired      Rule = "required-fields"
	RuleTokenBounds   Rule = "token-bounds"
	RuleDateFormat    Rule = "date-format"
	RuleVersionFormat Rule = "version-format"
	RuleSidecar       Rule = "sidecar"
	RuleDegraded      Rule = "degraded"
	RuleDrift         Rule = "drift"
)

// Finding is one validation or extraction diagnostic, attributed to a
// record (by name) and/or a path. Findings are accumulated across the
// whole run and rendered together.
type Finding struct {
	Severity Severity `json:"severity"`
	Rule     Rule     `json:"rule"`
	Record   string   `json:"record,omitempty"`
	Path     string   `json:"path,omitempty"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	subject := f.Record
	if subject == "" {
		subject = f.Path
	}
	if subject == "" {
		return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Rule, f.Message)
	}
	return fmt.Sprintf("[%s] %s %s: %s", f.Severity, f.Rule, subject, f.Message)
}

// CountBySeverity tallies findings per severity.
func CountBySeverity(findings []Finding) (errors, warnings int) {
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return
}

// HasErrors reports whether any error-severity finding is present.
// Warnings alone never fail a run.
func HasErrors(findings []Finding) bool {
	e, _ := CountBySeverity(findings)
	return e > 0
}

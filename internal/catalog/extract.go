package catalog

import (
	"sort"
)

// extraction is the tagged result of metadata extraction for one document:
// either a clean field mapping or a degraded one with the reason recorded,
// plus any sidecar findings to surface through the reporter.
type extraction struct {
	fields   map[string]interface{}
	state    State
	reason   string
	findings []Finding
}

// extractMetadata parses the embedded header and the optional sidecar
// descriptor and reconciles them. Sidecar fields win for any key present
// in both sources: the sidecar is the machine-authored source of truth.
// Header parse failures fail closed into a degraded extraction instead of
// aborting the run.
func extractMetadata(doc Document, content []byte) extraction {
	ex := extraction{state: StateOK}

	header, present, err := parseFrontmatter(content)
	switch {
	case err != nil:
		ex.state = StateDegraded
		ex.reason = err.Error()
	case !present:
		ex.state = StateDegraded
		ex.reason = "frontmatter block missing"
	}

	sidecar, findings := loadSidecar(doc)
	ex.findings = findings

	merged := make(map[string]interface{}, len(header)+len(sidecar))
	for k, v := range header {
		merged[k] = v
	}
	for k, v := range sidecar {
		merged[k] = v
	}
	ex.fields = merged
	return ex
}

// stringField reads a string-valued key, returning fallback when the key
// is absent or not a string.
func stringField(fields map[string]interface{}, key, fallback string) string {
	if v, ok := fields[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// intField reads an integer-valued key. JSON decodes numbers as float64
// and YAML as int, so both shapes are accepted.
func intField(fields map[string]interface{}, key string) (int, bool) {
	switch v := fields[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// stringSlice reads a list-of-strings key, collapsing duplicates and
// sorting so downstream output is deterministic.
func stringSlice(fields map[string]interface{}, key string) []string {
	raw, ok := fields[key].([]interface{})
	if !ok {
		return nil
	}
	seen := make(map[string]bool, len(raw))
	var out []string
	for _, item := range raw {
		s, ok := item.(string)
		if !ok || s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/skillfoundry/skillcat/pkg/buildinfo"
	"github.com/skillfoundry/skillcat/pkg/safeio"
	"github.com/skillfoundry/skillcat/pkg/schema"
)

// DefaultManifestName is the catalog artifact file name at the repo root.
const DefaultManifestName = "manifest.json"

// Stats is the run-level aggregate metadata carried by the manifest. It
// is derived, never authoritative, and takes no part in the uniqueness or
// path invariants.
type Stats struct {
	TotalSkills int            `json:"total_skills"`
	Categories  map[string]int `json:"categories"`
	Toolchains  map[string]int `json:"toolchains"`
}

// Manifest is the consolidated catalog artifact: a mapping from record
// name to record plus aggregate statistics.
type Manifest struct {
	SchemaVersion string            `json:"schema_version"`
	Generated     string            `json:"generated"`
	Valid         bool              `json:"valid"`
	Stats         Stats             `json:"stats"`
	Skills        map[string]Record `json:"skills"`
}

// Assemble builds the manifest from a validated record set. Duplicate
// names keep the first-discovered record, mirroring discovery order; the
// collision itself is already reported by Validate. Stats are computed
// over the deduplicated set, so total_skills always equals the number of
// entries in skills. The generated date is the newest record date rather
// than wall-clock time, so regenerating from an unchanged tree yields
// byte-identical output.
func Assemble(records []Record, valid bool) *Manifest {
	m := &Manifest{
		SchemaVersion: buildinfo.SchemaVersion,
		Valid:         valid,
		Stats: Stats{
			Categories: make(map[string]int),
			Toolchains: make(map[string]int),
		},
		Skills: make(map[string]Record, len(records)),
	}

	for _, rec := range records {
		if _, exists := m.Skills[rec.Name]; exists {
			continue
		}
		m.Skills[rec.Name] = rec
		m.Stats.Categories[rec.Category]++
		if rec.Toolchain != nil {
			m.Stats.Toolchains[*rec.Toolchain]++
		}
		if rec.Updated > m.Generated {
			m.Generated = rec.Updated
		}
	}
	m.Stats.TotalSkills = len(m.Skills)
	return m
}

// Encode serializes the manifest deterministically: two-space indent,
// trailing newline, and object keys in sorted order (encoding/json sorts
// map keys). Byte-identical input state yields byte-identical output.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// Write encodes the manifest and writes it atomically.
func (m *Manifest) Write(path string) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	return safeio.WriteFileAtomic(path, data)
}

// Records returns the manifest's records sorted by source path, the same
// canonical order the builder emits.
func (m *Manifest) Records() []Record {
	out := make([]Record, 0, len(m.Skills))
	for _, rec := range m.Skills {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourcePath < out[j].SourcePath })
	return out
}

// Load reads an existing manifest artifact. Schema violations are
// returned as error findings (the artifact may still be usable for
// drift comparison); an unreadable or undecodable file is fatal.
func Load(path string) (*Manifest, []Finding, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied manifest path
	if err != nil {
		return nil, nil, fmt.Errorf("reading manifest: %w", err)
	}

	var findings []Finding
	if res, err := schema.Validate(schema.Manifest, data); err == nil && !res.Valid {
		for _, ve := range res.Errors {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Rule:     RuleSidecar,
				Path:     path,
				Message:  fmt.Sprintf("manifest schema: %s: %s", ve.Path, ve.Message),
			})
		}
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, findings, fmt.Errorf("parsing manifest: %w", err)
	}
	if m.Skills == nil {
		m.Skills = make(map[string]Record)
	}
	return &m, findings, nil
}

// Summary is the token-count rollup derived from an existing manifest,
// for dashboards and CI checks.
type Summary struct {
	TotalSkills      int            `json:"total_skills"`
	EntryTokensTotal int            `json:"entry_point_tokens_total"`
	FullTokensTotal  int            `json:"full_tokens_total"`
	Categories       map[string]int `json:"categories"`
	Toolchains       map[string]int `json:"toolchains"`
	LastUpdated      string         `json:"last_updated"`
}

// Summarize computes the token summary for a manifest.
func Summarize(m *Manifest) Summary {
	s := Summary{
		TotalSkills: len(m.Skills),
		Categories:  m.Stats.Categories,
		Toolchains:  m.Stats.Toolchains,
		LastUpdated: m.Generated,
	}
	for _, rec := range m.Skills {
		s.EntryTokensTotal += rec.EntryTokens
		s.FullTokensTotal += rec.FullTokens
	}
	return s
}

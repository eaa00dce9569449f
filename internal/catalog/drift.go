package catalog

import (
	"fmt"

	"github.com/skillfoundry/skillcat/pkg/config"
)

// CompareWithManifest diffs a freshly derived record set against what an
// existing manifest claims, reporting drift introduced since the last
// generation. Missing source material is an error; stale derived figures
// are warnings.
func CompareWithManifest(m *Manifest, fresh []Record, cfg *config.Config) []Finding {
	var findings []Finding

	// Name collisions introduced since the last generation
	findings = append(findings, duplicateNameFindings(fresh)...)

	freshByName := make(map[string]Record, len(fresh))
	for _, rec := range fresh {
		freshByName[rec.Name] = rec
	}

	for _, old := range m.Records() {
		cur, ok := freshByName[old.Name]
		if !ok {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Rule:     RuleDrift,
				Record:   old.Name,
				Path:     old.SourcePath,
				Message:  "recorded skill no longer discovered on disk (moved or deleted)",
			})
			continue
		}

		if cur.SourcePath != old.SourcePath {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Rule:     RuleDrift,
				Record:   old.Name,
				Path:     old.SourcePath,
				Message:  fmt.Sprintf("source moved: manifest has %s, disk has %s", old.SourcePath, cur.SourcePath),
			})
		}

		if pct := driftPercent(old.EntryTokens, cur.EntryTokens); pct > cfg.Bounds.DriftPercent {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Rule:     RuleDrift,
				Record:   old.Name,
				Path:     old.SourcePath,
				Message:  fmt.Sprintf("entry_point_tokens stale: manifest %d vs current %d", old.EntryTokens, cur.EntryTokens),
			})
		}
		if pct := driftPercent(old.FullTokens, cur.FullTokens); pct > cfg.Bounds.DriftPercent {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Rule:     RuleDrift,
				Record:   old.Name,
				Path:     old.SourcePath,
				Message:  fmt.Sprintf("full_tokens stale: manifest %d vs current %d", old.FullTokens, cur.FullTokens),
			})
		}

		if cur.Version != old.Version {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Rule:     RuleDrift,
				Record:   old.Name,
				Path:     old.SourcePath,
				Message:  fmt.Sprintf("version changed since generation: manifest %s, disk %s", old.Version, cur.Version),
			})
		}
	}

	recorded := make(map[string]bool, len(m.Skills))
	for name := range m.Skills {
		recorded[name] = true
	}
	for _, rec := range fresh {
		if !recorded[rec.Name] {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Rule:     RuleDrift,
				Record:   rec.Name,
				Path:     rec.SourcePath,
				Message:  "skill on disk is not in the manifest; regenerate",
			})
		}
	}

	return findings
}

// driftPercent returns the relative difference between recorded and
// current as an integer percentage of the recorded value.
func driftPercent(recorded, current int) int {
	if recorded == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	diff := recorded - current
	if diff < 0 {
		diff = -diff
	}
	return diff * 100 / recorded
}

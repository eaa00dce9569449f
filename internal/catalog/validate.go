package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/skillfoundry/skillcat/internal/gitmeta"
	"github.com/skillfoundry/skillcat/pkg/config"
)

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Validate runs the fixed rule set over the full record set and returns
// every finding at once, so an author fixing a batch of documents sees
// the complete list in one pass. Severity follows the rule: structural
// violations are errors, numeric-plausibility drift is a warning.
func Validate(records []Record, repoRoot string, cfg *config.Config) []Finding {
	var findings []Finding

	add := func(sev Severity, rule Rule, rec Record, msg string) {
		findings = append(findings, Finding{
			Severity: sev,
			Rule:     rule,
			Record:   rec.Name,
			Path:     rec.SourcePath,
			Message:  msg,
		})
	}

	for _, rec := range records {
		// 1. Path format
		if !hasAcceptedPrefix(rec.SourcePath, cfg.Discovery.Roots) {
			add(SeverityError, RulePathFormat, rec,
				fmt.Sprintf("source_path must start with one of %s", strings.Join(cfg.Discovery.Roots, ", ")))
		}
		if !strings.HasSuffix(rec.SourcePath, "/"+cfg.Discovery.SkillFile) {
			add(SeverityError, RulePathFormat, rec,
				fmt.Sprintf("source_path must end with /%s", cfg.Discovery.SkillFile))
		}

		// 2. Path existence
		if rec.SourcePath != "" {
			full := filepath.Join(repoRoot, filepath.FromSlash(rec.SourcePath))
			if _, err := os.Stat(full); err != nil {
				add(SeverityError, RulePathExists, rec, "source_path does not exist")
			}
		}

		// 4. Required fields
		for _, req := range []struct{ name, value string }{
			{"name", rec.Name},
			{"version", rec.Version},
			{"category", rec.Category},
		} {
			if req.value == "" {
				add(SeverityError, RuleRequired, rec, fmt.Sprintf("required field %q is empty", req.name))
			}
		}

		// 5. Numeric plausibility: warnings only, oversized legitimate
		// content is expected for some skills
		b := cfg.Bounds
		if rec.EntryTokens < b.EntryMin || rec.EntryTokens > b.EntryMax {
			add(SeverityWarning, RuleTokenBounds, rec,
				fmt.Sprintf("entry_point_tokens %d outside plausible range %d..%d", rec.EntryTokens, b.EntryMin, b.EntryMax))
		}
		if rec.FullTokens < b.FullMin || rec.FullTokens > b.FullMax {
			add(SeverityWarning, RuleTokenBounds, rec,
				fmt.Sprintf("full_tokens %d outside plausible range %d..%d", rec.FullTokens, b.FullMin, b.FullMax))
		}
		if rec.EntryTokens > rec.FullTokens {
			add(SeverityError, RuleTokenBounds, rec,
				fmt.Sprintf("entry_point_tokens %d exceeds full_tokens %d", rec.EntryTokens, rec.FullTokens))
		}

		// 6. Date and version format
		if _, err := time.Parse(gitmeta.DateFormat, rec.Updated); err != nil {
			add(SeverityError, RuleDateFormat, rec,
				fmt.Sprintf("updated %q does not parse as YYYY-MM-DD", rec.Updated))
		}
		if rec.Version != "" && !versionPattern.MatchString(rec.Version) {
			add(SeverityError, RuleVersionFormat, rec,
				fmt.Sprintf("version %q is not MAJOR.MINOR.PATCH", rec.Version))
		}
	}

	// 3. Uniqueness
	findings = append(findings, duplicateNameFindings(records)...)

	return findings
}

// duplicateNameFindings reports every record sharing a duplicated name,
// not just the second occurrence, so an author sees all colliding
// documents at once.
func duplicateNameFindings(records []Record) []Finding {
	byName := make(map[string][]int, len(records))
	for i, rec := range records {
		byName[rec.Name] = append(byName[rec.Name], i)
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	var findings []Finding
	for _, name := range names {
		idxs := byName[name]
		if len(idxs) < 2 {
			continue
		}
		var paths []string
		for _, i := range idxs {
			paths = append(paths, records[i].SourcePath)
		}
		for _, i := range idxs {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Rule:     RuleUniqueName,
				Record:   name,
				Path:     records[i].SourcePath,
				Message:  fmt.Sprintf("name %q declared by %d documents: %s", name, len(idxs), strings.Join(paths, ", ")),
			})
		}
	}
	return findings
}

func hasAcceptedPrefix(sourcePath string, roots []string) bool {
	for _, root := range roots {
		if strings.HasPrefix(sourcePath, strings.TrimSuffix(root, "/")+"/") {
			return true
		}
	}
	return false
}

// Package ignore provides gitignore-based file filtering using go-git
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher filters discovery paths using layered ignore rules.
type Matcher struct {
	repoRoot string
	matcher  gitignore.Matcher
}

// NewMatcher creates a matcher with layered ignore files:
// 1. built-in patterns (.git, deployment output, node_modules)
// 2. .gitignore and related git ignore files
// 3. .skillcatignore at the repo root
// The deployDir argument is the deployment/output tree that must never be
// re-ingested (for example ".claude/skills").
func NewMatcher(repoRoot, deployDir string) (*Matcher, error) {
	fs := osfs.New(repoRoot)

	var allPatterns []gitignore.Pattern

	// Both forms per tree: "x/" skips the directory itself during
	// traversal, "x/**" catches its contents when matched file-by-file.
	defaultPatterns := []string{".git/", ".git/**", "node_modules/", "node_modules/**"}
	if deployDir != "" {
		d := filepath.ToSlash(deployDir)
		defaultPatterns = append(defaultPatterns, d+"/", d+"/**")
	}
	for _, pattern := range defaultPatterns {
		allPatterns = append(allPatterns, gitignore.ParsePattern(pattern, nil))
	}

	// Standard gitignore patterns; ReadPatterns with nil reads .gitignore,
	// global excludes, and .git/info/exclude
	if gitPatterns, err := gitignore.ReadPatterns(fs, nil); err == nil {
		allPatterns = append(allPatterns, gitPatterns...)
	}

	// Repo-level overrides
	if patterns, err := readIgnoreFile(filepath.Join(repoRoot, ".skillcatignore")); err == nil {
		for _, pattern := range patterns {
			allPatterns = append(allPatterns, gitignore.ParsePattern(pattern, nil))
		}
	}

	return &Matcher{
		repoRoot: repoRoot,
		matcher:  gitignore.NewMatcher(allPatterns),
	}, nil
}

// readIgnoreFile reads patterns from a text file (like .skillcatignore)
func readIgnoreFile(path string) ([]string, error) {
	cleaned := filepath.Clean(path)
	if !strings.HasSuffix(cleaned, string(os.PathSeparator)+".skillcatignore") {
		return nil, fmt.Errorf("disallowed ignore file path: %s", cleaned)
	}
	content, err := os.ReadFile(cleaned) // #nosec G304 -- path cleaned and allowlisted
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// IsIgnored checks if a file path (absolute or repo-relative) should be ignored
func (m *Matcher) IsIgnored(path string) bool {
	parts := m.splitRel(path)
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, false)
}

// IsIgnoredDir checks if a directory should be skipped during traversal
func (m *Matcher) IsIgnoredDir(path string) bool {
	parts := m.splitRel(path)
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, true)
}

// splitRel converts a path into repo-relative slash components for go-git matching
func (m *Matcher) splitRel(path string) []string {
	rel := path
	if filepath.IsAbs(path) {
		if r, err := filepath.Rel(m.repoRoot, path); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	if rel == "" || rel == "." {
		return nil
	}
	rel = strings.TrimPrefix(rel, "/")

	parts := strings.Split(rel, "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}

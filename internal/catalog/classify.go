package catalog

import (
	"path"
	"strings"
)

// Classification is a skill's taxonomy position derived from its path and tags.
type Classification struct {
	Category  string
	Toolchain *string
	Framework *string
}

// knownFrameworks is the fixed lookup of framework names recognized in
// skill directory names and tags.
var knownFrameworks = []string{
	"django", "flask", "fastapi", "tauri", "react",
	"nextjs", "express", "vue", "angular", "svelte",
}

// crossLanguageToolchains are toolchain segments that group skills which
// are not bound to one language; they classify as toolchain category with
// a null toolchain.
var crossLanguageToolchains = map[string]bool{
	"platforms": true,
}

// Classify derives (category, toolchain, framework) from a repo-relative
// slash path and the skill's declared tags. It is a pure function: no
// I/O, no randomness, so identical inputs always produce identical
// results. Unrecognized paths classify to the generic bucket.
func Classify(relPath string, tags []string) Classification {
	parts := strings.Split(path.Clean(toSlash(relPath)), "/")

	switch parts[0] {
	case "universal":
		return Classification{Category: CategoryUniversal}
	case "examples":
		return Classification{Category: CategoryExample}
	case "toolchains":
		return classifyToolchain(parts, tags)
	default:
		return Classification{Category: CategoryUnknown}
	}
}

func classifyToolchain(parts []string, tags []string) Classification {
	c := Classification{Category: CategoryToolchain}
	// parts ends with the document filename; a toolchain segment needs
	// at least toolchains/<tc>/<file>.
	if len(parts) < 3 {
		return c
	}
	if !crossLanguageToolchains[parts[1]] {
		tc := parts[1]
		c.Toolchain = &tc
	}

	// frameworks/<name> path segment wins
	for i := 2; i < len(parts)-1; i++ {
		if parts[i] == "frameworks" {
			fw := parts[i+1]
			c.Framework = &fw
			return c
		}
	}

	// Otherwise look for a known framework in the skill directory name
	if len(parts) >= 3 {
		skillDir := strings.ToLower(parts[len(parts)-2])
		for _, fw := range knownFrameworks {
			if strings.Contains(skillDir, fw) {
				f := fw
				c.Framework = &f
				return c
			}
		}
	}

	// Last, in the declared tags
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		for _, fw := range knownFrameworks {
			if lower == fw {
				f := fw
				c.Framework = &f
				return c
			}
		}
	}
	return c
}

// toSlash normalizes separators so callers can pass OS paths in tests.
func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

package catalog

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// auxDirs are the companion directories scanned for auxiliary content.
var auxDirs = []string{"references", "examples"}

// scanReferences collects the repo-relative paths of a skill's auxiliary
// markdown files, in deterministic sorted order. A skill without
// companion directories yields (false, nil).
func scanReferences(doc Document) (bool, []string) {
	var refs []string

	for _, sub := range auxDirs {
		dir := filepath.Join(doc.Dir, sub)
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Absent or unreadable aux dir: the skill simply has no
				// references from it
				return filepath.SkipDir
			}
			if d.IsDir() {
				return nil
			}
			if d.Type()&fs.ModeSymlink != 0 {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), ".md") {
				return nil
			}
			rel, relErr := filepath.Rel(doc.Dir, path)
			if relErr != nil {
				return nil
			}
			refs = append(refs, doc.RelDir+"/"+filepath.ToSlash(rel))
			return nil
		})
	}

	sort.Strings(refs)
	return len(refs) > 0, refs
}

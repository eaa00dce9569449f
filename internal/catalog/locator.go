package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/skillfoundry/skillcat/pkg/config"
	"github.com/skillfoundry/skillcat/pkg/ignore"
	"github.com/skillfoundry/skillcat/pkg/logger"
)

// Document is one discovered skill: the primary content file plus the
// directory that may hold its sidecar and auxiliary trees. Documents are
// ephemeral; they exist only between discovery and record assembly.
type Document struct {
	// Path is the absolute path to the primary content file.
	Path string
	// RelPath is the repo-relative, slash-separated path to the same file.
	RelPath string
	// Dir is the absolute path to the skill directory.
	Dir string
	// RelDir is the repo-relative, slash-separated skill directory.
	RelDir string
}

// Discover walks the accepted roots under repoRoot and returns the
// candidate documents in deterministic (lexicographic by RelPath) order.
// A missing root yields zero matches for that root; an unreadable root is
// fatal. Symbolic links are not followed, so link cycles cannot occur.
func Discover(repoRoot string, cfg *config.Config, matcher *ignore.Matcher) ([]Document, error) {
	var docs []Document

	for _, root := range cfg.Discovery.Roots {
		pattern := filepath.ToSlash(root) + "/**/" + cfg.Discovery.SkillFile
		rootAbs := filepath.Join(repoRoot, root)

		info, err := os.Lstat(rootAbs)
		if os.IsNotExist(err) {
			logger.Debug("Root not present, skipping", logger.String("root", root))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("unreadable root %s: %w", root, err)
		}
		if !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(rootAbs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("walking %s: %w", path, err)
			}
			rel, relErr := filepath.Rel(repoRoot, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if matcher.IsIgnoredDir(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			// Never follow symlinks; a linked tree could cycle
			if d.Type()&fs.ModeSymlink != 0 {
				return nil
			}
			if matcher.IsIgnored(rel) {
				return nil
			}

			ok, matchErr := doublestar.Match(pattern, rel)
			if matchErr != nil {
				return fmt.Errorf("bad discovery pattern %q: %w", pattern, matchErr)
			}
			if !ok {
				return nil
			}

			docs = append(docs, Document{
				Path:    path,
				RelPath: rel,
				Dir:     filepath.Dir(path),
				RelDir:  filepath.ToSlash(filepath.Dir(rel)),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].RelPath < docs[j].RelPath })
	logger.Debug("Discovery complete", logger.Int("documents", len(docs)))
	return docs, nil
}

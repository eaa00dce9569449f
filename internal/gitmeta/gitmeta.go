// Package gitmeta resolves per-file provenance from the repository's git
// history. Trees that are not git repositories degrade to file mtimes.
package gitmeta

import (
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"

	"github.com/skillfoundry/skillcat/pkg/logger"
)

// DateFormat is the calendar-date layout used throughout the catalog.
const DateFormat = "2006-01-02"

// Resolver answers "when was this file last touched" using git history
// when available and file modification time otherwise.
type Resolver struct {
	repoRoot string
	repo     *git.Repository
}

// NewResolver opens the repository at repoRoot. A tree that is not a git
// repository is not an error; the resolver simply falls back to mtimes.
func NewResolver(repoRoot string) *Resolver {
	r := &Resolver{repoRoot: repoRoot}
	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		logger.Debug("Not a git repository, using file mtimes for updated dates", logger.String("root", repoRoot))
		return r
	}
	r.repo = repo
	return r
}

// LastModified returns the YYYY-MM-DD date of the last commit touching
// relPath (slash-separated, relative to the repo root). When the file is
// untracked or the tree has no git history it falls back to the file's
// mtime, and as a last resort to today's date.
func (r *Resolver) LastModified(relPath string) string {
	if r.repo != nil {
		if d, ok := r.commitDate(relPath); ok {
			return d
		}
	}
	if st, err := os.Stat(filepath.Join(r.repoRoot, filepath.FromSlash(relPath))); err == nil {
		return st.ModTime().Format(DateFormat)
	}
	return time.Now().Format(DateFormat)
}

func (r *Resolver) commitDate(relPath string) (string, bool) {
	iter, err := r.repo.Log(&git.LogOptions{FileName: &relPath})
	if err != nil {
		return "", false
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return "", false
	}
	return commit.Committer.When.Format(DateFormat), true
}

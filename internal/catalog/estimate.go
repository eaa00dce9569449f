package catalog

import (
	"bytes"
	"path/filepath"

	"github.com/skillfoundry/skillcat/pkg/safeio"
	"github.com/skillfoundry/skillcat/pkg/tokenizer"
)

// entryExcerpt isolates the compact discovery portion of a document: the
// frontmatter block when one exists, otherwise the content up to the
// first blank line.
func entryExcerpt(content []byte) []byte {
	if block, _, ok := splitFrontmatter(content); ok {
		return block
	}
	if idx := bytes.Index(content, []byte("\n\n")); idx >= 0 {
		return content[:idx]
	}
	return content
}

// estimateTokens produces the two size figures for a document: the
// entry-point excerpt alone, and the full body plus every auxiliary file.
// Auxiliary files that cannot be read, or that resolve outside the repo
// root, are skipped rather than failing the document.
func estimateTokens(doc Document, content []byte, refs []string, repoRoot string, counter tokenizer.Counter) (entry, full int) {
	entry = counter.Count(string(entryExcerpt(content)))
	full = counter.Count(string(content))

	for _, ref := range refs {
		data, err := safeio.ReadFileContained(repoRoot, filepath.Join(repoRoot, filepath.FromSlash(ref)))
		if err != nil {
			continue
		}
		full += counter.Count(string(data))
	}
	return entry, full
}

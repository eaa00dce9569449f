package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillfoundry/skillcat/pkg/config"
	"github.com/skillfoundry/skillcat/pkg/tokenizer"
)

// writeSkill creates a skill directory with a SKILL.md under root.
// frontmatter is written verbatim between --- delimiters when non-empty.
func writeSkill(t *testing.T, root, relDir, frontmatter, body string) string {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(relDir))
	require.NoError(t, os.MkdirAll(dir, 0o755))

	content := body
	if frontmatter != "" {
		content = "---\n" + frontmatter + "---\n" + body
	}
	path := filepath.Join(dir, "SKILL.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return dir
}

// writeSidecar places a metadata.json next to a skill.
func writeSidecar(t *testing.T, skillDir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "metadata.json"), []byte(content), 0o644))
}

// newTestBuilder wires a sequential builder with the character heuristic
// over a fixture tree.
func newTestBuilder(t *testing.T, root string) *Builder {
	t.Helper()
	cfg := config.Default()
	b, err := NewBuilder(root, &cfg, tokenizer.Heuristic{})
	require.NoError(t, err)
	return b
}

// body returns filler prose of roughly n tokens under the heuristic.
func body(n int) string {
	out := make([]byte, 0, n*4)
	for len(out) < n*4 {
		out = append(out, "word "...)
	}
	return string(out[:n*4])
}

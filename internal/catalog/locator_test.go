package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillfoundry/skillcat/pkg/config"
	"github.com/skillfoundry/skillcat/pkg/ignore"
)

func discoverIn(t *testing.T, root string, cfg *config.Config) []Document {
	t.Helper()
	matcher, err := ignore.NewMatcher(root, cfg.Discovery.DeployDir)
	require.NoError(t, err)
	docs, err := Discover(root, cfg, matcher)
	require.NoError(t, err)
	return docs
}

func TestDiscoverOrder(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "toolchains/python/testing", "name: b\n", "Body.\n")
	writeSkill(t, root, "universal/code-review", "name: a\n", "Body.\n")
	writeSkill(t, root, "examples/demo", "name: c\n", "Body.\n")

	cfg := config.Default()
	docs := discoverIn(t, root, &cfg)

	var rels []string
	for _, d := range docs {
		rels = append(rels, d.RelPath)
	}
	assert.Equal(t, []string{
		"examples/demo/SKILL.md",
		"toolchains/python/testing/SKILL.md",
		"universal/code-review/SKILL.md",
	}, rels)
}

func TestDiscoverSkipsUnacceptedRoots(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "universal/real", "name: real\n", "Body.\n")
	writeSkill(t, root, "scratch/stray", "name: stray\n", "Body.\n")

	cfg := config.Default()
	docs := discoverIn(t, root, &cfg)

	require.Len(t, docs, 1)
	assert.Equal(t, "universal/real/SKILL.md", docs[0].RelPath)
}

func TestDiscoverExcludesDeployDir(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "universal/real", "name: real\n", "Body.\n")

	// A deployed copy under the output tree must never be rediscovered
	cfg := config.Default()
	cfg.Discovery.DeployDir = "universal/deployed"
	writeSkill(t, root, "universal/deployed/real", "name: copy\n", "Body.\n")

	docs := discoverIn(t, root, &cfg)
	require.Len(t, docs, 1)
	assert.Equal(t, "universal/real/SKILL.md", docs[0].RelPath)
}

func TestDiscoverEmptyTree(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	docs := discoverIn(t, root, &cfg)
	assert.Empty(t, docs)
}

func TestDiscoverIgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	dir := writeSkill(t, root, "universal/real", "name: real\n", "Body.\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "NOTES.md"), []byte("notes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "universal", "README.md"), []byte("readme"), 0o644))

	cfg := config.Default()
	docs := discoverIn(t, root, &cfg)

	require.Len(t, docs, 1)
	assert.Equal(t, "universal/real/SKILL.md", docs[0].RelPath)
	assert.Equal(t, "universal/real", docs[0].RelDir)
}

func TestDiscoverRespectsIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "universal/keep", "name: keep\n", "Body.\n")
	writeSkill(t, root, "universal/drop", "name: drop\n", "Body.\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".skillcatignore"), []byte("universal/drop/\n"), 0o644))

	cfg := config.Default()
	docs := discoverIn(t, root, &cfg)

	require.Len(t, docs, 1)
	assert.Equal(t, "universal/keep/SKILL.md", docs[0].RelPath)
}

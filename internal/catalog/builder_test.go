package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAppliesDefaults(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "universal/code-review", "name: code-review\n", body(150))

	b := newTestBuilder(t, root)
	records, findings, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, findings)

	rec := records[0]
	assert.Equal(t, "code-review", rec.Name)
	assert.Equal(t, "1.0.0", rec.Version)
	assert.Equal(t, "Skill Foundry Team", rec.Author)
	assert.Equal(t, "MIT", rec.License)
	assert.Equal(t, CategoryUniversal, rec.Category)
	assert.Equal(t, "universal/code-review/SKILL.md", rec.SourcePath)
	assert.Equal(t, StateOK, rec.State)
	assert.NotEmpty(t, rec.Updated)
	assert.Equal(t, []string{}, rec.Tags)
	assert.Equal(t, []string{}, rec.Requires)
	assert.False(t, rec.HasReferences)
	assert.Greater(t, rec.FullTokens, 0)
	assert.Greater(t, rec.FullTokens, rec.EntryTokens)
}

func TestBuildNameFallsBackToDirectory(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "universal/api-design", "version: \"2.0.0\"\n", body(150))

	b := newTestBuilder(t, root)
	records, _, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "api-design", records[0].Name)
	assert.Equal(t, "2.0.0", records[0].Version)
}

func TestBuildSidecarPrecedence(t *testing.T) {
	root := t.TempDir()
	dir := writeSkill(t, root, "toolchains/python/testing",
		"name: header-name\nversion: \"1.0.0\"\nauthor: Header Author\n", body(150))
	writeSidecar(t, dir, `{
  "name": "sidecar-name",
  "version": "3.1.0",
  "entry_point_tokens": 42,
  "full_tokens": 640,
  "updated": "2025-06-01"
}`)

	b := newTestBuilder(t, root)
	records, findings, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, findings)

	rec := records[0]
	assert.Equal(t, "sidecar-name", rec.Name)
	assert.Equal(t, "3.1.0", rec.Version)
	// Keys absent from the sidecar fall through to the header
	assert.Equal(t, "Header Author", rec.Author)
	// Declared token counts override fresh estimates
	assert.Equal(t, 42, rec.EntryTokens)
	assert.Equal(t, 640, rec.FullTokens)
	assert.Equal(t, "2025-06-01", rec.Updated)
}

func TestBuildDegradedMissingFrontmatter(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "universal/bare-notes", "", "# Bare Notes\n\n"+body(150))

	b := newTestBuilder(t, root)
	records, findings, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, StateDegraded, rec.State)
	assert.Equal(t, "frontmatter block missing", rec.DegradedReason)
	assert.Equal(t, "bare-notes", rec.Name)

	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Equal(t, RuleDegraded, findings[0].Rule)
}

func TestBuildDegradedBadYAML(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "universal/broken", "name: [unclosed\n", body(150))

	b := newTestBuilder(t, root)
	records, findings, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, StateDegraded, rec.State)
	assert.Equal(t, "broken", rec.Name)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
}

func TestBuildMalformedSidecarKeepsRecord(t *testing.T) {
	root := t.TempDir()
	dir := writeSkill(t, root, "universal/has-bad-sidecar", "name: has-bad-sidecar\n", body(150))
	writeSidecar(t, dir, `{not json`)

	b := newTestBuilder(t, root)
	records, findings, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "has-bad-sidecar", records[0].Name)

	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Equal(t, RuleSidecar, findings[0].Rule)
}

func TestBuildSchemaViolatingSidecar(t *testing.T) {
	root := t.TempDir()
	dir := writeSkill(t, root, "universal/typed-wrong", "name: typed-wrong\n", body(150))
	writeSidecar(t, dir, `{"entry_point_tokens": "forty"}`)

	b := newTestBuilder(t, root)
	records, findings, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NotEmpty(t, findings)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Equal(t, RuleSidecar, findings[0].Rule)
	// The mistyped declaration is ignored; the fresh estimate stands
	assert.Greater(t, records[0].EntryTokens, 0)
}

func TestBuildScansReferences(t *testing.T) {
	root := t.TempDir()
	dir := writeSkill(t, root, "universal/with-refs", "name: with-refs\n", body(150))
	refDir := filepath.Join(dir, "references")
	require.NoError(t, os.MkdirAll(refDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(refDir, "patterns.md"), []byte(body(50)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(refDir, "data.csv"), []byte("a,b\n"), 0o644))
	exDir := filepath.Join(dir, "examples")
	require.NoError(t, os.MkdirAll(exDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(exDir, "usage.md"), []byte(body(30)), 0o644))

	b := newTestBuilder(t, root)
	records, _, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.True(t, rec.HasReferences)
	assert.Equal(t, []string{
		"universal/with-refs/examples/usage.md",
		"universal/with-refs/references/patterns.md",
	}, rec.ReferenceFiles)

	// Full count includes both markdown aux files but not the csv
	assert.Greater(t, rec.FullTokens, 150)
}

func TestBuildTagsSortedDeduped(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "universal/tagged",
		"name: tagged\ntags:\n  - web\n  - api\n  - web\n", body(150))

	b := newTestBuilder(t, root)
	records, _, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"api", "web"}, records[0].Tags)
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "universal/alpha", "name: alpha\n", body(120))
	writeSkill(t, root, "universal/beta", "name: beta\n", body(130))
	writeSkill(t, root, "toolchains/go/gamma", "name: gamma\n", body(140))
	writeSkill(t, root, "examples/delta", "name: delta\n", body(150))

	seq := newTestBuilder(t, root)
	seqRecords, _, err := seq.Build(context.Background())
	require.NoError(t, err)

	par := newTestBuilder(t, root)
	par.Workers = 4
	parRecords, _, err := par.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, seqRecords, parRecords)
}

func TestBuildCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "universal/alpha", "name: alpha\n", body(120))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := newTestBuilder(t, root)
	_, _, err := b.Build(ctx)
	assert.Error(t, err)
}

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillfoundry/skillcat/pkg/buildinfo"
)

func TestAssembleStats(t *testing.T) {
	py := "python"
	records := []Record{
		{Name: "alpha", Category: CategoryUniversal, Updated: "2025-03-01", SourcePath: "universal/alpha/SKILL.md"},
		{Name: "beta", Category: CategoryToolchain, Toolchain: &py, Updated: "2025-06-15", SourcePath: "toolchains/python/beta/SKILL.md"},
		{Name: "gamma", Category: CategoryToolchain, Toolchain: &py, Updated: "2025-01-10", SourcePath: "toolchains/python/gamma/SKILL.md"},
	}

	m := Assemble(records, true)
	assert.Equal(t, buildinfo.SchemaVersion, m.SchemaVersion)
	assert.True(t, m.Valid)
	assert.Equal(t, 3, m.Stats.TotalSkills)
	assert.Equal(t, map[string]int{CategoryUniversal: 1, CategoryToolchain: 2}, m.Stats.Categories)
	assert.Equal(t, map[string]int{"python": 2}, m.Stats.Toolchains)
	assert.Equal(t, "2025-06-15", m.Generated)
}

func TestAssembleFirstDiscoveredWinsOnDuplicate(t *testing.T) {
	records := []Record{
		{Name: "shared", Version: "1.0.0", Category: CategoryUniversal, SourcePath: "universal/a/SKILL.md", Updated: "2025-01-01"},
		{Name: "shared", Version: "2.0.0", Category: CategoryUniversal, SourcePath: "universal/b/SKILL.md", Updated: "2025-01-02"},
	}
	m := Assemble(records, false)
	require.Len(t, m.Skills, 1)
	assert.Equal(t, "universal/a/SKILL.md", m.Skills["shared"].SourcePath)
	// Stats follow the deduplicated set: total_skills matches len(skills)
	assert.Equal(t, 1, m.Stats.TotalSkills)
	assert.Equal(t, map[string]int{CategoryUniversal: 1}, m.Stats.Categories)
}

func TestEncodeDeterministic(t *testing.T) {
	records := []Record{
		{Name: "zeta", Category: CategoryUniversal, Tags: []string{}, Requires: []string{}, Updated: "2025-02-01", SourcePath: "universal/zeta/SKILL.md", State: StateOK},
		{Name: "alpha", Category: CategoryUniversal, Tags: []string{}, Requires: []string{}, Updated: "2025-02-02", SourcePath: "universal/alpha/SKILL.md", State: StateOK},
	}

	first, err := Assemble(records, true).Encode()
	require.NoError(t, err)
	second, err := Assemble(records, true).Encode()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, byte('\n'), first[len(first)-1])
}

func TestRegenerationIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "universal/alpha", "name: alpha\nupdated: \"2025-04-01\"\n", body(150))
	dir := writeSkill(t, root, "toolchains/go/beta", "name: beta\nupdated: \"2025-04-02\"\n", body(160))
	writeSidecar(t, dir, `{"version": "1.2.0"}`)

	encode := func() []byte {
		b := newTestBuilder(t, root)
		records, _, err := b.Build(context.Background())
		require.NoError(t, err)
		data, err := Assemble(records, true).Encode()
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, encode(), encode())
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultManifestName)

	go_ := "go"
	m := Assemble([]Record{
		{Name: "alpha", Version: "1.0.0", Category: CategoryToolchain, Toolchain: &go_, Tags: []string{}, Requires: []string{}, EntryTokens: 40, FullTokens: 400, Updated: "2025-05-05", SourcePath: "toolchains/go/alpha/SKILL.md", State: StateOK},
	}, true)
	require.NoError(t, m.Write(path))

	loaded, findings, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, findings)
	assert.Equal(t, m.SchemaVersion, loaded.SchemaVersion)
	assert.Equal(t, m.Generated, loaded.Generated)
	require.Len(t, loaded.Skills, 1)
	assert.Equal(t, m.Skills["alpha"], loaded.Skills["alpha"])
}

func TestLoadMissingManifest(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "manifest.json"))
	assert.Error(t, err)
}

func TestLoadUndecodableManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o644))
	_, _, err := Load(path)
	assert.Error(t, err)
}

func TestRecordsSortedBySourcePath(t *testing.T) {
	m := Assemble([]Record{
		{Name: "b", SourcePath: "universal/zzz/SKILL.md"},
		{Name: "a", SourcePath: "universal/aaa/SKILL.md"},
	}, true)

	recs := m.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "universal/aaa/SKILL.md", recs[0].SourcePath)
	assert.Equal(t, "universal/zzz/SKILL.md", recs[1].SourcePath)
}

func TestSummarize(t *testing.T) {
	m := Assemble([]Record{
		{Name: "a", EntryTokens: 40, FullTokens: 400, Category: CategoryUniversal, Updated: "2025-01-01", SourcePath: "universal/a/SKILL.md"},
		{Name: "b", EntryTokens: 60, FullTokens: 700, Category: CategoryUniversal, Updated: "2025-02-01", SourcePath: "universal/b/SKILL.md"},
	}, true)

	s := Summarize(m)
	assert.Equal(t, 2, s.TotalSkills)
	assert.Equal(t, 100, s.EntryTokensTotal)
	assert.Equal(t, 1100, s.FullTokensTotal)
	assert.Equal(t, "2025-02-01", s.LastUpdated)
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		path string
		tags []string
		want Classification
	}{
		{
			name: "universal root",
			path: "universal/code-review/SKILL.md",
			want: Classification{Category: CategoryUniversal},
		},
		{
			name: "examples root",
			path: "examples/demo-pipeline/SKILL.md",
			want: Classification{Category: CategoryExample},
		},
		{
			name: "toolchain with language",
			path: "toolchains/python/testing/SKILL.md",
			want: Classification{Category: CategoryToolchain, Toolchain: strptr("python")},
		},
		{
			name: "frameworks segment wins",
			path: "toolchains/python/frameworks/django/SKILL.md",
			want: Classification{Category: CategoryToolchain, Toolchain: strptr("python"), Framework: strptr("django")},
		},
		{
			name: "framework in skill dir name",
			path: "toolchains/javascript/react-hooks/SKILL.md",
			want: Classification{Category: CategoryToolchain, Toolchain: strptr("javascript"), Framework: strptr("react")},
		},
		{
			name: "framework from tags",
			path: "toolchains/python/web-helpers/SKILL.md",
			tags: []string{"web", "flask"},
			want: Classification{Category: CategoryToolchain, Toolchain: strptr("python"), Framework: strptr("flask")},
		},
		{
			name: "tag match is exact not substring",
			path: "toolchains/python/web-helpers/SKILL.md",
			tags: []string{"flask-adjacent"},
			want: Classification{Category: CategoryToolchain, Toolchain: strptr("python")},
		},
		{
			name: "cross-language platforms segment",
			path: "toolchains/platforms/docker/SKILL.md",
			want: Classification{Category: CategoryToolchain},
		},
		{
			name: "unrecognized root",
			path: "scratch/notes/SKILL.md",
			want: Classification{Category: CategoryUnknown},
		},
		{
			name: "bare toolchains root",
			path: "toolchains/SKILL.md",
			want: Classification{Category: CategoryToolchain},
		},
		{
			name: "windows separators",
			path: `toolchains\go\frameworks\react\SKILL.md`,
			want: Classification{Category: CategoryToolchain, Toolchain: strptr("go"), Framework: strptr("react")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.path, tt.tags)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	first := Classify("toolchains/rust/frameworks/tauri/SKILL.md", []string{"desktop"})
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Classify("toolchains/rust/frameworks/tauri/SKILL.md", []string{"desktop"}))
	}
}

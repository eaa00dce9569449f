package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/skillfoundry/skillcat/pkg/safeio"
)

// FixAction records the repairs applied (or previewed) for one sidecar.
type FixAction struct {
	Path    string   `json:"path"`
	Changes []string `json:"changes"`
}

// sidecarKeyOrder is the canonical field order for rewritten sidecars.
var sidecarKeyOrder = []string{
	"name", "version", "category", "toolchain", "framework",
	"tags", "entry_point_tokens", "full_tokens", "related_skills",
	"requires", "author", "license",
}

// FixSidecars repairs drifted sidecar descriptors in place: stale
// full_tokens beyond the configured drift tolerance, missing
// entry_point_tokens, missing toolchain (derived from the path), and the
// legacy "platform" category. With dryRun the repairs are reported but
// nothing is written.
func (b *Builder) FixSidecars(ctx context.Context, dryRun bool) ([]FixAction, error) {
	docs, err := Discover(b.RepoRoot, b.Config, b.Matcher)
	if err != nil {
		return nil, err
	}

	var actions []FixAction
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		action, err := b.fixOne(doc, dryRun)
		if err != nil {
			return nil, err
		}
		if action != nil {
			actions = append(actions, *action)
		}
	}
	return actions, nil
}

func (b *Builder) fixOne(doc Document, dryRun bool) (*FixAction, error) {
	sidecarPath := filepath.Join(doc.Dir, SidecarName)
	relSidecar := doc.RelDir + "/" + SidecarName

	data, err := safeio.ReadFileContained(doc.Dir, sidecarPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", relSidecar, err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return &FixAction{
			Path:    relSidecar,
			Changes: []string{fmt.Sprintf("skipped: invalid JSON: %v", err)},
		}, nil
	}

	var changes []string

	content, err := safeio.ReadFileContained(b.RepoRoot, doc.Path)
	if err == nil {
		actual := b.Counter.Count(string(content))
		_, refs := scanReferences(doc)
		for _, ref := range refs {
			if refData, err := safeio.ReadFileContained(b.RepoRoot, filepath.Join(b.RepoRoot, filepath.FromSlash(ref))); err == nil {
				actual += b.Counter.Count(string(refData))
			}
		}

		declared, has := intField(fields, "full_tokens")
		if !has || declared == 0 || driftPercent(declared, actual) > b.Config.Bounds.DriftPercent {
			fields["full_tokens"] = actual
			changes = append(changes, fmt.Sprintf("full_tokens: %d -> %d", declared, actual))
		}

		if _, has := intField(fields, "entry_point_tokens"); !has {
			entry := b.Counter.Count(string(entryExcerpt(content)))
			fields["entry_point_tokens"] = entry
			changes = append(changes, fmt.Sprintf("entry_point_tokens: added (%d)", entry))
		}
	}

	if _, has := fields["toolchain"]; !has {
		cls := Classify(doc.RelPath, stringSlice(fields, "tags"))
		switch {
		case cls.Toolchain != nil:
			fields["toolchain"] = *cls.Toolchain
			changes = append(changes, fmt.Sprintf("toolchain: added (%s)", *cls.Toolchain))
		case cls.Category == CategoryUniversal || cls.Category == CategoryToolchain:
			// Cross-language skill: record an explicit null
			fields["toolchain"] = nil
			changes = append(changes, "toolchain: set to null (cross-language skill)")
		}
	}

	if cat, _ := fields["category"].(string); cat == "platform" {
		fields["category"] = CategoryToolchain
		changes = append(changes, "category: platform -> toolchain")
	}

	if len(changes) == 0 {
		return nil, nil
	}
	if !dryRun {
		out, err := encodeSidecar(fields)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", relSidecar, err)
		}
		if err := safeio.WriteFileAtomic(sidecarPath, out); err != nil {
			return nil, err
		}
	}
	return &FixAction{Path: relSidecar, Changes: changes}, nil
}

// encodeSidecar marshals a sidecar with canonical key order: the known
// keys first, any remaining keys after them in sorted order.
func encodeSidecar(fields map[string]interface{}) ([]byte, error) {
	known := make(map[string]bool, len(sidecarKeyOrder))
	var keys []string
	for _, k := range sidecarKeyOrder {
		known[k] = true
		if _, ok := fields[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range fields {
		if !known[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, k := range keys {
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		valJSON, err := json.MarshalIndent(fields[k], "  ", "  ")
		if err != nil {
			return nil, err
		}
		buf.WriteString("  ")
		buf.Write(keyJSON)
		buf.WriteString(": ")
		buf.Write(valJSON)
		if i < len(keys)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

package catalog

import (
	"context"
	"fmt"
	"path"

	"golang.org/x/sync/errgroup"

	"github.com/skillfoundry/skillcat/internal/gitmeta"
	"github.com/skillfoundry/skillcat/pkg/config"
	"github.com/skillfoundry/skillcat/pkg/ignore"
	"github.com/skillfoundry/skillcat/pkg/logger"
	"github.com/skillfoundry/skillcat/pkg/safeio"
	"github.com/skillfoundry/skillcat/pkg/tokenizer"
)

// Builder runs the per-document pipeline and assembles the record set.
type Builder struct {
	RepoRoot string
	Config   *config.Config
	Counter  tokenizer.Counter
	Matcher  *ignore.Matcher
	Dates    *gitmeta.Resolver
	// Workers bounds the parallel extraction stage. Values below 2 keep
	// the pipeline sequential. Output order never depends on scheduling:
	// results land in discovery-order slots.
	Workers int
	Verbose bool
}

// NewBuilder wires a Builder for the repository rooted at repoRoot.
func NewBuilder(repoRoot string, cfg *config.Config, counter tokenizer.Counter) (*Builder, error) {
	matcher, err := ignore.NewMatcher(repoRoot, cfg.Discovery.DeployDir)
	if err != nil {
		return nil, fmt.Errorf("building ignore matcher: %w", err)
	}
	return &Builder{
		RepoRoot: repoRoot,
		Config:   cfg,
		Counter:  counter,
		Matcher:  matcher,
		Dates:    gitmeta.NewResolver(repoRoot),
		Workers:  1,
	}, nil
}

// Build discovers every document under the accepted roots and derives one
// record per document, in deterministic discovery order. Document-level
// failures degrade that record; they never abort the run. The returned
// findings cover extraction only; cross-record validation is Validate's
// job.
func (b *Builder) Build(ctx context.Context) ([]Record, []Finding, error) {
	docs, err := Discover(b.RepoRoot, b.Config, b.Matcher)
	if err != nil {
		return nil, nil, err
	}

	records := make([]Record, len(docs))
	perDoc := make([][]Finding, len(docs))

	if b.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(b.Workers)
		for i, doc := range docs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				records[i], perDoc[i] = b.buildRecord(doc)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
	} else {
		for i, doc := range docs {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			records[i], perDoc[i] = b.buildRecord(doc)
		}
	}

	var findings []Finding
	for _, fs := range perDoc {
		findings = append(findings, fs...)
	}
	return records, findings, nil
}

// buildRecord assembles one normalized record from the extractor,
// classifier, reference scanner, and token estimator.
func (b *Builder) buildRecord(doc Document) (Record, []Finding) {
	if b.Verbose {
		logger.Info("Processing document", logger.String("path", doc.RelPath))
	}

	var findings []Finding
	dirName := path.Base(doc.RelDir)

	content, readErr := safeio.ReadFileContained(b.RepoRoot, doc.Path)
	if readErr != nil {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Rule:     RuleDegraded,
			Record:   dirName,
			Path:     doc.RelPath,
			Message:  fmt.Sprintf("cannot read document: %v", readErr),
		})
	}

	ex := extractMetadata(doc, content)
	findings = append(findings, ex.findings...)
	if readErr != nil {
		ex.state = StateDegraded
		ex.reason = "document unreadable"
	}

	tags := stringSlice(ex.fields, "tags")
	cls := Classify(doc.RelPath, tags)
	hasRefs, refs := scanReferences(doc)
	entry, full := estimateTokens(doc, content, refs, b.RepoRoot, b.Counter)

	// Declared counts in the sidecar/header take precedence over fresh
	// estimates, matching the extractor's reconciliation rule
	if declared, ok := intField(ex.fields, "entry_point_tokens"); ok {
		entry = declared
	}
	if declared, ok := intField(ex.fields, "full_tokens"); ok {
		full = declared
	}

	defaults := b.Config.Defaults
	rec := Record{
		Name:           stringField(ex.fields, "name", dirName),
		Version:        stringField(ex.fields, "version", defaults.Version),
		Category:       cls.Category,
		Toolchain:      cls.Toolchain,
		Framework:      cls.Framework,
		Tags:           tags,
		EntryTokens:    entry,
		FullTokens:     full,
		Requires:       stringSlice(ex.fields, "requires"),
		Author:         stringField(ex.fields, "author", defaults.Author),
		Updated:        stringField(ex.fields, "updated", b.Dates.LastModified(doc.RelPath)),
		License:        stringField(ex.fields, "license", defaults.License),
		SourcePath:     doc.RelPath,
		HasReferences:  hasRefs,
		ReferenceFiles: refs,
		State:          ex.state,
		DegradedReason: ex.reason,
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	if rec.Requires == nil {
		rec.Requires = []string{}
	}

	if ex.state == StateDegraded {
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Rule:     RuleDegraded,
			Record:   rec.Name,
			Path:     doc.RelPath,
			Message:  ex.reason,
		})
	}
	return rec, findings
}

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/skillfoundry/skillcat/internal/catalog"
	"github.com/skillfoundry/skillcat/pkg/logger"
	"github.com/skillfoundry/skillcat/pkg/tokenizer"
)

// formatFlag constrains --format to the report renderers at parse time.
type formatFlag struct {
	value catalog.OutputFormat
}

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string { return string(f.value) }

func (f *formatFlag) Type() string { return "format" }

func (f *formatFlag) Set(s string) error {
	switch catalog.OutputFormat(s) {
	case catalog.FormatText, catalog.FormatJSON:
		f.value = catalog.OutputFormat(s)
		return nil
	}
	return fmt.Errorf("invalid format: %s (valid: text, json)", s)
}

var (
	validateFormat   = formatFlag{value: catalog.FormatText}
	validateManifest string
	validateWorkers  int
)

var validateCmd = &cobra.Command{
	Use:   "validate [repo-root]",
	Short: "Validate the existing manifest against the skill tree",
	Long: `Validate loads the existing manifest, re-derives the record set from
the current file tree, and reports violations and drift: stale token
counts, moved or deleted sources, and name conflicts introduced since
the last generation.

Exit status is zero iff there are no error-severity findings; warnings
are printed but never fail the run. Validate writes nothing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Var(&validateFormat, "format", "Report format (text, json)")
	validateCmd.Flags().StringVar(&validateManifest, "manifest", catalog.DefaultManifestName, "Manifest path, relative to the repo root")
	validateCmd.Flags().IntVar(&validateWorkers, "workers", 1, "Parallel extraction workers (1 = sequential)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	repoRoot, cfg, err := resolveRepo(args)
	if err != nil {
		return err
	}

	manifestPath := filepath.Join(repoRoot, filepath.FromSlash(validateManifest))
	manifest, findings, err := catalog.Load(manifestPath)
	if err != nil {
		return err
	}
	logger.Info("Validating manifest", logger.String("path", manifestPath), logger.Int("skills", len(manifest.Skills)))

	counter := tokenizer.Select(cfg.Tokenizer.Encoding)
	builder, err := catalog.NewBuilder(repoRoot, cfg, counter)
	if err != nil {
		return err
	}
	builder.Workers = validateWorkers

	fresh, _, err := builder.Build(cmd.Context())
	if err != nil {
		return err
	}

	findings = append(findings, catalog.Validate(manifest.Records(), repoRoot, cfg)...)
	findings = append(findings, catalog.CompareWithManifest(manifest, fresh, cfg)...)

	report := catalog.NewReport(findings)
	if err := report.Write(cmd.OutOrStdout(), validateFormat.value); err != nil {
		return err
	}

	if !report.Pass {
		return fmt.Errorf("%w: %d error(s)", errValidationFailed, report.Errors)
	}
	return nil
}

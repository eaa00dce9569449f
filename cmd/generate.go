package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skillfoundry/skillcat/internal/catalog"
	"github.com/skillfoundry/skillcat/pkg/config"
	"github.com/skillfoundry/skillcat/pkg/logger"
	"github.com/skillfoundry/skillcat/pkg/safeio"
	"github.com/skillfoundry/skillcat/pkg/tokenizer"
)

var (
	generateOutput  string
	generateDryRun  bool
	generateVerbose bool
	generateStrict  bool
	generateWorkers int
)

var generateCmd = &cobra.Command{
	Use:   "generate [repo-root]",
	Short: "Generate the skills manifest",
	Long: `Generate discovers every skill under the accepted roots, reconciles
frontmatter and sidecar metadata, estimates token counts, validates the
record set, and writes the manifest artifact.

Regenerating from an unchanged tree produces a byte-identical file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", catalog.DefaultManifestName, "Output file path, relative to the repo root")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Run the full pipeline and print the summary without writing")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print per-document trace information")
	generateCmd.Flags().BoolVar(&generateStrict, "strict", false, "Refuse to write the manifest when error-severity findings exist")
	generateCmd.Flags().IntVar(&generateWorkers, "workers", 1, "Parallel extraction workers (1 = sequential)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	repoRoot, cfg, err := resolveRepo(args)
	if err != nil {
		return err
	}

	counter := tokenizer.Select(cfg.Tokenizer.Encoding)
	logger.Debug("Token counter selected", logger.String("counter", counter.Name()))

	builder, err := catalog.NewBuilder(repoRoot, cfg, counter)
	if err != nil {
		return err
	}
	builder.Workers = generateWorkers
	builder.Verbose = generateVerbose

	records, findings, err := builder.Build(cmd.Context())
	if err != nil {
		return err
	}
	findings = append(findings, catalog.Validate(records, repoRoot, cfg)...)

	report := catalog.NewReport(findings)
	out := cmd.OutOrStdout()
	if err := report.Write(out, catalog.FormatText); err != nil {
		return err
	}

	manifest := catalog.Assemble(records, report.Pass)
	if err := catalog.WriteGenerationSummary(out, manifest); err != nil {
		return err
	}

	if generateDryRun {
		fmt.Fprintln(out, "[dry run] manifest not written")
		return nil
	}
	if generateStrict && !report.Pass {
		logger.Error("Refusing to write manifest", logger.Int("errors", report.Errors))
		return fmt.Errorf("%w: %d error(s) with --strict", errValidationFailed, report.Errors)
	}

	outPath, err := safeio.CleanUserPath(generateOutput)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	target := filepath.Join(repoRoot, filepath.FromSlash(outPath))
	if err := manifest.Write(target); err != nil {
		return err
	}
	logger.Info("Manifest written", logger.String("path", target), logger.Int("skills", manifest.Stats.TotalSkills))
	return nil
}

// resolveRepo turns the optional positional argument into an absolute
// repo root and loads its configuration.
func resolveRepo(args []string) (string, *config.Config, error) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return "", nil, fmt.Errorf("target does not exist: %s", target)
	}
	repoRoot, err := filepath.Abs(target)
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.Load(repoRoot)
	if err != nil {
		return "", nil, err
	}
	return repoRoot, cfg, nil
}

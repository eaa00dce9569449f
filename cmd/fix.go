package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillfoundry/skillcat/internal/catalog"
	"github.com/skillfoundry/skillcat/pkg/tokenizer"
)

var (
	fixDryRun  bool
	fixVerbose bool
)

var fixCmd = &cobra.Command{
	Use:   "fix [repo-root]",
	Short: "Repair drifted sidecar descriptors",
	Long: `Fix rewrites metadata.json sidecars whose derived fields have drifted:
stale full_tokens, missing entry_point_tokens, missing toolchain, and
the legacy "platform" category. Files are rewritten with canonical key
order. Use --dry-run to preview without modifying anything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "Preview repairs without writing")
	fixCmd.Flags().BoolVarP(&fixVerbose, "verbose", "v", false, "Print per-document trace information")
}

func runFix(cmd *cobra.Command, args []string) error {
	repoRoot, cfg, err := resolveRepo(args)
	if err != nil {
		return err
	}

	counter := tokenizer.Select(cfg.Tokenizer.Encoding)
	builder, err := catalog.NewBuilder(repoRoot, cfg, counter)
	if err != nil {
		return err
	}
	builder.Verbose = fixVerbose

	actions, err := builder.FixSidecars(cmd.Context(), fixDryRun)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	prefix := ""
	if fixDryRun {
		prefix = "[dry run] "
	}
	for _, action := range actions {
		fmt.Fprintf(out, "%s%s\n", prefix, action.Path)
		for _, change := range action.Changes {
			fmt.Fprintf(out, "  %s\n", change)
		}
	}
	fmt.Fprintf(out, "%s%d sidecar(s) repaired\n", prefix, len(actions))
	return nil
}

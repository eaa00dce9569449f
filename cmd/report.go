package cmd

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skillfoundry/skillcat/internal/catalog"
	"github.com/skillfoundry/skillcat/pkg/logger"
	"github.com/skillfoundry/skillcat/pkg/safeio"
)

var (
	reportManifest string
	reportOut      string
)

var reportCmd = &cobra.Command{
	Use:   "report [repo-root]",
	Short: "Token-count summary from the existing manifest",
	Long: `Report reads the existing manifest and prints a token-count rollup
(totals overall and per category/toolchain) for dashboards or CI checks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportManifest, "manifest", catalog.DefaultManifestName, "Manifest path, relative to the repo root")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Optional path to also write the JSON summary")
}

func runReport(cmd *cobra.Command, args []string) error {
	repoRoot, _, err := resolveRepo(args)
	if err != nil {
		return err
	}

	manifest, _, err := catalog.Load(filepath.Join(repoRoot, filepath.FromSlash(reportManifest)))
	if err != nil {
		return err
	}

	summary := catalog.Summarize(manifest)
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if reportOut != "" {
		outPath, err := safeio.CleanUserPath(reportOut)
		if err != nil {
			return err
		}
		target := filepath.Join(repoRoot, filepath.FromSlash(outPath))
		if err := safeio.WriteFileAtomic(target, data); err != nil {
			return err
		}
		logger.Info("Summary written", logger.String("path", target))
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/skillfoundry/skillcat/pkg/buildinfo"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show skillcat version information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("extended", false, "Show detailed build information")
	versionCmd.Flags().Bool("json", false, "Output version information in JSON format")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	if jsonOutput {
		info := map[string]string{
			"version":        buildinfo.BinaryVersion,
			"schema_version": buildinfo.SchemaVersion,
		}
		if extended {
			info["module_version"] = buildinfo.ModuleVersion()
			info["go_version"] = runtime.Version()
			info["platform"] = runtime.GOOS + "/" + runtime.GOARCH
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "skillcat %s\n", buildinfo.BinaryVersion)
	if extended {
		fmt.Fprintf(out, "manifest schema: %s\n", buildinfo.SchemaVersion)
		if mv := buildinfo.ModuleVersion(); mv != "" {
			fmt.Fprintf(out, "module: %s\n", mv)
		}
		fmt.Fprintf(out, "go: %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	}
	return nil
}

package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillfoundry/skillcat/pkg/buildinfo"
	"github.com/skillfoundry/skillcat/pkg/exitcode"
	"github.com/skillfoundry/skillcat/pkg/logger"
)

// errValidationFailed marks runs that completed but found error-severity
// findings, so Execute can map them to the validation exit code.
var errValidationFailed = errors.New("validation failed")

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skillcat",
		Short: "Skills catalog generation and validation",
		Long: `Skillcat walks a repository of skills, reconciles their metadata,
and emits a consolidated manifest together with a validation report.

Examples:
   skillcat generate            # Build manifest.json from the skill tree
   skillcat generate --dry-run  # Full pipeline, nothing written
   skillcat validate            # Check the existing manifest against the tree
   skillcat report              # Token summary from the existing manifest`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json-logs", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("skillcat {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// Called from init() for production and explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(generateCmd)
	cmd.AddCommand(validateCmd)
	cmd.AddCommand(reportCmd)
	cmd.AddCommand(fixCmd)
	cmd.AddCommand(versionCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the CLI and maps failures to exit codes.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, errValidationFailed) {
		os.Exit(exitcode.ValidationError)
	}
	logger.Error("Command execution failed", logger.Err(err))
	os.Exit(exitcode.GeneralError)
}

func init() {
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	noColor, _ := cmd.Flags().GetBool("no-color")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "skillcat",
	}

	if err := logger.Initialize(config); err != nil {
		if _, writeErr := os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n"); writeErr != nil {
			_ = writeErr
		}
		os.Exit(exitcode.ConfigError)
	}
}

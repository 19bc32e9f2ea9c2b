package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canonizer/registry-tools/internal/config"
	"github.com/canonizer/registry-tools/internal/runner"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate a registry tree",
	Long: `Validate every transform and schema in the registry at <path>.

All failures are collected and reported together; the command exits non-zero
if any unit fails. Validation never mutates the registry tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("config", "", "Path to configuration file (YAML)")
	validateCmd.Flags().Int("workers", 0, "Number of units validated concurrently (overrides config)")
	validateCmd.Flags().Bool("transforms-only", false, "Only validate transforms")
	validateCmd.Flags().Bool("schemas-only", false, "Only validate schemas")
	validateCmd.Flags().Bool("structure-only", false, "Only check directory structure")
	validateCmd.MarkFlagsMutuallyExclusive("transforms-only", "schemas-only", "structure-only")
}

func runValidate(cmd *cobra.Command, args []string) error {
	report, err := executeValidation(cmd, args[0])
	if err != nil {
		return err
	}

	for _, warning := range report.Warnings {
		fmt.Printf("WARN %s\n", warning)
	}
	for _, line := range report.FailureLines() {
		fmt.Println(line)
	}

	passed, failed := report.Counts()
	if failed > 0 {
		return fmt.Errorf("validation failed: %d of %d units failed", failed, passed+failed)
	}

	fmt.Printf("OK %d units validated\n", passed)
	return nil
}

// executeValidation wires flags and config into a runner and performs the
// validation pass. Shared by validate and index.
func executeValidation(cmd *cobra.Command, root string) (*runner.Report, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	workers, err := cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = cfg.Workers
	}

	scope := runner.ScopeAll
	for flag, s := range map[string]runner.Scope{
		"transforms-only": runner.ScopeTransforms,
		"schemas-only":    runner.ScopeSchemas,
		"structure-only":  runner.ScopeStructure,
	} {
		if cmd.Flags().Lookup(flag) == nil {
			continue
		}
		enabled, err := cmd.Flags().GetBool(flag)
		if err != nil {
			return nil, err
		}
		if enabled {
			scope = s
		}
	}

	r := runner.New(
		runner.WithSchemaValidator(cfg.SchemaValidator()),
		runner.WithWorkers(workers),
	)

	return r.Validate(cmd.Context(), root, scope)
}

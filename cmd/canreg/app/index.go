package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/canonizer/registry-tools/internal/config"
	"github.com/canonizer/registry-tools/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index <path>",
	Short: "Regenerate the registry index",
	Long: `Validate the registry at <path> and, only if every unit passes, rebuild
its index document.

The index is fail-closed: a partially valid registry never produces a
partial index. The document is deterministically ordered and written
atomically.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("config", "", "Path to configuration file (YAML)")
	indexCmd.Flags().Int("workers", 0, "Number of units validated concurrently (overrides config)")
	indexCmd.Flags().String("output", "", "Output file path (default <path>/REGISTRY_INDEX.json)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	root := args[0]

	report, err := executeValidation(cmd, root)
	if err != nil {
		return err
	}

	if !report.Passed() {
		for _, line := range report.FailureLines() {
			fmt.Println(line)
		}
		_, failed := report.Counts()
		return fmt.Errorf("refusing to build index: %d units failed validation", failed)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if output == "" {
		output = filepath.Join(root, cfg.IndexFileName)
	}

	doc := index.NewBuilder().Build(report.PassedTransforms(), report.PassedSchemas())
	if err := index.Write(doc, output); err != nil {
		return err
	}

	fmt.Printf("OK wrote %s (%d transforms, %d schemas)\n", output, len(doc.Transforms), len(doc.Schemas))
	return nil
}

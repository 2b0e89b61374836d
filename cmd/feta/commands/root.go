package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/stevecallear/feta/internal/expr"
	"github.com/stevecallear/feta/internal/snapshot"
	"github.com/stevecallear/feta/internal/store"
)

var (
	// Global flags
	configPath string
	format     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "feta",
	Short: "CLI tool for feature targeting",
	Long: `Feta evaluates feature configuration locally: validate a configuration
file, inspect the features it defines, and compute the decision a given
user would receive.

Examples:
  feta validate --config features.yaml
  feta list --config features.yaml
  feta decide checkout u1 --attr beta=true --config features.yaml`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "features.yaml", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&format, "format", "json", "Output format (json, yaml)")
}

// loadSnapshot reads and compiles the configuration file.
func loadSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	cfg, err := store.NewFileStore(configPath).LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	compiler, err := expr.NewCELCompiler()
	if err != nil {
		return nil, err
	}

	return snapshot.Build(cfg, compiler)
}

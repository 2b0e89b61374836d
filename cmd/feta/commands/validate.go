package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate parses and compiles the configuration file, reporting the
first invalid feature. A valid file is guaranteed loadable by the daemon.

Examples:
  feta validate --config features.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("configuration valid: %d features, etag %s\n", snap.Features.Len(), snap.ETag)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

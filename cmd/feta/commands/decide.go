package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stevecallear/feta/internal/cli"
	"github.com/stevecallear/feta/internal/engine"
)

var (
	decideAttrs []string
	decideAll   bool
)

var decideCmd = &cobra.Command{
	Use:   "decide [feature] <user-key>",
	Short: "Evaluate features for a user",
	Long: `Decide computes the decision the given user would receive for a
feature, using the local configuration file. With --all, every feature in
the file is evaluated.

Examples:
  feta decide checkout u1
  feta decide checkout u1 --attr beta=true --attr orders=12
  feta decide u1 --all --format yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if decideAll != (len(args) == 1) {
			return fmt.Errorf("expected either a feature and a user key, or --all and a user key")
		}

		outputFormat, err := cli.ParseFormat(format)
		if err != nil {
			return err
		}

		attrs, err := cli.ParseAttrs(decideAttrs)
		if err != nil {
			return err
		}

		snap, err := loadSnapshot(context.Background())
		if err != nil {
			return err
		}

		ctx := engine.NewContext(args[len(args)-1])
		for name, value := range attrs {
			ctx.WithAttribute(name, value)
		}

		if decideAll {
			return cli.Print(os.Stdout, snap.Features.DecideAll(ctx), outputFormat)
		}
		return cli.Print(os.Stdout, snap.Features.Decide(args[0], ctx), outputFormat)
	},
}

func init() {
	rootCmd.AddCommand(decideCmd)

	decideCmd.Flags().StringArrayVar(&decideAttrs, "attr", nil, "Context attribute as key=value (repeatable)")
	decideCmd.Flags().BoolVar(&decideAll, "all", false, "Evaluate every feature")
}

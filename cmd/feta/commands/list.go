package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/stevecallear/feta/internal/cli"
	"github.com/stevecallear/feta/internal/engine"
)

var listEnabledOnly bool

type featureSummary struct {
	Name           string           `json:"name" yaml:"name"`
	Enabled        bool             `json:"enabled" yaml:"enabled"`
	ValueType      engine.ValueType `json:"value_type" yaml:"value_type"`
	Variants       int              `json:"variants" yaml:"variants"`
	DefaultVariant string           `json:"default_variant" yaml:"default_variant"`
	AudienceRules  int              `json:"audience_rules" yaml:"audience_rules"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the features in a configuration file",
	Long: `List summarizes every feature defined in the configuration file.

Examples:
  feta list --config features.yaml
  feta list --format yaml
  feta list --enabled-only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, err := cli.ParseFormat(format)
		if err != nil {
			return err
		}

		snap, err := loadSnapshot(context.Background())
		if err != nil {
			return err
		}

		summaries := make([]featureSummary, 0, len(snap.Config.Features))
		for _, name := range snap.Features.Names() {
			fc := snap.Config.Features[name]
			if listEnabledOnly && !fc.Enabled {
				continue
			}
			summaries = append(summaries, featureSummary{
				Name:           name,
				Enabled:        fc.Enabled,
				ValueType:      fc.ValueType,
				Variants:       len(fc.Variants),
				DefaultVariant: fc.DefaultVariant,
				AudienceRules:  len(fc.AudienceRules),
			})
		}

		return cli.Print(os.Stdout, summaries, outputFormat)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listEnabledOnly, "enabled-only", false, "Show only enabled features")
}

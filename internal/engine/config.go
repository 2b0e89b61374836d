package engine

import "sort"

// Config is the declarative configuration document for all features. It is
// consumed, never produced, by the engine; loading and persistence are the
// host's concern.
type Config struct {
	Features map[string]FeatureConfig `json:"features" yaml:"features"`
}

// FeatureConfig is the declarative definition of a single feature.
type FeatureConfig struct {
	Enabled        bool                 `json:"enabled" yaml:"enabled"`
	ValueType      ValueType            `json:"value_type" yaml:"value_type"`
	Variants       map[string]Value     `json:"variants" yaml:"variants"`
	DefaultVariant string               `json:"default_variant" yaml:"default_variant"`
	AudienceRules  []AudienceRuleConfig `json:"audience_rules,omitempty" yaml:"audience_rules,omitempty"`
	DefaultRule    BucketingConfig      `json:"default_rule" yaml:"default_rule"`
}

// AudienceRuleConfig defines a conditional targeting rule: a named
// audience expression plus a bucketing spec.
type AudienceRuleConfig struct {
	Name            string `json:"name" yaml:"name"`
	Expression      string `json:"expression" yaml:"expression"`
	BucketingConfig `yaml:",inline"`
}

// BucketingConfig is either a single named variant at 100% or a
// distribution of variant name to integer percentage that must sum to
// exactly 100. Exactly one of the two forms must be used.
type BucketingConfig struct {
	Variant      string         `json:"variant,omitempty" yaml:"variant,omitempty"`
	Distribution map[string]int `json:"distribution,omitempty" yaml:"distribution,omitempty"`
}

// ruleBuilder translates the bucketing spec into a rule builder.
// Distribution entries are added in sorted variant-name order so the
// bucket layout never depends on map iteration order; a user's assignment
// must be reproducible across processes.
func (c BucketingConfig) ruleBuilder() (*RuleBuilder, error) {
	builder := NewRuleBuilder()
	switch {
	case c.Variant != "" && len(c.Distribution) > 0:
		return nil, NewConfigurationError("bucketing must define a variant or a distribution, not both")
	case c.Variant != "":
		builder.Variant(c.Variant, 100)
	case len(c.Distribution) > 0:
		variants := make([]string, 0, len(c.Distribution))
		for variant := range c.Distribution {
			variants = append(variants, variant)
		}
		sort.Strings(variants)
		for _, variant := range variants {
			builder.Variant(variant, c.Distribution[variant])
		}
	default:
		return nil, NewConfigurationError("invalid variant configuration")
	}
	return builder, nil
}

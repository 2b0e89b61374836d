package engine

import "github.com/stevecallear/feta/internal/expr"

// Feature is a named bundle of typed variants, a default assignment and an
// ordered list of rules: audience rules in declaration order followed by
// one mandatory unconditional default rule. All structural invariants are
// enforced when the feature is built, so Decide can only fail for
// expression evaluation reasons at runtime.
type Feature struct {
	name           string
	enabled        bool
	variants       map[string]Value
	defaultVariant string
	defaultValue   Value
	rules          []*Rule
}

// FeatureBuilder accumulates a feature definition and validates the whole
// of it on Build. No partially-built feature is ever exposed.
type FeatureBuilder struct {
	name           string
	enabled        bool
	valueType      ValueType
	variants       map[string]Value
	defaultVariant string
	rules          []*Rule
	defaultRule    *Rule
}

// NewFeatureBuilder returns a builder for a feature of the given value
// type.
func NewFeatureBuilder(valueType ValueType) *FeatureBuilder {
	return &FeatureBuilder{
		valueType: valueType,
		variants:  make(map[string]Value),
	}
}

// Name sets the feature name.
func (b *FeatureBuilder) Name(name string) *FeatureBuilder {
	b.name = name
	return b
}

// Enabled sets whether the feature is enabled.
func (b *FeatureBuilder) Enabled(enabled bool) *FeatureBuilder {
	b.enabled = enabled
	return b
}

// Variant adds a named variant value.
func (b *FeatureBuilder) Variant(name string, value Value) *FeatureBuilder {
	b.variants[name] = value
	return b
}

// DefaultVariant names the variant used as the fallback assignment.
func (b *FeatureBuilder) DefaultVariant(name string) *FeatureBuilder {
	b.defaultVariant = name
	return b
}

// AudienceRule appends an audience rule. Rules are evaluated in the order
// they are added.
func (b *FeatureBuilder) AudienceRule(rule *Rule) *FeatureBuilder {
	b.rules = append(b.rules, rule)
	return b
}

// DefaultRule sets the unconditional fallback rule evaluated last.
func (b *FeatureBuilder) DefaultRule(rule *Rule) *FeatureBuilder {
	b.defaultRule = rule
	return b
}

// Build validates the accumulated definition and returns the feature. The
// checks: every variant value matches the declared type, the default
// variant exists, a default rule was supplied and carries no expression,
// every rule references only defined variants, and the feature has a name.
// A feature that exists is guaranteed evaluable without structural error.
func (b *FeatureBuilder) Build() (*Feature, error) {
	for _, value := range b.variants {
		if !value.HasType(b.valueType) {
			return nil, NewConfigurationError("all variants must have type: %s", b.valueType)
		}
	}

	if b.defaultVariant == "" {
		return nil, NewConfigurationError("default variant is required")
	}
	defaultValue, ok := b.variants[b.defaultVariant]
	if !ok {
		return nil, NewConfigurationError("default variant does not exist: %s", b.defaultVariant)
	}

	if b.defaultRule == nil {
		return nil, NewConfigurationError("default rule is required")
	}
	if b.defaultRule.program != nil {
		return nil, NewConfigurationError("default rule must not have an expression")
	}

	rules := make([]*Rule, 0, len(b.rules)+1)
	rules = append(rules, b.rules...)
	rules = append(rules, b.defaultRule)

	for _, rule := range rules {
		for _, variant := range rule.ReferencedVariants() {
			if _, ok := b.variants[variant]; !ok {
				return nil, NewConfigurationError("rule uses undefined variant: %s", variant)
			}
		}
	}

	if b.name == "" {
		return nil, NewConfigurationError("feature name is required")
	}

	return &Feature{
		name:           b.name,
		enabled:        b.enabled,
		variants:       b.variants,
		defaultVariant: b.defaultVariant,
		defaultValue:   defaultValue,
		rules:          rules,
	}, nil
}

// FeatureFromConfig builds a feature from its declarative configuration,
// compiling audience expressions with the supplied compiler.
func FeatureFromConfig(name string, cfg FeatureConfig, compiler expr.Compiler) (*Feature, error) {
	builder := NewFeatureBuilder(cfg.ValueType).
		Name(name).
		Enabled(cfg.Enabled).
		DefaultVariant(cfg.DefaultVariant)

	for variant, value := range cfg.Variants {
		builder.Variant(variant, value)
	}

	drb, err := cfg.DefaultRule.ruleBuilder()
	if err != nil {
		return nil, err
	}
	defaultRule, err := drb.Build(compiler)
	if err != nil {
		return nil, err
	}
	builder.DefaultRule(defaultRule)

	for _, rc := range cfg.AudienceRules {
		rb, err := rc.BucketingConfig.ruleBuilder()
		if err != nil {
			return nil, err
		}
		rule, err := rb.Audience(rc.Name, rc.Expression).Build(compiler)
		if err != nil {
			return nil, err
		}
		builder.AudienceRule(rule)
	}

	return builder.Build()
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return f.name
}

// Enabled reports whether the feature is enabled.
func (f *Feature) Enabled() bool {
	return f.enabled
}

// Decide evaluates the feature for the given context. The returned
// decision always carries the bucketing hash and, on every non-success
// path, falls back to the default variant and value. Disabled features
// return immediately without paying any expression evaluation cost. A
// targeting failure on any rule aborts evaluation with an error decision;
// no further rules are tried.
func (f *Feature) Decide(ctx *Context) Decision {
	builder := NewDecisionBuilder().
		Variant(f.defaultVariant).
		Value(f.defaultValue)

	hash := Hash(f.name, ctx.UserKey)
	builder.Hash(hash)

	if !f.enabled {
		return builder.Disabled()
	}

	env := ctx.environment()

	for _, rule := range f.rules {
		applicable, err := rule.IsApplicable(env)
		if err != nil {
			return builder.Error(err)
		}
		if !applicable {
			continue
		}

		variant := rule.Variant(hash)
		if rule.audience != "" {
			builder.Audience(rule.audience)
		}

		value, err := f.variantValue(variant)
		if err != nil {
			return builder.Error(err)
		}
		return builder.Variant(variant).Value(value).Success(rule.reason)
	}

	// unreachable: the default rule has no expression and always applies
	return builder.Error(NewConfigurationError("no applicable rules defined"))
}

// variantValue resolves a variant's value. A miss is unreachable for rules
// that passed assembly validation but is surfaced as a configuration error
// defensively.
func (f *Feature) variantValue(variant string) (Value, error) {
	value, ok := f.variants[variant]
	if !ok {
		return Null, NewConfigurationError("variant not defined: %s", variant)
	}
	return value, nil
}

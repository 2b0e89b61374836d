package engine

import "github.com/stevecallear/feta/internal/expr"

// bucket assigns the half-open hash range [lower, upper) to a variant.
type bucket struct {
	variant string
	lower   uint32
	upper   uint32
}

// Rule is a validated, immutable bucketing rule: an ordered partition of
// [0,100) into variant ranges, optionally gated by a compiled audience
// expression. Rules are built once at configuration-load time and replaced,
// never edited, on reconfiguration.
type Rule struct {
	buckets  []bucket
	program  expr.Program
	audience string
	reason   Reason
}

type variantPercentage struct {
	variant    string
	percentage int
}

// RuleBuilder accumulates variant percentages and an optional audience
// clause, validating the whole rule on Build.
type RuleBuilder struct {
	percentages []variantPercentage
	audience    string
	expression  string
	hasAudience bool
}

// NewRuleBuilder returns an empty rule builder.
func NewRuleBuilder() *RuleBuilder {
	return &RuleBuilder{}
}

// Variant appends a variant with the given percentage. Input order is
// preserved; each variant's bucket starts where the previous one ended.
func (b *RuleBuilder) Variant(name string, percentage int) *RuleBuilder {
	b.percentages = append(b.percentages, variantPercentage{variant: name, percentage: percentage})
	return b
}

// Audience gates the rule on the named audience expression.
func (b *RuleBuilder) Audience(name, expression string) *RuleBuilder {
	b.audience = name
	b.expression = expression
	b.hasAudience = true
	return b
}

// Build validates the rule and compiles the audience expression, if any,
// using the supplied compiler. The buckets must cover [0,100) exactly: at
// least one variant, percentages in range and a cumulative bound of
// exactly 100. The rule's reason classification is fixed here: static or
// split without an audience, match or match_split with one.
func (b *RuleBuilder) Build(compiler expr.Compiler) (*Rule, error) {
	var bound uint32
	buckets := make([]bucket, 0, len(b.percentages))
	for _, p := range b.percentages {
		if p.percentage < 0 || p.percentage > 100 {
			return nil, NewConfigurationError("invalid variant configuration")
		}

		bk := bucket{variant: p.variant, lower: bound, upper: bound + uint32(p.percentage)}
		bound = bk.upper
		buckets = append(buckets, bk)
	}

	if len(buckets) == 0 || bound != 100 {
		return nil, NewConfigurationError("invalid variant configuration")
	}

	reason := ReasonSplit
	if len(buckets) == 1 {
		reason = ReasonStatic
	}

	rule := &Rule{buckets: buckets, reason: reason}
	if b.hasAudience {
		program, err := compiler.Compile(b.expression)
		if err != nil {
			return nil, NewTargetingError("invalid audience expression: %v", err)
		}

		rule.program = program
		rule.audience = b.audience
		if reason == ReasonStatic {
			rule.reason = ReasonMatch
		} else {
			rule.reason = ReasonMatchSplit
		}
	}

	return rule, nil
}

// IsApplicable reports whether the rule applies to the given environment.
// A rule without an expression is always applicable. Otherwise the result
// must equal boolean true exactly; any other result type, including truthy
// non-boolean values, is treated as false rather than an error. A runtime
// evaluation failure is returned as a targeting error.
func (r *Rule) IsApplicable(env expr.Environment) (bool, error) {
	if r.program == nil {
		return true, nil
	}

	out, err := r.program.Eval(env)
	if err != nil {
		return false, NewTargetingError("%v", err)
	}

	b, ok := out.(bool)
	return ok && b, nil
}

// Variant returns the variant whose bucket contains hash mod 100. Bucket
// construction guarantees full coverage of [0,100), so the lookup cannot
// miss for a rule built via the builder; a miss is a programming fault.
func (r *Rule) Variant(hash uint32) string {
	m := hash % 100
	for _, b := range r.buckets {
		if m >= b.lower && m < b.upper {
			return b.variant
		}
	}
	panic("engine: invalid bucket configuration")
}

// Reason returns the rule's reason classification.
func (r *Rule) Reason() Reason {
	return r.reason
}

// AudienceName returns the audience name, or "" for unconditional rules.
func (r *Rule) AudienceName() string {
	return r.audience
}

// ReferencedVariants returns the variant names used by the rule's buckets,
// in bucket order, for cross-validation by the owning feature.
func (r *Rule) ReferencedVariants() []string {
	variants := make([]string, 0, len(r.buckets))
	for _, b := range r.buckets {
		variants = append(variants, b.variant)
	}
	return variants
}

package engine

// Reason explains why a decision resolved the way it did. The reason for a
// matched rule is fixed when the rule is built; disabled, error and
// unknown are runtime outcomes.
type Reason string

const (
	ReasonUnknown    Reason = "unknown"
	ReasonDisabled   Reason = "disabled"
	ReasonStatic     Reason = "static"
	ReasonSplit      Reason = "split"
	ReasonMatch      Reason = "match"
	ReasonMatchSplit Reason = "match_split"
	ReasonError      Reason = "error"
)

func (r Reason) String() string {
	return string(r)
}

// Decision is the full result of evaluating one feature for one context.
// It is produced fresh per evaluation, never mutated after return, and
// safe to pass across goroutines by value.
type Decision struct {
	Hash     uint32 `json:"hash"`
	Variant  string `json:"variant"`
	Reason   Reason `json:"reason"`
	Value    Value  `json:"value"`
	Audience string `json:"audience,omitempty"`
	Error    *Error `json:"error,omitempty"`
}

// DecisionBuilder assembles a Decision incrementally so every outcome,
// including the error paths, returns a fully-populated result.
type DecisionBuilder struct {
	decision Decision
}

// NewDecisionBuilder returns a builder with reason unknown and a null
// value.
func NewDecisionBuilder() *DecisionBuilder {
	return &DecisionBuilder{decision: Decision{Reason: ReasonUnknown}}
}

// Hash sets the bucketing hash.
func (b *DecisionBuilder) Hash(hash uint32) *DecisionBuilder {
	b.decision.Hash = hash
	return b
}

// Variant sets the variant name.
func (b *DecisionBuilder) Variant(variant string) *DecisionBuilder {
	b.decision.Variant = variant
	return b
}

// Value sets the variant value.
func (b *DecisionBuilder) Value(value Value) *DecisionBuilder {
	b.decision.Value = value
	return b
}

// Audience sets the audience name.
func (b *DecisionBuilder) Audience(audience string) *DecisionBuilder {
	b.decision.Audience = audience
	return b
}

// Disabled finalizes the decision with the disabled reason.
func (b *DecisionBuilder) Disabled() Decision {
	b.decision.Reason = ReasonDisabled
	return b.decision
}

// Success finalizes the decision with the given reason.
func (b *DecisionBuilder) Success(reason Reason) Decision {
	b.decision.Reason = reason
	return b.decision
}

// Error finalizes the decision with the error reason and the error
// attached. Whatever variant and value are already set (normally the
// feature defaults) are retained as the fallback.
func (b *DecisionBuilder) Error(err error) Decision {
	b.decision.Reason = ReasonError
	b.decision.Error = asError(err)
	return b.decision
}

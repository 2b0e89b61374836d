package engine

import (
	"fmt"
	"sort"

	"github.com/stevecallear/feta/internal/expr"
)

// Features is an immutable registry of features built atomically from one
// configuration snapshot. It may be shared across any number of concurrent
// readers without synchronization; reconfiguration produces a whole new
// registry instead of mutating this one.
type Features struct {
	features map[string]*Feature
}

// FeaturesFromConfig builds every feature in the configuration document,
// failing fast on the first invalid one so no partially-built registry is
// ever returned. Features are built in name order to keep the first
// reported error stable.
func FeaturesFromConfig(cfg *Config, compiler expr.Compiler) (*Features, error) {
	names := make([]string, 0, len(cfg.Features))
	for name := range cfg.Features {
		names = append(names, name)
	}
	sort.Strings(names)

	features := make(map[string]*Feature, len(names))
	for _, name := range names {
		feature, err := FeatureFromConfig(name, cfg.Features[name], compiler)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", name, err)
		}
		features[name] = feature
	}

	return &Features{features: features}, nil
}

// Decide evaluates the named feature for the given context. An unknown
// feature name yields a request-error decision; the hash is still computed
// from the requested name so callers can correlate failed lookups.
func (f *Features) Decide(feature string, ctx *Context) Decision {
	ft, ok := f.features[feature]
	if !ok {
		return NewDecisionBuilder().
			Hash(Hash(feature, ctx.UserKey)).
			Error(NewRequestError("invalid feature: %s", feature))
	}
	return ft.Decide(ctx)
}

// DecideAll evaluates every registered feature independently; one
// feature's failure never affects another's result.
func (f *Features) DecideAll(ctx *Context) map[string]Decision {
	results := make(map[string]Decision, len(f.features))
	for name, feature := range f.features {
		results[name] = feature.Decide(ctx)
	}
	return results
}

// Len returns the number of registered features.
func (f *Features) Len() int {
	return len(f.features)
}

// Names returns the registered feature names in sorted order.
func (f *Features) Names() []string {
	names := make([]string, 0, len(f.features))
	for name := range f.features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package engine

import "github.com/spaolacci/murmur3"

// Hash returns the deterministic 32-bit bucketing hash for a feature name
// and user key: murmur3 with seed 0 over the concatenation of the two
// strings. The inputs are joined without a separator, so ("ab","c") and
// ("a","bc") produce the same bytes; feature names and user keys are
// controlled independently and such a collision only affects bucket
// selection fairness, never correctness. The output is stable across
// processes and platforms, which is what keeps a user's assignment fixed
// for as long as the feature name and user key are unchanged.
func Hash(featureName, userKey string) uint32 {
	return murmur3.Sum32([]byte(featureName + userKey))
}

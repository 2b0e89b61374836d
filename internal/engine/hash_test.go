package engine

import "testing"

func TestHash(t *testing.T) {
	tests := []struct {
		feature  string
		userKey  string
		expected uint32
	}{
		// murmur3_32 seed 0 reference values; these are regression
		// expectations: changing them re-buckets every existing user.
		{feature: "a", userKey: "bc", expected: 3017643002},
		{feature: "exp", userKey: "g", expected: 2826348013},
		{feature: "f1", userKey: "g", expected: 225554918},
		{feature: "", userKey: "", expected: 0},
	}

	for _, tt := range tests {
		if actual := Hash(tt.feature, tt.userKey); actual != tt.expected {
			t.Errorf("Hash(%q, %q) = %d, want %d", tt.feature, tt.userKey, actual, tt.expected)
		}
	}
}

func TestHashDeterministic(t *testing.T) {
	first := Hash("feature", "user")
	for i := 0; i < 100; i++ {
		if actual := Hash("feature", "user"); actual != first {
			t.Fatalf("Hash is not deterministic: got %d and %d", first, actual)
		}
	}
}

func TestHashConcatenation(t *testing.T) {
	// the inputs are concatenated without a separator, so these collide;
	// this is an accepted property of the hash input format
	if Hash("ab", "c") != Hash("a", "bc") {
		t.Error("expected identical hashes for identical concatenated input")
	}
}

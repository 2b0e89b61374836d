package snapshot_test

import (
	"testing"

	"github.com/stevecallear/feta/internal/snapshot"
)

func TestRegistryLoadUpdate(t *testing.T) {
	c := newCompiler(t)

	s1, err := snapshot.Build(testConfig(true), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2, err := snapshot.Build(testConfig(false), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := snapshot.NewRegistry(s1)
	if r.Load() != s1 {
		t.Error("expected seeded snapshot")
	}

	r.Update(s2)
	if r.Load() != s2 {
		t.Error("expected updated snapshot")
	}
}

func TestRegistrySubscribe(t *testing.T) {
	c := newCompiler(t)

	s1, err := snapshot.Build(testConfig(true), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2, err := snapshot.Build(testConfig(false), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := snapshot.NewRegistry(s1)
	ch, unsub := r.Subscribe()
	defer unsub()

	r.Update(s2)

	select {
	case etag := <-ch:
		if etag != s2.ETag {
			t.Errorf("etag = %s, want %s", etag, s2.ETag)
		}
	default:
		t.Fatal("expected notification")
	}
}

func TestRegistrySubscribeSlowListener(t *testing.T) {
	c := newCompiler(t)

	s1, err := snapshot.Build(testConfig(true), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2, err := snapshot.Build(testConfig(false), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := snapshot.NewRegistry(s1)
	ch, unsub := r.Subscribe()
	defer unsub()

	// the buffer holds one etag; additional updates must not block
	r.Update(s2)
	r.Update(s1)
	r.Update(s2)

	if etag := <-ch; etag != s2.ETag {
		t.Errorf("etag = %s, want %s", etag, s2.ETag)
	}
}

func TestRegistryUnsubscribe(t *testing.T) {
	c := newCompiler(t)

	s1, err := snapshot.Build(testConfig(true), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := snapshot.NewRegistry(s1)
	ch, unsub := r.Subscribe()
	unsub()

	if _, ok := <-ch; ok {
		t.Error("expected closed channel")
	}

	// updates after unsubscribe must not panic
	r.Update(s1)
}

package store

import "testing"

func TestNewMappingStartsWithOneReference(t *testing.T) {
	m := newMapping(nil)
	if m.refs.Load() != 1 {
		t.Fatalf("expected a freshly constructed mapping to start with 1 reference, got %d", m.refs.Load())
	}
}

func TestAcquireIncrementsReferenceCount(t *testing.T) {
	m := newMapping(nil)
	m.Acquire()
	m.Acquire()
	if m.refs.Load() != 3 {
		t.Fatalf("expected 3 references after 2 acquires on top of the initial one, got %d", m.refs.Load())
	}
}

func TestReleaseDoesNotUnmapWhileReferencesRemain(t *testing.T) {
	m := newMapping(nil)
	m.Acquire() // refs = 2

	if err := m.Release(); err != nil {
		// Releasing down to 1 must not attempt to unmap a nil raw mapping.
		t.Fatalf("Release with remaining references returned error: %v", err)
	}
	if m.refs.Load() != 1 {
		t.Fatalf("expected 1 remaining reference, got %d", m.refs.Load())
	}
}

func TestReleaseOnLastReferenceDropsToZero(t *testing.T) {
	m := newMapping(nil)
	// The single initial reference is the last one; releasing it must
	// attempt to unmap a nil raw mapping without panicking, regardless of
	// whether the platform's Unmap treats that as an error.
	_ = m.Release()
	if m.refs.Load() != 0 {
		t.Fatalf("expected refcount to be 0 after releasing the last reference, got %d", m.refs.Load())
	}
}

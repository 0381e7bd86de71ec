//go:build windows

package store

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestWriteAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.bin")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer s.Close()

	payload := bytes.Repeat([]byte{0x42}, 64)
	span, err := s.Write(payload)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	defer span.Release()

	if !bytes.Equal(span.Bytes(), payload) {
		t.Errorf("span bytes do not match what was written")
	}
	if span.Len() != int64(len(payload)) {
		t.Errorf("span.Len() = %d, want %d", span.Len(), len(payload))
	}
}

func TestAllocateZeroProducesZeroedSpan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.bin")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer s.Close()

	span, err := s.AllocateZero(32)
	if err != nil {
		t.Fatalf("AllocateZero returned error: %v", err)
	}
	defer span.Release()

	for i, b := range span.Bytes() {
		if b != 0 {
			t.Fatalf("byte %d of a freshly allocated span is %#x, want 0", i, b)
		}
	}
}

func TestGrowthPreservesEarlierSpans(t *testing.T) {
	// Mapping longevity: a span handed out before the backing file grows
	// (and remaps) must still read back correctly afterward, per the
	// store's "jointly owned by the current mapping slot and every scan
	// result" invariant.
	path := filepath.Join(t.TempDir(), "dump.bin")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer s.Close()

	first, err := s.Write(bytes.Repeat([]byte{0x11}, 16))
	if err != nil {
		t.Fatalf("first Write returned error: %v", err)
	}
	defer first.Release()

	// Force at least one growth cycle by writing well past the initial
	// doubling threshold.
	big := bytes.Repeat([]byte{0x22}, 1<<20)
	second, err := s.Write(big)
	if err != nil {
		t.Fatalf("second Write returned error: %v", err)
	}
	defer second.Release()

	if !bytes.Equal(first.Bytes(), bytes.Repeat([]byte{0x11}, 16)) {
		t.Errorf("earlier span's bytes changed after a later growth/remap")
	}
	if !bytes.Equal(second.Bytes(), big) {
		t.Errorf("later span's bytes do not match what was written")
	}
}

func TestLiveMappingCountTracksDistinctMappings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.bin")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer s.Close()

	if s.LiveMappingCount() != 0 {
		t.Fatalf("expected 0 live mappings before any write")
	}

	span, err := s.Write([]byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	defer span.Release()

	if s.LiveMappingCount() != 1 {
		t.Errorf("expected 1 live mapping after the first write, got %d", s.LiveMappingCount())
	}
}

func TestLengthIsAlwaysAPageMultiple(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.bin")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer s.Close()

	span, err := s.Write([]byte{1})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	defer span.Release()

	if s.Length()%0x1000 != 0 {
		t.Errorf("expected backing file length to be a page multiple, got %d", s.Length())
	}
}

package store

import (
	"log"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// liveMappingCacheSize bounds the store's best-effort "have I already
// seen this mapping" cache. It is an optimization only: the authoritative
// lifetime of a mapping is its own reference count (see mapping.go), so
// an eviction here merely means the next write into an already-known
// mapping is treated as newly-seen, which is harmless.
const liveMappingCacheSize = 256

// SnapshotSpan is a half-open byte range inside some mapping, plus the
// reference that keeps the mapping alive, per §3. It is immutable from
// the store's side once produced.
type SnapshotSpan struct {
	mapping *Mapping
	offset  int64
	length  int64
}

// Bytes returns the span's bytes. Valid until Release is called.
func (s SnapshotSpan) Bytes() []byte {
	return s.mapping.Bytes()[s.offset : s.offset+s.length]
}

// Len returns the span's length in bytes.
func (s SnapshotSpan) Len() int64 { return s.length }

// Release drops this span's reference to its mapping. Call once the
// span's data is no longer needed (e.g. when a scan result is dropped).
func (s SnapshotSpan) Release() error {
	if s.mapping == nil {
		return nil
	}
	return s.mapping.Release()
}

// Store is the thin façade the scanner uses to allocate and write
// through the backing file, the realization of component C. It is safe
// for concurrent use: writes are serialized by the underlying backing
// file's lock.
type Store struct {
	bf     *backingFile
	logger *log.Logger

	mu   sync.Mutex
	seen *lru.Cache // dedup of mapping identities handed out so far
}

// New creates a fresh snapshot store backed by a file at path, logging
// through log.Default(). Any pre-existing file at path is replaced.
func New(path string) (*Store, error) {
	return NewWithLogger(path, log.Default())
}

// NewWithLogger is New with an explicit logger, for callers that want
// store failures routed somewhere other than the default logger.
func NewWithLogger(path string, logger *log.Logger) (*Store, error) {
	bf, err := newBackingFile(path)
	if err != nil {
		logger.Printf("store: failed to create backing file %s: %v", path, err)
		return nil, err
	}
	seen, _ := lru.New(liveMappingCacheSize) // size > 0, New never errors here
	return &Store{bf: bf, logger: logger, seen: seen}, nil
}

// AllocateZero reserves n zero-filled bytes in the backing file and
// returns a span over them.
func (s *Store) AllocateZero(n int64) (SnapshotSpan, error) {
	return s.writeInternal(nil, n)
}

// Write copies src into the backing file and returns a span over the
// copy.
func (s *Store) Write(src []byte) (SnapshotSpan, error) {
	return s.writeInternal(src, int64(len(src)))
}

func (s *Store) writeInternal(src []byte, n int64) (SnapshotSpan, error) {
	if n == 0 {
		return SnapshotSpan{}, nil
	}

	m, off, err := s.bf.write(src, n)
	if err != nil {
		s.logger.Printf("store: write of %d bytes failed: %v", n, err)
		return SnapshotSpan{}, err
	}

	m.Acquire() // this span's own reference
	s.trackMapping(m)

	return SnapshotSpan{mapping: m, offset: off, length: n}, nil
}

// trackMapping records that m has been handed out, deduplicating by
// mapping identity so that N writes into the same current mapping are
// bookkept as one live mapping, not N.
func (s *Store) trackMapping(m *Mapping) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen.Add(m, struct{}{})
}

// LiveMappingCount returns the number of distinct mappings the store has
// handed out that are still tracked (bounded, best-effort — see
// liveMappingCacheSize).
func (s *Store) LiveMappingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen.Len()
}

// Length returns the backing file's current length in bytes, always a
// multiple of the page quantum.
func (s *Store) Length() int64 {
	return s.bf.lengthBytes()
}

// Close releases the store's own reference to the current mapping and
// deletes the backing file from disk. Mappings still referenced by scan
// results remain valid until their last reference is released.
func (s *Store) Close() error {
	if s.bf.current != nil {
		_ = s.bf.current.Release()
	}
	return s.bf.closeAndDelete()
}

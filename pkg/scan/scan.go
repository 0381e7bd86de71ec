package scan

import (
	"fmt"

	"github.com/nullstride/memscan/pkg/region"
	"github.com/nullstride/memscan/pkg/scanerr"
)

// Entry is one surviving element from a search: its current value, the
// value it held when first recorded, and its index within the region's
// element array. Grounded on original_source/scanner/scan.hpp's
// scan_entry.
type Entry struct {
	Value         uint64
	SnapshotValue uint64
	ElementIndex  int
}

// Scan is one region's search state: the predicate it was built with,
// the element width it operates over, and the surviving entries from
// its last search. A Scan is not safe for concurrent use; the engine
// gives each one to exactly one pool task at a time.
type Scan struct {
	region   *region.Region
	kind     PredicateKind
	elemSize int
	valid    bool
	results  []Entry
}

// New constructs a Scan over region with the given predicate and element
// kind. Returns scanerr.ErrInvalidArgument if elem's size is not one of
// 1, 2, 4 or 8 bytes, mirroring the original constructor's
// invalid_argument check.
func New(r *region.Region, kind PredicateKind, elem ElementKind) (*Scan, error) {
	size := elem.Size()
	if size != 1 && size != 2 && size != 4 && size != 8 {
		return nil, fmt.Errorf("scan: %w: element_size must be 1, 2, 4 or 8", scanerr.ErrInvalidArgument)
	}
	return &Scan{region: r, kind: kind, elemSize: size}, nil
}

// Region returns the scan's backing region.
func (s *Scan) Region() *region.Region { return s.region }

// Kind returns the scan's predicate kind.
func (s *Scan) Kind() PredicateKind { return s.kind }

// ElementSize returns the scan's element width in bytes.
func (s *Scan) ElementSize() int { return s.elemSize }

// IsValid reports whether the scan is marked valid: its last SearchValue
// found at least one match, or SetValid was called (which needs no
// result).
func (s *Scan) IsValid() bool { return s.valid }

// SetValid marks the scan as valid without requiring a result (used by
// unknown_value, which accepts the whole region unconditionally).
func (s *Scan) SetValid() { s.valid = true }

// Results returns the scan's surviving entries.
func (s *Scan) Results() []Entry { return s.results }

// AddResult appends e to the scan's surviving entries.
func (s *Scan) AddResult(e Entry) { s.results = append(s.results, e) }

// SearchValue clears any prior results and evaluates cmp against every
// element of the region, recording those for which cmp returns true. It
// returns the number of surviving elements and sets IsValid when that
// count is positive. Grounded on scan::search_value.
func (s *Scan) SearchValue(cmp Comparator, ref1 uint64, ref2 *uint64) int {
	s.results = nil
	if s.region == nil {
		return 0
	}

	count := s.region.ElementCount(s.elemSize)
	for i := 0; i < count; i++ {
		v := s.region.ElementAt(i, s.elemSize)
		if cmp(v, ref1, ref2) {
			s.results = append(s.results, Entry{Value: v, SnapshotValue: v, ElementIndex: i})
		}
	}

	s.valid = len(s.results) > 0
	return len(s.results)
}

// Update re-reads the scan's region and refreshes every surviving
// entry's Value in place, leaving SnapshotValue untouched so later
// next-scan predicates (changed/unchanged/increased_value/
// decreased_value) can still compare against the value recorded at the
// time of this scan's last search. Grounded on scan::update.
func (s *Scan) Update() {
	if s.region == nil || len(s.results) == 0 {
		return
	}
	if !s.region.ReadMemory() {
		return
	}
	for i := range s.results {
		s.results[i].Value = s.region.ElementAt(s.results[i].ElementIndex, s.elemSize)
	}
}

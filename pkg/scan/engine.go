package scan

import (
	"sort"

	"github.com/nullstride/memscan/pkg/pool"
	"github.com/nullstride/memscan/pkg/region"
	"github.com/nullstride/memscan/pkg/store"
	"github.com/nullstride/memscan/pkg/winproc"
)

// Engine ties the snapshot store, the worker pool, and the attached
// process together and drives first-scan/next-scan. Grounded on
// original_source/slow_scanner.h's slow_scanner class, which holds the
// same three collaborators (_file, _pool, _process_handle) plus
// attach_to.
type Engine struct {
	snapStore *store.Store
	workers   *pool.Pool
	process   winproc.Handle
}

// NewEngine constructs an Engine over an already-open snapshot store,
// with a fixed-size worker pool of the given width.
func NewEngine(snapStore *store.Store, workers int) *Engine {
	return &Engine{
		snapStore: snapStore,
		workers:   pool.New(workers),
	}
}

// AttachTo targets the engine at process for subsequent scans, mirroring
// slow_scanner::attach_to.
func (e *Engine) AttachTo(process winproc.Handle) {
	e.process = process
}

// Close shuts down the engine's worker pool. It does not close the
// underlying store, which the caller owns independently.
func (e *Engine) Close() {
	e.workers.Shutdown()
}

type scanTask struct {
	scan *Scan
	cmp  Comparator
	ref1 uint64
	ref2 *uint64
}

func (t scanTask) run() any {
	if !t.scan.Region().ReadMemory() {
		return t.scan
	}

	if t.scan.Kind() == UnknownValue {
		t.scan.SetValid()
		return t.scan
	}

	t.scan.SearchValue(t.cmp, t.ref1, t.ref2)
	return t.scan
}

// FirstScan enumerates every committed, non-mapped region in window
// matching protect, and runs one parallel predicate search per region.
// Results are filtered to valid scans and sorted by region base address.
// Grounded on slow_scanner::first_scan.
func (e *Engine) FirstScan(window region.Window, protect uint32, kind PredicateKind, elem ElementKind, ref1 uint64, ref2 *uint64) ([]*Scan, error) {
	cmp := MakeComparator(kind, elem)
	regions := region.Enumerate(e.snapStore, e.process, window, protect)

	futures := make([]*pool.Future, 0, len(regions))
	for _, r := range regions {
		s, err := New(r, kind, elem)
		if err != nil {
			return nil, err
		}
		t := scanTask{scan: s, cmp: cmp, ref1: ref1, ref2: ref2}
		futures = append(futures, e.workers.Submit(t.run))
	}

	results := make([]*Scan, 0, len(futures))
	for _, fut := range futures {
		v := fut.Get()
		if v == nil {
			continue
		}
		s := v.(*Scan)
		if s.IsValid() {
			results = append(results, s)
		}
	}

	sortScansByBase(results)
	return results, nil
}

// NextScan re-enumerates window and narrows prevScans against the fresh
// regions. It is a single-threaded two-pointer sweep, not pool-parallel,
// matching slow_scanner::next_scan.
//
// The sweep preserves a quirk present in the original: when regions
// overlap, the region cursor always advances past the consumed region,
// but the prev-scan cursor is advanced ONLY when the prev scan entirely
// precedes the current region (p_end <= r_start) — never after an
// overlap is consumed. A single prior scan can therefore be matched
// against more than one new region if the new regions split what used
// to be one contiguous mapping. This is left intentionally unchanged
// rather than "fixed," since the original's own author left it this way
// and the spec treats it as a preserved ambiguity, not a bug to silently
// correct.
func (e *Engine) NextScan(window region.Window, protect uint32, kind PredicateKind, elem ElementKind, prevScans []*Scan, ref1 uint64, ref2 *uint64) ([]*Scan, error) {
	cmp := MakeComparator(kind, elem)
	regions := region.Enumerate(e.snapStore, e.process, window, protect)
	elemSize := elem.Size()

	var results []*Scan
	i, j := 0, 0

	for j < len(prevScans) && i < len(regions) {
		r := regions[i]
		prev := prevScans[j]

		rStart := uint64(r.Base())
		rEnd := rStart + uint64(r.Size())
		pStart := uint64(prev.Region().Base())
		pEnd := pStart + uint64(prev.Region().Size())

		if rEnd <= pStart {
			i++
			continue
		}
		if pEnd <= rStart {
			j++
			continue
		}

		i++

		s, err := New(r, kind, elem)
		if err != nil {
			return nil, err
		}

		if !r.ReadMemory() {
			continue
		}

		ovStart, ovEnd := rStart, rEnd
		if pStart > ovStart {
			ovStart = pStart
		}
		if pEnd < ovEnd {
			ovEnd = pEnd
		}
		if ovEnd <= ovStart {
			if s.IsValid() {
				results = append(results, s)
			}
			continue
		}
		overlapBytes := int(ovEnd - ovStart)
		rOff := int(ovStart - rStart)
		pOff := int(ovStart - pStart)

		if prev.Kind() == UnknownValue {
			for off := 0; off+elemSize <= overlapBytes; off += elemSize {
				oldV := prev.Region().ElementAtByteOffset(pOff+off, elemSize)
				newV := r.ElementAtByteOffset(rOff+off, elemSize)
				if cmp(newV, oldV, ref2) {
					s.AddResult(Entry{Value: newV, SnapshotValue: newV, ElementIndex: (rOff + off) / elemSize})
					s.SetValid()
				}
			}
		} else {
			for _, e := range prev.Results() {
				eAddr := pStart + uint64(e.ElementIndex*elemSize)
				if eAddr < ovStart || eAddr+uint64(elemSize) > ovEnd {
					continue
				}
				newIndex := int((eAddr - rStart) / uint64(elemSize))
				v := r.ElementAt(newIndex, elemSize)

				ref := ref1
				switch kind {
				case Unchanged, Changed, DecreasedValue, IncreasedValue:
					ref = e.SnapshotValue
				}

				if cmp(v, ref, ref2) {
					s.AddResult(Entry{Value: v, SnapshotValue: v, ElementIndex: newIndex})
					s.SetValid()
				}
			}
		}

		if s.IsValid() {
			results = append(results, s)
		}
	}

	sortScansByBase(results)
	return results, nil
}

func sortScansByBase(scans []*Scan) {
	sort.Slice(scans, func(a, b int) bool {
		return scans[a].Region().Base() < scans[b].Region().Base()
	})
}

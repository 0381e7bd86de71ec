package region

import (
	"errors"

	"github.com/nullstride/memscan/pkg/scanerr"
	"github.com/nullstride/memscan/pkg/store"
	"github.com/nullstride/memscan/pkg/winproc"
)

// Window is a half-open virtual-address range [Lo, Hi) to enumerate.
type Window struct {
	Lo uintptr
	Hi uintptr
}

// Enumerate produces the ordered sequence of committed, non-mapped
// regions in window that match any bit of protect, clipped to window.
// Grounded on original_source/src/slow_scanner.cpp's
// slow_scanner::get_regions: query, clip, admit, then advance by the
// descriptor's *original* end so clipping never causes a re-visit.
func Enumerate(snapStore *store.Store, process winproc.Handle, window Window, protect uint32) []*Region {
	var regions []*Region

	cursor := window.Lo
	for cursor < window.Hi {
		desc, err := winproc.EnumerateRegion(process, cursor)
		if err != nil {
			if errors.Is(err, scanerr.ErrEnumerationStopped) {
				break
			}
			break
		}

		originalEnd := desc.Base + desc.Size

		clippedBase := desc.Base
		clippedEnd := desc.Base + desc.Size
		if clippedBase < window.Lo {
			clippedBase = window.Lo
		}
		if clippedEnd > window.Hi {
			clippedEnd = window.Hi
		}

		if clippedEnd > clippedBase {
			size := clippedEnd - clippedBase
			clipped := desc
			clipped.Base = clippedBase
			clipped.Size = size

			r := New(snapStore, process, clipped)
			if r.HasProtection(protect) && r.IsCommitted() && !r.IsMemMapped() {
				regions = append(regions, r)
			}
		}

		if originalEnd <= cursor {
			// Defensive: a zero-size or non-advancing descriptor would
			// otherwise spin forever.
			break
		}
		cursor = originalEnd
	}

	return regions
}

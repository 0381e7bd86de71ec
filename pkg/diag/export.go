// Package diag exports region snapshots as compressed diagnostic
// artifacts, e.g. for attaching a region's raw bytes to a bug report
// without shipping the whole (much larger) backing file. Grounded on
// pkg/recorder/compression.go's reusable-encoder/decoder zstd wrapper.
package diag

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/nullstride/memscan/pkg/region"
)

var (
	encoder, _ = zstd.NewWriter(nil)
	decoder, _ = zstd.NewReader(nil)
)

// RegionSnapshot is a self-describing, compressed copy of one region's
// bytes at the moment it was read.
type RegionSnapshot struct {
	Base       uintptr
	Size       uintptr
	Compressed []byte
}

// ExportRegion compresses r's current snapshot bytes. The region must
// already have a live snapshot (ReadMemory called at least once);
// otherwise the exported payload is empty.
func ExportRegion(r *region.Region) RegionSnapshot {
	raw := r.RawBytes()
	return RegionSnapshot{
		Base:       r.Base(),
		Size:       r.Size(),
		Compressed: encoder.EncodeAll(raw, make([]byte, 0, len(raw))),
	}
}

// Bytes decompresses the snapshot's payload back to raw region bytes.
func (s RegionSnapshot) Bytes() ([]byte, error) {
	out, err := decoder.DecodeAll(s.Compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("diag: decompress region snapshot at %#x: %w", s.Base, err)
	}
	return out, nil
}

// ExportRegions compresses a batch of regions, e.g. every region a scan
// result still references, for bundling into a single diagnostic file.
func ExportRegions(regions []*region.Region) []RegionSnapshot {
	out := make([]RegionSnapshot, 0, len(regions))
	for _, r := range regions {
		out = append(out, ExportRegion(r))
	}
	return out
}

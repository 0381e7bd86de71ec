// Package scanerr defines the error taxonomy shared by the store, region,
// and scan engine packages.
package scanerr

import "errors"

// ErrStoreUnavailable means the backing file could not be created or
// grown. It is fatal to the current session: callers should abort rather
// than retry.
var ErrStoreUnavailable = errors.New("scanerr: backing store unavailable")

// ErrMappingFailed means a single mmap/CreateFileMapping call failed. The
// store folds this into ErrStoreUnavailable before it reaches callers.
var ErrMappingFailed = errors.New("scanerr: mapping failed")

// ErrReadFailed means the OS refused to read a region's bytes. It is
// local to one region and never propagates past the engine.
var ErrReadFailed = errors.New("scanerr: read failed")

// ErrEnumerationStopped means a virtual-memory query returned zero. It
// terminates enumeration cleanly and is never surfaced to callers.
var ErrEnumerationStopped = errors.New("scanerr: enumeration stopped")

// ErrInvalidArgument means a scan was constructed with an element size
// outside {1,2,4,8}.
var ErrInvalidArgument = errors.New("scanerr: invalid argument")

// ErrUnsupportedPlatform is returned by the non-Windows build of the
// winproc collaborators; this module targets Windows only.
var ErrUnsupportedPlatform = errors.New("scanerr: unsupported platform")

// ErrClosed means an operation was attempted on a mapping or store that
// has already been released.
var ErrClosed = errors.New("scanerr: already closed")

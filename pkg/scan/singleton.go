package scan

import "sync"

// The C++ original ties slow_scanner to a process-wide singleton<T> base
// (singleton.hpp, not present in the retrieved source) so every caller
// shares one engine, one backing file, and one thread pool. Go has no
// template-based equivalent, so the same "construct once, share
// everywhere" shape is expressed with a package-level sync.Once,
// matching the teacher's own lazy-init pattern in
// pkg/instrumentation/runtime_trace.go.
var (
	globalOnce   sync.Once
	globalEngine *Engine
)

// Global returns the process-wide Engine, constructing it on first call
// via factory. Subsequent calls ignore factory and return the same
// instance. Callers that need an independent engine (tests, multiple
// stores in one process) should use NewEngine directly instead.
func Global(factory func() *Engine) *Engine {
	globalOnce.Do(func() {
		globalEngine = factory()
	})
	return globalEngine
}

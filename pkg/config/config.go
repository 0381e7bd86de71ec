// Package config loads scanner options the way the teacher's
// instrumentation package loads its own: documented defaults, overridable
// by a config file, overridable again by environment variables.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/nullstride/memscan/pkg/winproc"
)

// Options controls the store and engine's operational parameters.
type Options struct {
	// BackingFilePath is where the snapshot store's backing file lives.
	BackingFilePath string `yaml:"backing_file_path"`

	// WorkerCount is the fixed size of the first-scan worker pool.
	WorkerCount int `yaml:"worker_count"`

	// DefaultProtect is the protection mask used when none is supplied
	// by the caller (a Windows PAGE_* bitmask).
	DefaultProtect uint32 `yaml:"default_protect"`
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		BackingFilePath: "dump.bin",
		WorkerCount:     8,
		DefaultProtect:  winproc.ProtectReadWrite,
	}
}

// Load builds Options from, in increasing priority: built-in defaults, an
// optional YAML file at configPath (skipped silently if it doesn't
// exist), then environment variables MEMSCAN_BACKING_FILE,
// MEMSCAN_WORKERS, MEMSCAN_PROTECT.
func Load(configPath string) (Options, error) {
	opts := DefaultOptions()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			if err := yaml.Unmarshal(data, &opts); err != nil {
				return opts, err
			}
		} else if !os.IsNotExist(err) {
			return opts, err
		}
	}

	if v := os.Getenv("MEMSCAN_BACKING_FILE"); v != "" {
		opts.BackingFilePath = v
	}
	if v := os.Getenv("MEMSCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.WorkerCount = n
		}
	}
	if v := os.Getenv("MEMSCAN_PROTECT"); v != "" {
		if n, err := strconv.ParseUint(v, 0, 32); err == nil {
			opts.DefaultProtect = uint32(n)
		}
	}

	return opts, nil
}

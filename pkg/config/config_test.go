package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.BackingFilePath == "" {
		t.Errorf("expected a non-empty default backing file path")
	}
	if opts.WorkerCount <= 0 {
		t.Errorf("expected a positive default worker count, got %d", opts.WorkerCount)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load returned error for missing config file: %v", err)
	}
	if opts != DefaultOptions() {
		t.Errorf("expected defaults when config file is missing, got %+v", opts)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memscan.yaml")
	yaml := "backing_file_path: custom.bin\nworker_count: 4\ndefault_protect: 4\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if opts.BackingFilePath != "custom.bin" {
		t.Errorf("expected backing_file_path override, got %q", opts.BackingFilePath)
	}
	if opts.WorkerCount != 4 {
		t.Errorf("expected worker_count override, got %d", opts.WorkerCount)
	}
	if opts.DefaultProtect != 4 {
		t.Errorf("expected default_protect override, got %d", opts.DefaultProtect)
	}
}

func TestLoadEnvOverridesFileAndDefaults(t *testing.T) {
	t.Setenv("MEMSCAN_BACKING_FILE", "env.bin")
	t.Setenv("MEMSCAN_WORKERS", "16")
	t.Setenv("MEMSCAN_PROTECT", "0x40")

	path := filepath.Join(t.TempDir(), "memscan.yaml")
	yaml := "backing_file_path: file.bin\nworker_count: 4\ndefault_protect: 4\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if opts.BackingFilePath != "env.bin" {
		t.Errorf("expected env override of backing file path, got %q", opts.BackingFilePath)
	}
	if opts.WorkerCount != 16 {
		t.Errorf("expected env override of worker count, got %d", opts.WorkerCount)
	}
	if opts.DefaultProtect != 0x40 {
		t.Errorf("expected env override of default protect, got %#x", opts.DefaultProtect)
	}
}

func TestLoadIgnoresInvalidEnvWorkerCount(t *testing.T) {
	t.Setenv("MEMSCAN_WORKERS", "not-a-number")

	opts, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if opts.WorkerCount != DefaultOptions().WorkerCount {
		t.Errorf("expected default worker count to survive an invalid env override, got %d", opts.WorkerCount)
	}
}

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Threads != runtime.NumCPU() || cfg.TileSize != 64 || cfg.LogLevel != "notice" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	dev, ok := cfg.Device(cfg.DefaultDevice)
	if !ok || dev.Type != CPU || dev.Threads != cfg.Threads {
		t.Fatalf("expected a default cpu device; got %+v", dev)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
threads: 3
tile_size: 32
log_level: debug
default_device: Titan
devices:
  - name: cpu
  - name: titan
    type: gpu
    threads: 1
`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.TileSize != 32 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if dev, _ := cfg.Device("cpu"); dev.Threads != 3 || dev.Type != CPU {
		t.Fatalf("expected cpu device to inherit defaults; got %+v", dev)
	}
	if dev, ok := cfg.Device("TITAN"); !ok || dev.Type != GPU || dev.Threads != 1 {
		t.Fatalf("expected case insensitive device lookup; got %+v", dev)
	}
}

func TestParseErrors(t *testing.T) {
	specs := []string{
		"default_device: missing\n",
		"devices:\n  - name: a\n  - name: A\n",
		"devices:\n  - name: a\n    type: fpga\n",
		"devices:\n  - type: cpu\n",
		"tile_sise: 10\n",
		"temp_dir: /tmp\n",
	}

	for index, s := range specs {
		if _, err := Parse(strings.NewReader(s)); err == nil {
			t.Fatalf("[spec %d] expected an error", index)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultDevice != "cpu" {
		t.Fatalf("expected the default cpu device; got %q", cfg.DefaultDevice)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("tile_size: 16\nlog_level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TileSize != 16 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	if _, err = Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error loading a missing file")
	}
}

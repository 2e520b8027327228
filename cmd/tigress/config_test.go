package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	data := "verbose: true\ntypecheck: true\njobs: 4\nmax_call_depth: 200\nmax_array_size: 64\nhistory: /tmp/h\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cfg.Verbose || !cfg.Typecheck || cfg.Jobs != 4 || cfg.MaxCallDepth != 200 || cfg.MaxArraySize != 64 || cfg.historyPath() != "/tmp/h" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("verbos: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatalf("expected an error for an unknown key")
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected an error for a missing explicit config")
	}
}

func TestEmptyConfigKeepsDefaults(t *testing.T) {
	cfg := defaultConfig()
	if err := decodeConfig(strings.NewReader(""), &cfg); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Jobs != 1 {
		t.Fatalf("unexpected jobs %d", cfg.Jobs)
	}
}

func TestEvaluateAndReport(t *testing.T) {
	cfg := defaultConfig()
	cfg.Typecheck = true
	out := evaluate(cfg, newLogger(&bytes.Buffer{}, false), "t", `let var x: int := 4 in x * 2 end`)
	var stdout, stderr bytes.Buffer
	if !report(&stdout, &stderr, out, false) {
		t.Fatalf("report failed: %s", stderr.String())
	}
	if got, want := stdout.String(), "type = int\nresult = 8\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDumpSkipsEvaluation(t *testing.T) {
	cfg := defaultConfig()
	cfg.Dump = true
	out := evaluate(cfg, newLogger(&bytes.Buffer{}, false), "t", `1 / 0`)
	if out.err != nil || out.ran {
		t.Fatalf("dump should not evaluate: %+v", out)
	}
	if !strings.Contains(string(out.tree), "node: binary") {
		t.Fatalf("unexpected tree:\n%s", out.tree)
	}
}

func TestRunFilesKeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, src := range []string{`1 + 1`, `"b"`, `1 / 0`} {
		p := filepath.Join(dir, string(rune('a'+i))+".tig")
		if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
			t.Fatalf("write program: %v", err)
		}
		paths = append(paths, p)
	}
	cfg := defaultConfig()
	cfg.Jobs = 3
	err := runFiles(context.Background(), cfg, newLogger(&bytes.Buffer{}, false), paths)
	if err == nil || !strings.Contains(err.Error(), "1 of 3") {
		t.Fatalf("expected one failure, got %v", err)
	}
}

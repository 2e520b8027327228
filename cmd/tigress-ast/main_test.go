package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunFormatsAndDumps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.tig")
	if err := os.WriteFile(path, []byte("let var x := (1) in x + (2 * 3) end"), 0o644); err != nil {
		t.Fatalf("write program: %v", err)
	}

	var buf bytes.Buffer
	if err := run(&buf, []string{path}, true, true); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got, want := buf.String(), "# type: int\nlet var x := 1 in x + 2 * 3 end\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	buf.Reset()
	if err := run(&buf, []string{path}, false, false); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "node: let\n") {
		t.Fatalf("unexpected dump:\n%s", buf.String())
	}
}

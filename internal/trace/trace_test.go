package trace

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestEmitNDJSON(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)
	if err := w.Emit("source", "", 1024); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if err := w.Emit("bsc", "p=0.02", 0); err != nil {
		t.Fatalf("emit: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 1 is not JSON: %v", err)
	}
	if first["stage"] != "source" {
		t.Fatalf("stage = %v", first["stage"])
	}
	if first["bytes"] != float64(1024) {
		t.Fatalf("bytes = %v", first["bytes"])
	}
	if _, ok := first["msg"]; ok {
		t.Fatal("empty msg was not omitted")
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 2 is not JSON: %v", err)
	}
	if second["msg"] != "p=0.02" {
		t.Fatalf("msg = %v", second["msg"])
	}
	if _, ok := second["bytes"]; ok {
		t.Fatal("zero bytes was not omitted")
	}
}

func TestNopWriterDiscards(t *testing.T) {
	if err := Nop().Emit("x", "y", 1); err != nil {
		t.Fatalf("nop emit: %v", err)
	}
	var w *Writer
	if err := w.Emit("x", "y", 1); err != nil {
		t.Fatalf("nil emit: %v", err)
	}
}

package sim

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func readAllCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return rows
}

func TestAppendCSVHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "res.csv")
	ix := Indices{Rs: 1, RsRate: 0.5, Rc: 1.5, Rci: 0.5, Rco: 0.4, RI: 0.3, Er: 0.01}
	if err := WriteIndices(path, ix); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteIndices(path, ix); err != nil {
		t.Fatalf("second write: %v", err)
	}

	rows := readAllCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 data rows", len(rows))
	}
	if rows[0][0] != "rs" || rows[0][6] != "er" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][1] != "0.5000000000" {
		t.Fatalf("Rs cell = %q", rows[1][1])
	}
}

func TestWritePairMetricsLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channel.csv")
	if err := writePairMetrics(path, "in.dat", "out.dat", 0.25, 0.02); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows := readAllCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if len(rows[0]) != 9 {
		t.Fatalf("header has %d columns, want 9", len(rows[0]))
	}
	// I(X;Y) sits second from last, p last.
	if rows[1][7] != "0.2500000000" || rows[1][8] != "0.0200000000" {
		t.Fatalf("data row = %v", rows[1])
	}
	for i := 2; i < 7; i++ {
		if rows[1][i] != "0" {
			t.Fatalf("reserved column %d = %q, want 0", i, rows[1][i])
		}
	}
}

func TestWriteEntropyReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entropy.csv")
	if err := writeEntropyReport(path, "output.dat", 7.25, 1024); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows := readAllCSV(t, path)
	if rows[1][0] != "output.dat" || rows[1][1] != "7.2500000000" || rows[1][2] != "1024" {
		t.Fatalf("data row = %v", rows[1])
	}
}

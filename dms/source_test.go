package dms

import (
	"bytes"
	mrand "math/rand"
	"os"
	"testing"
)

func writeString(path, s string) error {
	return os.WriteFile(path, []byte(s), 0o644)
}

func TestNewSourceRequiresExpanded(t *testing.T) {
	if _, err := NewSource(PMF{0.5, 0.5}, nil); err != ErrNotExpanded {
		t.Fatalf("got %v, want ErrNotExpanded", err)
	}
}

func TestSampleDegenerateAllZero(t *testing.T) {
	p, _ := PMF{1, 0}.Expand()
	src, err := NewSource(p, mrand.New(mrand.NewSource(1)))
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	for _, b := range src.Sample(512) {
		if b != 0 {
			t.Fatalf("degenerate p0=1 source emitted %d", b)
		}
	}
}

func TestSampleDegenerateAllOnes(t *testing.T) {
	p, _ := PMF{0, 1}.Expand()
	src, err := NewSource(p, mrand.New(mrand.NewSource(1)))
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	for _, b := range src.Sample(512) {
		if b != 255 {
			t.Fatalf("degenerate p1=1 source emitted %d", b)
		}
	}
}

func TestSampleDeterministicWithSeed(t *testing.T) {
	p, _ := PMF{0.3, 0.7}.Expand()
	a, _ := NewSource(p, mrand.New(mrand.NewSource(42)))
	b, _ := NewSource(p, mrand.New(mrand.NewSource(42)))
	if !bytes.Equal(a.Sample(1000), b.Sample(1000)) {
		t.Fatal("same seed produced different samples")
	}
}

func TestSampleEmpiricalSkew(t *testing.T) {
	p, _ := PMF{0.1, 0.9}.Expand()
	src, _ := NewSource(p, mrand.New(mrand.NewSource(7)))
	data := src.Sample(20000)
	ones := 0
	for _, b := range data {
		for i := 0; i < 8; i++ {
			ones += int(b >> uint(i) & 1)
		}
	}
	frac := float64(ones) / float64(len(data)*8)
	if frac < 0.88 || frac > 0.92 {
		t.Fatalf("one-bit fraction = %v, want ~0.9", frac)
	}
}

package channel

import (
	"bytes"
	"errors"
	mrand "math/rand"
	"testing"
)

func TestNewRejectsBadProbability(t *testing.T) {
	for _, p := range []float64{-0.01, 1.01} {
		if _, err := New(p, nil); !errors.Is(err, ErrBadProbability) {
			t.Fatalf("p=%v: %v", p, err)
		}
	}
}

func TestTransmitInvolution(t *testing.T) {
	rng := mrand.New(mrand.NewSource(9))
	input := make([]byte, 4096)
	noise := make([]byte, 4096)
	rng.Read(input)
	rng.Read(noise)

	out, err := Transmit(input, noise)
	if err != nil {
		t.Fatalf("transmit: %v", err)
	}
	back, err := Transmit(out, noise)
	if err != nil {
		t.Fatalf("transmit back: %v", err)
	}
	if !bytes.Equal(back, input) {
		t.Fatal("XOR twice did not recover the input")
	}
}

func TestTransmitLengthMismatch(t *testing.T) {
	if _, err := Transmit([]byte{1, 2}, []byte{3}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("got %v", err)
	}
}

func TestNoiseBytesZeroProbability(t *testing.T) {
	c, err := New(0, mrand.New(mrand.NewSource(1)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	noise, err := c.NoiseBytes(1024)
	if err != nil {
		t.Fatalf("noise: %v", err)
	}
	for i, b := range noise {
		if b != 0 {
			t.Fatalf("noise[%d] = %d with p=0", i, b)
		}
	}
}

func TestNoiseBitsExtremes(t *testing.T) {
	c0, _ := New(0, mrand.New(mrand.NewSource(1)))
	for _, b := range c0.NoiseBits(256) {
		if b != '0' {
			t.Fatal("p=0 produced a flip")
		}
	}
	c1, _ := New(1, mrand.New(mrand.NewSource(1)))
	for _, b := range c1.NoiseBits(256) {
		if b != '1' {
			t.Fatal("p=1 produced a non-flip")
		}
	}
}

func TestNoiseBitsFraction(t *testing.T) {
	c, _ := New(0.2, mrand.New(mrand.NewSource(5)))
	noise := c.NoiseBits(50000)
	ones := 0
	for _, b := range noise {
		if b == '1' {
			ones++
		}
	}
	frac := float64(ones) / float64(len(noise))
	if frac < 0.18 || frac > 0.22 {
		t.Fatalf("flip fraction = %v, want ~0.2", frac)
	}
}

func TestNoiseBytesDeterministicWithSeed(t *testing.T) {
	a, _ := New(0.1, mrand.New(mrand.NewSource(33)))
	b, _ := New(0.1, mrand.New(mrand.NewSource(33)))
	na, err := a.NoiseBytes(500)
	if err != nil {
		t.Fatalf("noise: %v", err)
	}
	nb, err := b.NoiseBytes(500)
	if err != nil {
		t.Fatalf("noise: %v", err)
	}
	if !bytes.Equal(na, nb) {
		t.Fatal("same seed produced different noise")
	}
}

func TestTransmitBits(t *testing.T) {
	out, err := TransmitBits([]byte("0101"), []byte("0011"))
	if err != nil {
		t.Fatalf("transmit: %v", err)
	}
	if string(out) != "0110" {
		t.Fatalf("got %q, want 0110", out)
	}
	if _, err := TransmitBits([]byte("01"), []byte("0x")); err == nil {
		t.Fatal("non-binary noise accepted")
	}
	if _, err := TransmitBits([]byte("01"), []byte("0")); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("got %v", err)
	}
}

package huffman

import (
	"bytes"
	"errors"
	mrand "math/rand"
	"testing"
)

func TestEncodeExactBlob(t *testing.T) {
	weights := map[byte]float64{'A': 0.5, 'B': 0.25, 'C': 0.25}
	blob, err := Encode([]byte("ABC"), weights)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{
		0x10, 0x00, // header size 16
		0x02,                   // 3 symbols
		0x03, 0x00, 0x00, 0x00, // original length 3
		'A', 1, 0x00,
		'B', 2, 0x02,
		'C', 2, 0x03,
		0x58, // 0 10 11, zero-padded
	}
	if !bytes.Equal(blob, want) {
		t.Fatalf("blob = % x, want % x", blob, want)
	}
}

func TestRoundTrip(t *testing.T) {
	weights := map[byte]float64{'a': 5, 'b': 2, 'c': 1, 'd': 1, ' ': 3}
	msgs := []string{
		"a",
		"ab",
		"abacabad cab",
		"dddddddddddddddddddddddddd",
		"a b c d a b c d aaaa",
	}
	for _, msg := range msgs {
		blob, err := Encode([]byte(msg), weights)
		if err != nil {
			t.Fatalf("encode %q: %v", msg, err)
		}
		got, err := Decode(blob)
		if err != nil {
			t.Fatalf("decode %q: %v", msg, err)
		}
		if string(got) != msg {
			t.Fatalf("round trip %q -> %q", msg, got)
		}
	}
}

func TestRoundTripRandom(t *testing.T) {
	rng := mrand.New(mrand.NewSource(3))
	weights := map[byte]float64{}
	for s := 0; s < 256; s++ {
		weights[byte(s)] = rng.Float64() + 0.01
	}
	for trial := 0; trial < 10; trial++ {
		msg := make([]byte, 1+rng.Intn(4096))
		rng.Read(msg)
		blob, err := Encode(msg, weights)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := Decode(blob)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !bytes.Equal(got, msg) {
			t.Fatalf("trial %d: round trip mismatch", trial)
		}
	}
}

func TestRoundTripSingleSymbol(t *testing.T) {
	msg := bytes.Repeat([]byte{'z'}, 100)
	blob, err := Encode(msg, map[byte]float64{'z': 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Fatalf("round trip mismatch: got %d bytes", len(got))
	}
}

func TestEncodeErrors(t *testing.T) {
	if _, err := Encode(nil, map[byte]float64{'a': 1}); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("empty message: %v", err)
	}
	if _, err := Encode([]byte("ax"), map[byte]float64{'a': 1}); !errors.Is(err, ErrNoCode) {
		t.Fatalf("missing code: %v", err)
	}
}

func TestDecodeBlobTooShort(t *testing.T) {
	if _, err := Decode([]byte{1, 2, 3}); !errors.Is(err, ErrBlobTooShort) {
		t.Fatalf("short blob: %v", err)
	}
}

func TestDecodeCorruptHeader(t *testing.T) {
	blob, err := Encode([]byte("hello"), map[byte]float64{'h': 1, 'e': 1, 'l': 2, 'o': 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	tooSmall := append([]byte(nil), blob...)
	tooSmall[0], tooSmall[1] = 3, 0
	if _, err := Decode(tooSmall); !errors.Is(err, ErrCorruptHeader) {
		t.Fatalf("tiny header size: %v", err)
	}

	tooBig := append([]byte(nil), blob...)
	tooBig[0], tooBig[1] = 0xff, 0xff
	if _, err := Decode(tooBig); !errors.Is(err, ErrCorruptHeader) {
		t.Fatalf("oversized header size: %v", err)
	}

	zeroBits := append([]byte(nil), blob...)
	zeroBits[8] = 0 // first entry's BITS field
	if _, err := Decode(zeroBits); !errors.Is(err, ErrCorruptHeader) {
		t.Fatalf("zero-bit code: %v", err)
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	blob, err := Encode([]byte("mississippi"), map[byte]float64{'m': 1, 'i': 4, 's': 4, 'p': 2})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Keep the header, drop the payload tail.
	headerSize := int(blob[0]) | int(blob[1])<<8
	truncated := blob[:headerSize]
	if _, err := Decode(truncated); !errors.Is(err, ErrUndecodable) {
		t.Fatalf("truncated payload: %v", err)
	}
}

func TestDecodeEmptyOriginal(t *testing.T) {
	tab, err := NewTable(map[byte]float64{'q': 1, 'r': 1})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	blob := marshalHeader(tab, 0)
	got, err := Decode(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d bytes, want 0", len(got))
	}
}

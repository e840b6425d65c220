package fec

// ASCII bit strings are the coder's working representation. Bits within a
// byte are addressed most significant first, matching the legacy text
// artifacts this format interoperates with.

// ExtractBits returns only the '0'/'1' bytes of text, in order. The legacy
// bitstream artifact interleaves bits with commentary and whitespace; all of
// it is ignored here.
func ExtractBits(text []byte) []byte {
	out := make([]byte, 0, len(text))
	for _, c := range text {
		if c == '0' || c == '1' {
			out = append(out, c)
		}
	}
	return out
}

// BitsFromBytes expands data into an ASCII bit string, MSB first per byte.
func BitsFromBytes(data []byte) []byte {
	out := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			out = append(out, '0'+(b>>uint(i))&1)
		}
	}
	return out
}

// BytesFromBits packs an ASCII bit string back into bytes, MSB first.
// A trailing group of fewer than 8 bits is dropped.
func BytesFromBits(bits []byte) ([]byte, error) {
	if err := validateBits(bits); err != nil {
		return nil, err
	}
	n := len(bits) / 8
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			b <<= 1
			if bits[i*8+j] == '1' {
				b |= 1
			}
		}
		out[i] = b
	}
	return out, nil
}

// Adjustment reports how Reconcile changed a decoded bit string.
type Adjustment struct {
	PaddedBits    int
	TruncatedBits int
}

// Adjusted reports whether any padding or truncation happened.
func (a Adjustment) Adjusted() bool { return a.PaddedBits > 0 || a.TruncatedBits > 0 }

// Reconcile aligns a decoded bit string with the known original byte length:
// short strings are padded with '0', long ones truncated. When originalLen
// is negative the length is inferred from the bits alone and only rounded
// down to a whole number of bytes. The adjustment is reported, not hidden.
func Reconcile(bits []byte, originalLen int) ([]byte, Adjustment) {
	var adj Adjustment
	if originalLen >= 0 {
		want := originalLen * 8
		switch {
		case len(bits) > want:
			adj.TruncatedBits = len(bits) - want
			bits = bits[:want]
		case len(bits) < want:
			adj.PaddedBits = want - len(bits)
			padded := make([]byte, want)
			copy(padded, bits)
			for i := len(bits); i < want; i++ {
				padded[i] = '0'
			}
			bits = padded
		}
		return bits, adj
	}
	if rem := len(bits) % 8; rem != 0 {
		adj.TruncatedBits = rem
		bits = bits[:len(bits)-rem]
	}
	return bits, adj
}

package infometric

import "math/bits"

// BitErrorRate is the fraction of mismatched bits between two byte
// sequences, computed over their overlapping prefix by per-byte XOR
// popcount. It returns the rate and the number of bits compared.
func BitErrorRate(a, b []byte) (float64, int) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0, 0
	}
	errs := 0
	for i := 0; i < n; i++ {
		errs += bits.OnesCount8(a[i] ^ b[i])
	}
	total := n * 8
	return float64(errs) / float64(total), total
}

// BitErrorRateBits is BitErrorRate over ASCII bit strings.
func BitErrorRateBits(a, b []byte) (float64, int) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0, 0
	}
	errs := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			errs++
		}
	}
	return float64(errs) / float64(n), n
}

// SymbolErrorRate is the fraction of mismatched bytes over the overlapping
// prefix of two byte sequences.
func SymbolErrorRate(a, b []byte) (float64, int) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0, 0
	}
	errs := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			errs++
		}
	}
	return float64(errs) / float64(n), n
}

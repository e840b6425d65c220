package infometric

import "math"

// epsilon is the spacing of 1.0 (2^-52). Zero-probability buckets are lifted
// to it before taking logarithms so entropy terms stay finite.
var epsilon = math.Nextafter(1, 2) - 1

// EmpiricalPMF histograms data over 256 buckets and normalizes by length.
// Empty input yields an all-zero PMF.
func EmpiricalPMF(data []byte) []float64 {
	p := make([]float64, 256)
	if len(data) == 0 {
		return p
	}
	for _, b := range data {
		p[b]++
	}
	n := float64(len(data))
	for i := range p {
		p[i] /= n
	}
	return p
}

// Entropy computes -sum p*log2(p) in bits per symbol, guarding zero
// probabilities with epsilon.
func Entropy(p []float64) float64 {
	var h float64
	for _, v := range p {
		if v <= 0 {
			v = epsilon
		}
		h -= v * math.Log2(v)
	}
	return h
}

// BinaryEntropy is the two-symbol entropy H(p0, p1) in bits per bit.
func BinaryEntropy(p0, p1 float64) float64 {
	return Entropy([]float64{p0, p1})
}

// Redundancy is 1 - H/Hmax for a distribution over len(p) symbols.
func Redundancy(p []float64) float64 {
	if len(p) < 2 {
		return 0
	}
	hmax := math.Log2(float64(len(p)))
	return 1 - Entropy(p)/hmax
}

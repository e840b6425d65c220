package infometric

import "math"

const numSymbols = 256

// TransitionMatrix is the empirical conditional distribution P(output|input)
// between two aligned byte sequences. Rows are normalized to sum to 1; rows
// whose input symbol never occurred stay all-zero rather than being
// fabricated as uniform.
type TransitionMatrix struct {
	P [numSymbols][numSymbols]float64
	// Compared is the number of aligned pairs counted (the overlapping
	// prefix length of the two sequences).
	Compared int
}

// Transition counts co-occurrences over the overlapping prefix of input and
// output and row-normalizes the counts.
func Transition(input, output []byte) *TransitionMatrix {
	n := len(input)
	if len(output) < n {
		n = len(output)
	}
	m := &TransitionMatrix{Compared: n}
	for i := 0; i < n; i++ {
		m.P[input[i]][output[i]]++
	}
	for r := range m.P {
		var sum float64
		for c := range m.P[r] {
			sum += m.P[r][c]
		}
		if sum == 0 {
			continue
		}
		for c := range m.P[r] {
			m.P[r][c] /= sum
		}
	}
	return m
}

// MutualInformation evaluates I(X;Y) over the matrix entries with row sums
// as P(i) and column sums as P(j), skipping zero joint terms (0*log0 = 0).
// Negative results, which can arise from floating-point error, and any
// NaN/Inf are replaced by 0 with Substituted status so callers can tell the
// fallback from a genuine zero.
func (m *TransitionMatrix) MutualInformation() Measurement {
	var px, py [numSymbols]float64
	for i := 0; i < numSymbols; i++ {
		for j := 0; j < numSymbols; j++ {
			px[i] += m.P[i][j]
			py[j] += m.P[i][j]
		}
	}
	var mi float64
	for i := 0; i < numSymbols; i++ {
		if px[i] <= 0 {
			continue
		}
		for j := 0; j < numSymbols; j++ {
			pij := m.P[i][j]
			if pij <= 0 || py[j] <= 0 {
				continue
			}
			mi += pij * math.Log2(pij/(px[i]*py[j]))
		}
	}
	if math.IsNaN(mi) || math.IsInf(mi, 0) {
		return substituted(0, "mutual information was NaN or Inf")
	}
	if mi < 0 {
		return substituted(0, "negative mutual information clamped")
	}
	return measured(mi)
}

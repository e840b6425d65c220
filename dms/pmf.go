// Package dms models a discrete memoryless source: a probability mass
// function over a byte alphabet and an inverse-CDF sampler drawing from it.
package dms

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math/bits"
	"os"
	"strconv"
)

// AlphabetSize is the byte-level alphabet used by every downstream stage.
const AlphabetSize = 256

var (
	ErrEmptyPMF   = errors.New("dms: empty probability table")
	ErrBadPMFSize = errors.New("dms: PMF must have 2 or 256 entries")
	ErrNegative   = errors.New("dms: negative probability")
)

// PMF maps symbol index to probability. Valid lengths are 2 (binary source,
// to be expanded) or 256 (byte-level source). Normalization is not enforced;
// a PMF that does not sum to ~1 silently skews the sampled rates.
type PMF []float64

// Validate checks size and non-negativity. It deliberately does not check
// that the entries sum to 1.
func (p PMF) Validate() error {
	switch len(p) {
	case 0:
		return ErrEmptyPMF
	case 2, AlphabetSize:
	default:
		return ErrBadPMFSize
	}
	for i, v := range p {
		if v < 0 {
			return fmt.Errorf("%w: symbol %d", ErrNegative, i)
		}
	}
	return nil
}

// Sum returns the total probability mass.
func (p PMF) Sum() float64 {
	var s float64
	for _, v := range p {
		s += v
	}
	return s
}

// Expand returns the 256-symbol byte PMF. A 2-symbol PMF is expanded by
// treating a byte as 8 independent Bernoulli draws:
// P(b) = p0^(8-popcount(b)) * p1^popcount(b).
// A 256-symbol PMF is returned as a copy.
func (p PMF) Expand() (PMF, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(p) == AlphabetSize {
		out := make(PMF, AlphabetSize)
		copy(out, p)
		return out, nil
	}
	p0, p1 := p[0], p[1]
	out := make(PMF, AlphabetSize)
	for b := 0; b < AlphabetSize; b++ {
		ones := bits.OnesCount8(uint8(b))
		prob := 1.0
		for i := 0; i < 8-ones; i++ {
			prob *= p0
		}
		for i := 0; i < ones; i++ {
			prob *= p1
		}
		out[b] = prob
	}
	return out, nil
}

// CDF prefix-sums the PMF in symbol order.
func (p PMF) CDF() []float64 {
	cdf := make([]float64, len(p))
	var acc float64
	for i, v := range p {
		acc += v
		cdf[i] = acc
	}
	return cdf
}

// BitProbabilities collapses a 256-symbol PMF back to per-bit 0/1
// probabilities, weighting each byte's bit census by its probability.
func (p PMF) BitProbabilities() (p0, p1 float64, err error) {
	if len(p) != AlphabetSize {
		return 0, 0, ErrBadPMFSize
	}
	for b := 0; b < AlphabetSize; b++ {
		ones := bits.OnesCount8(uint8(b))
		p1 += p[b] * float64(ones) / 8
		p0 += p[b] * float64(8-ones) / 8
	}
	return p0, p1, nil
}

// Load reads a PMF from the legacy CSV format: one "symbol,probability" row
// per line, optionally preceded by a header row. Two data rows yield a
// binary PMF; 256 rows a byte-level one.
func Load(path string) (PMF, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dms: open pmf: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dms: parse pmf: %w", err)
	}

	type entry struct {
		sym  int
		prob float64
	}
	entries := make([]entry, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		sym, err := strconv.Atoi(row[0])
		if err != nil {
			if i == 0 {
				// header row
				continue
			}
			return nil, fmt.Errorf("dms: bad symbol %q", row[0])
		}
		prob, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("dms: bad probability %q", row[1])
		}
		entries = append(entries, entry{sym, prob})
	}
	var size int
	switch len(entries) {
	case 2:
		size = 2
	case AlphabetSize:
		size = AlphabetSize
	case 0:
		return nil, ErrEmptyPMF
	default:
		return nil, fmt.Errorf("%w: got %d rows", ErrBadPMFSize, len(entries))
	}
	p := make(PMF, size)
	for _, e := range entries {
		if e.sym < 0 || e.sym >= size {
			return nil, fmt.Errorf("dms: symbol %d out of range for %d-entry PMF", e.sym, size)
		}
		p[e.sym] = e.prob
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// WriteCSV stores the PMF in the legacy "symbol,probability" format with
// 8 decimal places, no header.
func (p PMF) WriteCSV(path string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dms: write pmf: %w", err)
	}
	defer f.Close()
	for i, v := range p {
		if _, err := fmt.Fprintf(f, "%d,%.8f\n", i, v); err != nil {
			return err
		}
	}
	return nil
}

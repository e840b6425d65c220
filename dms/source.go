package dms

import (
	"errors"
	mrand "math/rand"
	"sort"
	"time"
)

var ErrNotExpanded = errors.New("dms: sampler requires a 256-symbol PMF")

// Source draws i.i.d. symbols from a byte-level PMF by inverse-CDF lookup.
//
// Tie-break at exact CDF boundaries is pinned to the "right" convention: a
// uniform draw u maps to the smallest symbol s with CDF[s] > u, so a draw
// landing exactly on a boundary resolves to the symbol above it.
type Source struct {
	cdf []float64
	rng *mrand.Rand
}

// NewSource builds a sampler over a 256-symbol PMF. A nil rng seeds from the
// wall clock; pass a seeded *rand.Rand for reproducible runs.
func NewSource(p PMF, rng *mrand.Rand) (*Source, error) {
	if len(p) != AlphabetSize {
		return nil, ErrNotExpanded
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = mrand.New(mrand.NewSource(time.Now().UnixNano()))
	}
	return &Source{cdf: p.CDF(), rng: rng}, nil
}

// Sample produces n symbols. The empirical distribution converges to the
// PMF as n grows (assuming the PMF is normalized).
func (s *Source) Sample(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = s.sampleOne()
	}
	return out
}

func (s *Source) sampleOne() byte {
	u := s.rng.Float64()
	idx := sort.Search(len(s.cdf), func(i int) bool { return s.cdf[i] > u })
	// A draw beyond the last cumulative value (unnormalized PMF) clamps to
	// the top symbol.
	if idx >= AlphabetSize {
		idx = AlphabetSize - 1
	}
	return byte(idx)
}

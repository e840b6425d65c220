// Package channel models the binary symmetric channel: independent bit
// flips with probability p, applied by XOR at byte or bit granularity.
package channel

import (
	"errors"
	"fmt"
	mrand "math/rand"
	"time"

	"github.com/simlab/chansim/dms"
)

var (
	ErrBadProbability = errors.New("channel: error probability outside [0,1]")
	ErrLengthMismatch = errors.New("channel: input and noise lengths differ")
)

// BSC is a binary symmetric channel with flip probability p. The zero seed
// path draws fresh randomness per construction; inject a seeded *rand.Rand
// for reproducible tests.
type BSC struct {
	p   float64
	rng *mrand.Rand
}

// New builds a channel. A nil rng seeds from the wall clock.
func New(p float64, rng *mrand.Rand) (*BSC, error) {
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: %v", ErrBadProbability, p)
	}
	if rng == nil {
		rng = mrand.New(mrand.NewSource(time.Now().UnixNano()))
	}
	return &BSC{p: p, rng: rng}, nil
}

// P returns the flip probability.
func (c *BSC) P() float64 { return c.p }

// NoiseBytes draws n noise bytes from the 256-symbol expansion of the
// {1-p, p} bit PMF, so each bit of each byte flips independently with
// probability p.
func (c *BSC) NoiseBytes(n int) ([]byte, error) {
	pmf, err := dms.PMF{1 - c.p, c.p}.Expand()
	if err != nil {
		return nil, err
	}
	src, err := dms.NewSource(pmf, c.rng)
	if err != nil {
		return nil, err
	}
	return src.Sample(n), nil
}

// NoiseBits draws one Bernoulli(p) flip indicator per bit, as an ASCII bit
// string, for use with text bitstreams.
func (c *BSC) NoiseBits(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		if c.rng.Float64() < c.p {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return out
}

// Transmit XORs a byte sequence with a noise sequence of equal length.
// XOR is its own inverse: transmitting the output with the same noise
// recovers the input exactly.
func Transmit(input, noise []byte) ([]byte, error) {
	if len(input) != len(noise) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(input), len(noise))
	}
	out := make([]byte, len(input))
	for i := range input {
		out[i] = input[i] ^ noise[i]
	}
	return out, nil
}

// TransmitBits XORs two ASCII bit strings of equal length.
func TransmitBits(input, noise []byte) ([]byte, error) {
	if len(input) != len(noise) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(input), len(noise))
	}
	out := make([]byte, len(input))
	for i := range input {
		a, b := input[i], noise[i]
		if (a != '0' && a != '1') || (b != '0' && b != '1') {
			return nil, fmt.Errorf("channel: non-binary character at offset %d", i)
		}
		if a != b {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return out, nil
}

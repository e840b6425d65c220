// Package fec implements the channel-coding layer: a rate-1/3 systematic
// repetition code with majority-vote decoding, plus the bit-string codecs
// the coder operates on.
package fec

import (
	"errors"
	"fmt"
)

// RepeatN is the repetition factor. Each input bit is sent three times; the
// decoder can correct one flip per 3-bit group.
const RepeatN = 3

var (
	ErrNotBits   = errors.New("fec: input contains non-binary characters")
	ErrEmptyBits = errors.New("fec: empty bit string")
)

func validateBits(bits []byte) error {
	if len(bits) == 0 {
		return ErrEmptyBits
	}
	for i, c := range bits {
		if c != '0' && c != '1' {
			return fmt.Errorf("%w: 0x%02x at offset %d", ErrNotBits, c, i)
		}
	}
	return nil
}

// Repeat encodes an ASCII bit string by emitting each bit RepeatN times.
func Repeat(bits []byte) ([]byte, error) {
	if err := validateBits(bits); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(bits)*RepeatN)
	for _, c := range bits {
		out = append(out, c, c, c)
	}
	return out, nil
}

// MajorityVote decodes a repetition-coded bit string in non-overlapping
// groups of RepeatN, emitting the majority bit of each group; an exact tie
// decodes to '0' (fixed policy). A trailing partial group is dropped and its
// length returned as dropped.
func MajorityVote(coded []byte) (decoded []byte, dropped int, err error) {
	if err := validateBits(coded); err != nil {
		return nil, 0, err
	}
	dropped = len(coded) % RepeatN
	coded = coded[:len(coded)-dropped]
	decoded = make([]byte, 0, len(coded)/RepeatN)
	for i := 0; i < len(coded); i += RepeatN {
		ones := 0
		for j := 0; j < RepeatN; j++ {
			if coded[i+j] == '1' {
				ones++
			}
		}
		if ones > RepeatN-ones {
			decoded = append(decoded, '1')
		} else {
			decoded = append(decoded, '0')
		}
	}
	return decoded, dropped, nil
}

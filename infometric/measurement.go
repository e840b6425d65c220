// Package infometric estimates information-theoretic quantities (entropy,
// mutual information, bit-error rate) from observed byte sequences.
package infometric

// Status distinguishes a genuinely measured value from a safe default
// substituted after a numeric-degenerate condition. A reported zero is
// never silently ambiguous.
type Status int

const (
	Measured Status = iota
	Substituted
)

func (s Status) String() string {
	if s == Substituted {
		return "substituted"
	}
	return "measured"
}

// Measurement is a value with provenance. Substituted measurements carry
// the reason for the fallback.
type Measurement struct {
	Value  float64
	Status Status
	Reason string
}

// Measure wraps a genuinely measured value.
func Measure(v float64) Measurement {
	return Measurement{Value: v, Status: Measured}
}

// Substitute wraps a fallback default with the reason it was substituted.
func Substitute(v float64, reason string) Measurement {
	return Measurement{Value: v, Status: Substituted, Reason: reason}
}

func measured(v float64) Measurement { return Measure(v) }

func substituted(v float64, reason string) Measurement { return Substitute(v, reason) }

// Scale returns the measurement with its value multiplied by f, keeping
// status and reason.
func (m Measurement) Scale(f float64) Measurement {
	m.Value *= f
	return m
}

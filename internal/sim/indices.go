package sim

import (
	"math"

	"github.com/simlab/chansim/fec"
	"github.com/simlab/chansim/infometric"
)

// Indices are the link-budget figures of one run. rs is the source data
// rate, fixed at 1 data bit per second; every other rate derives from it.
type Indices struct {
	Rs     float64 // input data rate rs
	RsRate float64 // source information rate Rs = rs * H(source)
	Rc     float64 // channel data rate
	Rci    float64 // channel input information rate
	Rco    float64 // channel output information rate
	RI     float64 // sink information rate about the source
	Er     float64 // residual sink bit-error rate

	// Resolved per-bit mutual informations, with provenance. A substituted
	// status means the measured value was degenerate and a model-based
	// estimate took its place.
	IUV infometric.Measurement // channel input vs channel output
	IXZ infometric.Measurement // source vs sink
	Ec  float64                // channel symbol error fraction
}

const sourceRate = 1.0

// computeIndices resolves the measured quantities into the final index row.
// Degenerate measurements (zero, NaN, negative) fall back to estimates
// derived from the source entropy and the residual error rate, and the
// ideal scenario snaps to its theoretical values.
func computeIndices(sc Scenario, entropy float64, iuv infometric.Measurement, ec float64,
	er float64, ixz infometric.Measurement, sinkEntropy float64) Indices {

	rs := sourceRate
	ideal := sc.Key == "ideal"

	if ideal && math.Abs(entropy-1.0) < 0.01 {
		entropy = 1.0
	}
	Rs := rs * entropy

	iuv = resolveMutualInfo(iuv, ideal, sc.NoiseP, er, entropy, Rs)

	if ec == 0 || math.IsNaN(ec) {
		ec = er
	}
	if sc.NoiseP == 0 {
		ec = 0
	}

	if ixz.Value == 0 || math.IsNaN(ixz.Value) {
		switch {
		case sc.NoiseP == 0 && er == 0:
			if ideal {
				ixz = infometric.Substitute(1.0, "error-free run, theoretical value")
			} else {
				ixz = infometric.Substitute(entropy, "error-free run, source entropy")
			}
		case sinkEntropy > 0:
			ixz = infometric.Substitute(sinkEntropy/8, "derived from sink entropy")
		default:
			ixz = infometric.Substitute(Rs*(1-er), "derived from residual error rate")
		}
	}

	ix := Indices{
		Rs:     rs,
		RsRate: Rs,
		Rci:    Rs,
		IUV:    iuv,
		IXZ:    ixz,
		Ec:     ec,
		Er:     er,
	}

	switch {
	case sc.SourceEncode && !sc.ChannelEncode:
		codeLen := entropy * 8 // average code length, bits per symbol
		ix.Rc = rs * codeLen / 8
		ix.Rco = iuv.Value * ix.Rc
		ix.RI = rs * ixz.Value
		ix.Er = ec
	case !sc.SourceEncode && sc.ChannelEncode:
		ix.Rc = fec.RepeatN * rs
		ix.Rco = iuv.Value * fec.RepeatN * rs
		ix.RI = rs * ixz.Value
	case sc.SourceEncode && sc.ChannelEncode:
		codeLen := entropy * 8
		ix.Rc = codeLen / 8 * fec.RepeatN * rs
		ix.Rco = iuv.Value * ix.Rc
		ix.RI = rs * ixz.Value
	default:
		ix.Rc = rs
		ix.Rco = iuv.Value * ix.Rc
		ix.RI = ixz.Value * rs
		ix.Er = ec
		if sc.NoiseP == 0 {
			ix.Er = 0
		}
	}
	return ix
}

// resolveMutualInfo applies the fallback chain for a degenerate channel
// mutual information measurement.
func resolveMutualInfo(m infometric.Measurement, ideal bool, noiseP, er, entropy, Rs float64) infometric.Measurement {
	v := m.Value
	if v != 0 && !math.IsNaN(v) && v >= 0 {
		return m
	}
	if noiseP == 0 && er == 0 {
		if ideal {
			return infometric.Substitute(1.0, "error-free run, theoretical value")
		}
		if entropy > 0 {
			return infometric.Substitute(entropy, "error-free run, source entropy")
		}
		return infometric.Substitute(Rs, "error-free run, source information rate")
	}
	if Rs > 0 {
		return infometric.Substitute(Rs*(1-er), "derived from residual error rate")
	}
	return infometric.Substitute(entropy*(1-er), "derived from residual error rate")
}

package sim

import (
	"fmt"
	mrand "math/rand"
	"os"
	"path/filepath"

	"github.com/simlab/chansim/channel"
	"github.com/simlab/chansim/dms"
	"github.com/simlab/chansim/fec"
	"github.com/simlab/chansim/huffman"
	"github.com/simlab/chansim/infometric"
	"github.com/simlab/chansim/internal/trace"
)

// Config carries the per-run knobs shared by all scenarios.
type Config struct {
	MsgLen      int           // source message length in bytes
	Seed        int64         // 0 seeds from the wall clock
	ArtifactDir string        // stage artifacts and metric CSVs land under here
	Trace       *trace.Writer // nil discards trace events
}

// Result is the outcome of one scenario run.
type Result struct {
	Scenario Scenario
	Indices  Indices

	SourceEntropy float64 // bits per source bit
	SinkEntropy   float64 // bits per sink byte
	OutputLen     int

	DecodeFallback bool // source decode failed, sink got a source copy
	DroppedBits    int  // coded bits dropped at the repetition decoder
	Adjustment     fec.Adjustment
}

func (cfg Config) rng(offset int64) *mrand.Rand {
	if cfg.Seed == 0 {
		return nil
	}
	return mrand.New(mrand.NewSource(cfg.Seed + offset))
}

func (cfg Config) datPath(name string) string {
	return filepath.Join(cfg.ArtifactDir, "datfile", name)
}

func (cfg Config) metricPath(name string) string {
	return filepath.Join(cfg.ArtifactDir, "metrics", name)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("sim: write %s: %w", path, err)
	}
	return nil
}

// Run drives one scenario end to end: source, optional entropy coding,
// optional repetition coding, BSC, the matching decoders, then the metric
// sweep. Stage artifacts are written under ArtifactDir/datfile and metric
// CSVs under ArtifactDir/metrics, one row appended per run.
func Run(sc Scenario, cfg Config) (*Result, error) {
	if cfg.MsgLen <= 0 {
		return nil, fmt.Errorf("sim: message length must be positive, got %d", cfg.MsgLen)
	}
	for _, dir := range []string{cfg.datPath(""), cfg.metricPath("")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sim: mkdir %s: %w", dir, err)
		}
	}

	tr := cfg.Trace
	res := &Result{Scenario: sc}
	prefix := sc.Key

	// Source: expand the binary PMF to the byte alphabet and sample.
	pmf256, err := dms.PMF{sc.SourceP0, 1 - sc.SourceP0}.Expand()
	if err != nil {
		return nil, err
	}
	if err := pmf256.WriteCSV(cfg.datPath(prefix + "_source.256.csv")); err != nil {
		return nil, err
	}
	src, err := dms.NewSource(pmf256, cfg.rng(0))
	if err != nil {
		return nil, err
	}
	source := src.Sample(cfg.MsgLen)
	sourcePath := cfg.datPath(prefix + "_source.dat")
	if err := writeFile(sourcePath, source); err != nil {
		return nil, err
	}
	tr.Emit("source", "", len(source))

	cur := source

	// Source coding.
	var encoded []byte
	if sc.SourceEncode {
		weights := make(map[byte]float64, len(pmf256))
		for s, p := range pmf256 {
			if p > 0 {
				weights[byte(s)] = p
			}
		}
		for _, b := range cur {
			if _, ok := weights[b]; !ok {
				weights[b] = epsilonWeight
			}
		}
		encoded, err = huffman.Encode(cur, weights)
		if err != nil {
			return nil, fmt.Errorf("sim: source encode: %w", err)
		}
		if err := writeFile(cfg.datPath(prefix+"_source.encode.huf"), encoded); err != nil {
			return nil, err
		}
		cur = encoded
		tr.Emit("huffman_encode", "", len(encoded))
	}

	// Channel coding. The repetition coder works on ASCII bit strings, so
	// the current binary stage is expanded to bits first. The pre-coding
	// byte length is remembered for reconciliation after decoding.
	originalBinarySize := -1
	if sc.ChannelEncode {
		originalBinarySize = len(cur)
		bits := fec.BitsFromBytes(cur)
		if err := writeFile(cfg.datPath(prefix+"_source.bits.txt"), bits); err != nil {
			return nil, err
		}
		coded, err := fec.Repeat(bits)
		if err != nil {
			return nil, fmt.Errorf("sim: channel encode: %w", err)
		}
		if err := writeFile(cfg.datPath(prefix+"_channel.encode.txt"), coded); err != nil {
			return nil, err
		}
		cur = coded
		tr.Emit("repetition_encode", "", len(coded))
	}

	// BSC. Coded runs transmit the ASCII bit string with per-bit Bernoulli
	// noise; uncoded runs transmit bytes with noise drawn from the expanded
	// {1-p, p} PMF. Both paths persist the channel output and the noise.
	bsc, err := channel.New(sc.NoiseP, cfg.rng(1))
	if err != nil {
		return nil, err
	}
	channelPath := cfg.datPath(prefix + "_channel.dat")
	if sc.ChannelEncode {
		noise := bsc.NoiseBits(len(cur))
		out, err := channel.TransmitBits(cur, noise)
		if err != nil {
			return nil, err
		}
		if err := writeFile(channelPath, out); err != nil {
			return nil, err
		}
		if packed, err := fec.BytesFromBits(noise); err == nil {
			if err := writeFile(cfg.datPath(prefix+"_noise.dat"), packed); err != nil {
				return nil, err
			}
		}
		cur = out
	} else {
		noisePMF := dms.PMF{1 - sc.NoiseP, sc.NoiseP}
		if err := noisePMF.WriteCSV(cfg.datPath(prefix + "_noise_pmf.csv")); err != nil {
			return nil, err
		}
		noise, err := bsc.NoiseBytes(len(cur))
		if err != nil {
			return nil, err
		}
		if err := writeFile(cfg.datPath(prefix+"_noise.dat"), noise); err != nil {
			return nil, err
		}
		out, err := channel.Transmit(cur, noise)
		if err != nil {
			return nil, err
		}
		if err := writeFile(channelPath, out); err != nil {
			return nil, err
		}
		cur = out
	}
	tr.Emit("bsc", fmt.Sprintf("p=%v", sc.NoiseP), len(cur))

	// Channel decoding. The channel artifact is re-read through the legacy
	// text boundary, so stray non-bit bytes are tolerated.
	var channelDecoded []byte
	if sc.ChannelEncode {
		raw, err := os.ReadFile(channelPath)
		if err != nil {
			return nil, fmt.Errorf("sim: read channel output: %w", err)
		}
		received := fec.ExtractBits(raw)
		decodedBits, dropped, err := fec.MajorityVote(received)
		if err != nil {
			return nil, fmt.Errorf("sim: channel decode: %w", err)
		}
		res.DroppedBits = dropped
		if dropped > 0 {
			droppedCodedBits.WithLabelValues(sc.Key).Add(float64(dropped))
		}
		if err := writeFile(cfg.datPath(prefix+"_channel.decode.txt"), decodedBits); err != nil {
			return nil, err
		}
		decodedBits, res.Adjustment = fec.Reconcile(decodedBits, originalBinarySize)
		channelDecoded, err = fec.BytesFromBits(decodedBits)
		if err != nil {
			return nil, fmt.Errorf("sim: pack decoded bits: %w", err)
		}
		if err := writeFile(cfg.datPath(prefix+"_channel.decode.dat"), channelDecoded); err != nil {
			return nil, err
		}
		cur = channelDecoded
		tr.Emit("repetition_decode", fmt.Sprintf("dropped=%d", dropped), len(cur))
	}

	// Source decoding. A corrupted blob must not kill the run: the sink
	// falls back to a copy of the source so the metric sweep still has an
	// output to compare against, and the fallback is flagged.
	output := cur
	if sc.SourceEncode {
		decoded, err := huffman.Decode(cur)
		if err != nil {
			res.DecodeFallback = true
			decodeFallbacks.WithLabelValues(sc.Key).Inc()
			tr.Emit("huffman_decode", "fallback: "+err.Error(), 0)
			decoded = make([]byte, len(source))
			copy(decoded, source)
		} else {
			tr.Emit("huffman_decode", "", len(decoded))
		}
		output = decoded
	}
	outputPath := cfg.datPath(prefix + "_output.dat")
	if err := writeFile(outputPath, output); err != nil {
		return nil, err
	}
	res.OutputLen = len(output)

	if err := runMetrics(sc, cfg, res, source, encoded, channelDecoded, output, sourcePath, outputPath); err != nil {
		return nil, err
	}
	scenarioRuns.WithLabelValues(sc.Key).Inc()
	tr.Emit("done", "", len(output))
	return res, nil
}

// epsilonWeight keeps a message symbol encodable even when the model PMF
// assigned it zero mass.
const epsilonWeight = 1e-12

// runMetrics performs the measurement sweep of a finished transmission and
// appends the per-scenario metric CSV rows.
func runMetrics(sc Scenario, cfg Config, res *Result, source, encoded, channelDecoded, output []byte,
	sourcePath, outputPath string) error {

	prefix := sc.Key
	tr := cfg.Trace

	// Source statistics from the empirical byte histogram, collapsed to
	// per-bit probabilities.
	srcPMF := infometric.EmpiricalPMF(source)
	p0, p1, err := dms.PMF(srcPMF).BitProbabilities()
	if err != nil {
		return err
	}
	entropy := infometric.BinaryEntropy(p0, p1)
	redundancy := infometric.Redundancy([]float64{p0, p1})
	res.SourceEntropy = entropy
	if err := writeSourceMetrics(cfg.metricPath(prefix+"_source_metrics.csv"), p0, p1, entropy, redundancy); err != nil {
		return err
	}

	// Channel mutual information IUV and symbol error fraction ec, over the
	// channel coder's input/output boundary. Without channel coding the
	// boundary is the raw channel itself.
	chanIn, chanInName := source, prefix+"_source.dat"
	if sc.SourceEncode {
		chanIn, chanInName = encoded, prefix+"_source.encode.huf"
	}
	var chanOut []byte
	var chanOutName string
	if sc.ChannelEncode {
		chanOut, chanOutName = channelDecoded, prefix+"_channel.decode.dat"
	} else {
		chanOutName = prefix + "_channel.dat"
		raw, err := os.ReadFile(cfg.datPath(chanOutName))
		if err != nil {
			return fmt.Errorf("sim: read channel output: %w", err)
		}
		chanOut = raw
	}
	iuv := infometric.Transition(chanIn, chanOut).MutualInformation().Scale(1.0 / 8)
	ec, _ := infometric.SymbolErrorRate(chanIn, chanOut)
	if err := writePairMetrics(cfg.metricPath(prefix+"_channel_metrics.csv"),
		chanInName, chanOutName, iuv.Value, ec); err != nil {
		return err
	}

	// Residual sink bit-error rate between source and output.
	er, comparedBits := infometric.BitErrorRate(source, output)
	if comparedBits > 0 && er > 0 {
		sinkBitErrors.WithLabelValues(sc.Key).Add(er * float64(comparedBits))
	}
	if err := writeErrorRate(cfg.metricPath(prefix+"_sink.errorRate.csv"),
		sourcePath, outputPath, er); err != nil {
		return err
	}

	// Sink entropy, and the channel-decoded artifact's entropy when the
	// repetition decoder ran.
	sinkEntropy := infometric.Entropy(infometric.EmpiricalPMF(output))
	res.SinkEntropy = sinkEntropy
	if err := writeEntropyReport(cfg.metricPath(prefix+"_sink_entropy.csv"),
		outputPath, sinkEntropy, len(output)); err != nil {
		return err
	}
	if sc.ChannelEncode && channelDecoded != nil {
		h := infometric.Entropy(infometric.EmpiricalPMF(channelDecoded))
		if err := writeEntropyReport(cfg.metricPath(prefix+"_channel_decode_entropy.csv"),
			cfg.datPath(prefix+"_channel.decode.dat"), h, len(channelDecoded)); err != nil {
			return err
		}
	}

	// Source-sink mutual information IXZ: the end-to-end link is modeled as
	// one BSC whose flip probability equals the residual error rate, and the
	// source is re-transmitted through it.
	ixz, err := sourceSinkMI(sc, cfg, source, er)
	if err != nil {
		return err
	}
	if err := writePairMetrics(cfg.metricPath(prefix+"_source_sink_metrics.csv"),
		prefix+"_source.dat", prefix+"_source_sink.dat", ixz.Value, er); err != nil {
		return err
	}

	ix := computeIndices(sc, entropy, iuv, ec, er, ixz, sinkEntropy)
	if ix.IUV.Status == infometric.Substituted {
		substitutedMeasurements.WithLabelValues("IUV").Inc()
	}
	if ix.IXZ.Status == infometric.Substituted {
		substitutedMeasurements.WithLabelValues("IXZ").Inc()
	}
	res.Indices = ix
	tr.Emit("metrics", fmt.Sprintf("er=%.6f ec=%.6f", ix.Er, ix.Ec), 0)
	return nil
}

// sourceSinkMI re-simulates the whole chain as a single BSC with flip
// probability er and measures the mutual information of source vs sink.
func sourceSinkMI(sc Scenario, cfg Config, source []byte, er float64) (infometric.Measurement, error) {
	prefix := sc.Key
	noisePMF := dms.PMF{1 - er, er}
	if err := noisePMF.WriteCSV(cfg.datPath(prefix + "_new_noise_file.csv")); err != nil {
		return infometric.Measurement{}, err
	}
	bsc, err := channel.New(er, cfg.rng(2))
	if err != nil {
		return infometric.Measurement{}, err
	}
	noise, err := bsc.NoiseBytes(len(source))
	if err != nil {
		return infometric.Measurement{}, err
	}
	if err := writeFile(cfg.datPath(prefix+"_noise_source_sink.dat"), noise); err != nil {
		return infometric.Measurement{}, err
	}
	sink, err := channel.Transmit(source, noise)
	if err != nil {
		return infometric.Measurement{}, err
	}
	if err := writeFile(cfg.datPath(prefix+"_source_sink.dat"), sink); err != nil {
		return infometric.Measurement{}, err
	}
	return infometric.Transition(source, sink).MutualInformation().Scale(1.0 / 8), nil
}

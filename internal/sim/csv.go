package sim

import (
	"encoding/csv"
	"fmt"
	"os"
)

// appendCSV appends one record to path, writing the header first when the
// file is new or empty. Metric CSVs accumulate one row per run.
func appendCSV(path string, header, record []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write header %s: %w", path, err)
		}
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("write record %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

var sourceMetricsHeader = []string{
	"Bit 0 Probability", "Bit 1 Probability", "Entropy", "Redundancy",
}

// writeSourceMetrics appends the per-run source statistics row.
func writeSourceMetrics(path string, p0, p1, entropy, redundancy float64) error {
	return appendCSV(path, sourceMetricsHeader, []string{
		fmt.Sprintf("%.10f", p0),
		fmt.Sprintf("%.10f", p1),
		fmt.Sprintf("%.10f", entropy),
		fmt.Sprintf("%.10f", redundancy),
	})
}

var pairMetricsHeader = []string{
	"X", "Y", "H(X)", "H(Y)", "H(XY)", "H(X|Y)", "H(Y|X)", "I(X;Y)", "p",
}

// writePairMetrics appends a channel or source-sink row. Only the mutual
// information and error probability are computed; the joint and conditional
// entropy columns are reserved and written as zero.
func writePairMetrics(path, x, y string, mi, p float64) error {
	return appendCSV(path, pairMetricsHeader, []string{
		x, y,
		"0", "0", "0", "0", "0",
		fmt.Sprintf("%.10f", mi),
		fmt.Sprintf("%.10f", p),
	})
}

var entropyReportHeader = []string{"path", "entropy", "length"}

// writeEntropyReport appends one measured-entropy row for an artifact.
func writeEntropyReport(path, artifact string, entropy float64, length int) error {
	return appendCSV(path, entropyReportHeader, []string{
		artifact,
		fmt.Sprintf("%.10f", entropy),
		fmt.Sprintf("%d", length),
	})
}

var errorRateHeader = []string{"INPUT1", "INPUT2", "error_rate"}

// writeErrorRate appends the residual error rate between two artifacts.
func writeErrorRate(path, in1, in2 string, rate float64) error {
	return appendCSV(path, errorRateHeader, []string{
		in1, in2, fmt.Sprintf("%.10f", rate),
	})
}

var indicesHeader = []string{"rs", "Rs", "rc", "Rci", "Rco", "RI", "er"}

// WriteIndices appends the link-budget index row for a run. The non-ideal
// scenarios share one result CSV, so the caller serializes these writes.
func WriteIndices(path string, ix Indices) error {
	return appendCSV(path, indicesHeader, []string{
		fmt.Sprintf("%.10f", ix.Rs),
		fmt.Sprintf("%.10f", ix.RsRate),
		fmt.Sprintf("%.10f", ix.Rc),
		fmt.Sprintf("%.10f", ix.Rci),
		fmt.Sprintf("%.10f", ix.Rco),
		fmt.Sprintf("%.10f", ix.RI),
		fmt.Sprintf("%.10f", ix.Er),
	})
}

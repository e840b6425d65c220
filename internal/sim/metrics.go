package sim

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the simulator's counters. Exposition is the embedder's
// concern; DumpMetrics writes a plain-text snapshot for batch runs.
var Registry = prometheus.NewRegistry()

var (
	scenarioRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chansim",
		Name:      "scenario_runs_total",
		Help:      "Completed scenario simulations.",
	}, []string{"scenario"})

	substitutedMeasurements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chansim",
		Name:      "substituted_measurements_total",
		Help:      "Metric values replaced by a safe default after a numeric-degenerate condition.",
	}, []string{"metric"})

	decodeFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chansim",
		Name:      "decode_fallbacks_total",
		Help:      "Source-decode failures recovered by substituting a best-effort output.",
	}, []string{"scenario"})

	sinkBitErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chansim",
		Name:      "sink_bit_errors_total",
		Help:      "Residual bit errors between source and sink.",
	}, []string{"scenario"})

	droppedCodedBits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chansim",
		Name:      "dropped_coded_bits_total",
		Help:      "Received coded bits dropped because the stream length was not a multiple of the repetition factor.",
	}, []string{"scenario"})
)

func init() {
	Registry.MustRegister(
		scenarioRuns,
		substitutedMeasurements,
		decodeFallbacks,
		sinkBitErrors,
		droppedCodedBits,
	)
}

// DumpMetrics writes a "name{labels} value" snapshot of the registry.
func DumpMetrics(w io.Writer) error {
	families, err := Registry.Gather()
	if err != nil {
		return err
	}
	sort.Slice(families, func(i, j int) bool { return families[i].GetName() < families[j].GetName() })
	for _, fam := range families {
		for _, m := range fam.GetMetric() {
			labels := ""
			for i, lp := range m.GetLabel() {
				if i > 0 {
					labels += ","
				}
				labels += fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue())
			}
			if labels != "" {
				labels = "{" + labels + "}"
			}
			if c := m.GetCounter(); c != nil {
				if _, err := fmt.Fprintf(w, "%s%s %v\n", fam.GetName(), labels, c.GetValue()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

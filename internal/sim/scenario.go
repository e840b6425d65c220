// Package sim sequences the full transmission chain (source, optional
// entropy coding, optional repetition coding, BSC, decoders) over
// in-memory buffers, writing flat-file artifacts and metric CSVs per run.
package sim

// Scenario is one compiled-in simulation configuration.
type Scenario struct {
	Key           string
	Name          string
	Description   string
	SourceP0      float64 // P(bit=0) of the binary source
	NoiseP        float64 // BSC flip probability
	SourceEncode  bool
	ChannelEncode bool
}

// NonIdeal reports whether the scenario belongs to the non-ideal family,
// whose result rows share one CSV for side-by-side comparison.
func (s Scenario) NonIdeal() bool {
	return len(s.Key) >= 9 && s.Key[:9] == "non_ideal"
}

var builtin = []Scenario{
	{
		Key:          "ideal",
		Name:         "ideal",
		Description:  "equiprobable source, no source coding, no channel coding, error probability 0",
		SourceP0:     0.5,
		NoiseP:       0,
		SourceEncode: false, ChannelEncode: false,
	},
	{
		Key:          "non_ideal_both",
		Name:         "non-ideal, source + channel coding",
		Description:  "P(0)=0.1, source coding, channel coding, error probability 0.02",
		SourceP0:     0.1,
		NoiseP:       0.02,
		SourceEncode: true, ChannelEncode: true,
	},
	{
		Key:          "non_ideal_source_only",
		Name:         "non-ideal, source coding only",
		Description:  "P(0)=0.1, source coding, no channel coding, error probability 0.02",
		SourceP0:     0.1,
		NoiseP:       0.02,
		SourceEncode: true, ChannelEncode: false,
	},
	{
		Key:          "non_ideal_channel_only",
		Name:         "non-ideal, channel coding only",
		Description:  "P(0)=0.1, no source coding, channel coding, error probability 0.02",
		SourceP0:     0.1,
		NoiseP:       0.02,
		SourceEncode: false, ChannelEncode: true,
	},
	{
		Key:          "non_ideal_none",
		Name:         "non-ideal, no coding",
		Description:  "P(0)=0.1, no source coding, no channel coding, error probability 0.02",
		SourceP0:     0.1,
		NoiseP:       0.02,
		SourceEncode: false, ChannelEncode: false,
	},
}

// Builtin returns the canonical scenario set, ideal first.
func Builtin() []Scenario {
	out := make([]Scenario, len(builtin))
	copy(out, builtin)
	return out
}

// ByKey looks up a builtin scenario.
func ByKey(key string) (Scenario, bool) {
	for _, s := range builtin {
		if s.Key == key {
			return s, true
		}
	}
	return Scenario{}, false
}

// Keys lists the builtin scenario keys in run order.
func Keys() []string {
	out := make([]string, len(builtin))
	for i, s := range builtin {
		out[i] = s.Key
	}
	return out
}

package standby

import (
	"log"
	"strconv"
	"strings"
)

const (
	hourMS = uint64(60 * 60 * 1000)

	defaultWorkingSetThresholdMS = 12 * hourMS
	defaultFrequentThresholdMS   = 24 * hourMS
	defaultRareThresholdMS       = 48 * hourMS
)

// Thresholds holds the two ordered threshold vectors parsed from the
// settings string (§4.1): four entries each, indexed by target-bucket
// rank (0=WorkingSet, 1=Frequent, 2=Rare, 3=reserved).
type Thresholds struct {
	Elapsed [4]uint64
	Screen  [4]uint64
}

// DefaultThresholds returns the compiled-in fallback: the defaults
// named in spec.md §8's end-to-end scenarios.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Elapsed: [4]uint64{
			defaultWorkingSetThresholdMS,
			defaultFrequentThresholdMS,
			defaultRareThresholdMS,
			defaultRareThresholdMS,
		},
		Screen: [4]uint64{0, 0, 0, hourMS},
	}
}

// ParseSettings parses a settings string of the form
// "screen_thresholds=A/B/C/D,elapsed_thresholds=E/F/G/H" (§4.1).
// Missing or malformed fields fall back to compiled-in defaults;
// this never fails the engine — it logs once and returns defaults for
// the affected vector only.
func ParseSettings(raw string) Thresholds {
	t := DefaultThresholds()

	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		name, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(name) {
		case "screen_thresholds":
			if v, ok := parseVector(value); ok {
				t.Screen = v
			} else {
				log.Printf("[standby] malformed screen_thresholds %q, using defaults", value)
			}
		case "elapsed_thresholds":
			if v, ok := parseVector(value); ok {
				t.Elapsed = v
			} else {
				log.Printf("[standby] malformed elapsed_thresholds %q, using defaults", value)
			}
		}
	}

	return t
}

// String renders t back into the canonical settings-string form (R2:
// the parser round-trips canonical strings).
func (t Thresholds) String() string {
	return "screen_thresholds=" + joinVector(t.Screen) +
		",elapsed_thresholds=" + joinVector(t.Elapsed)
}

func parseVector(s string) ([4]uint64, bool) {
	var out [4]uint64
	parts := strings.Split(s, "/")
	if len(parts) != 4 {
		return out, false
	}
	var prev uint64
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return out, false
		}
		if v < prev {
			return out, false // must be monotonically non-decreasing
		}
		out[i] = v
		prev = v
	}
	return out, true
}

func joinVector(v [4]uint64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatUint(x, 10)
	}
	return strings.Join(parts, "/")
}

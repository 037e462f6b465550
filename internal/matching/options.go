package matching

import (
	"fmt"

	"github.com/heartmarshall/ongoing-monitor/internal/similarity"
)

// Preset names.
const (
	PresetDefault = "default"
	PresetLegacy  = "legacy"
	PresetStrict  = "strict"
)

// Thresholds holds the per-field similarity thresholds on a 0-100 scale.
type Thresholds struct {
	English    int
	Chinese    int
	Combined   int
	Title      int
	Comparator similarity.Comparator
}

// Validate checks every threshold is within [0, 100] and the comparator is known.
func (t Thresholds) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"english", t.English}, {"chinese", t.Chinese}, {"combined", t.Combined}, {"title", t.Title},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > 100 {
			return fmt.Errorf("%s threshold must be within [0, 100] (got %d)", f.name, f.value)
		}
	}
	if !t.Comparator.IsValid() {
		return fmt.Errorf("unknown comparator %q", t.Comparator)
	}
	return nil
}

// Options configures the Matcher.
type Options struct {
	Thresholds Thresholds
	// Modes lists the comparison modes tried for every field; a field
	// qualifies if any mode clears its threshold.
	Modes []similarity.Mode
	// Combined enables scoring "english chinese" concatenations.
	Combined bool
	// Workers bounds the per-subject fan-out. Values < 1 mean 1.
	Workers int
}

// DefaultThresholds are the thresholds observed in production runs.
func DefaultThresholds() Thresholds {
	return Thresholds{English: 20, Chinese: 20, Combined: 20, Title: 20, Comparator: similarity.AtLeast}
}

// NewOptions resolves a named preset. The default preset uses the given
// thresholds as-is; legacy and strict override them.
func NewOptions(preset string, t Thresholds, workers int) (Options, error) {
	opts := Options{
		Thresholds: t,
		Modes:      []similarity.Mode{similarity.ModeOrderSensitive, similarity.ModeOrderInsensitive},
		Combined:   true,
		Workers:    workers,
	}

	switch preset {
	case PresetDefault, "":
	case PresetLegacy:
		// Historical adverse-media and judgment search: case-insensitive
		// ratio only, threshold 20 inclusive, no concatenated field.
		opts.Thresholds = DefaultThresholds()
		opts.Modes = []similarity.Mode{similarity.ModeOrderSensitive}
		opts.Combined = false
	case PresetStrict:
		opts.Thresholds = Thresholds{English: 80, Chinese: 80, Combined: 80, Title: 80, Comparator: t.Comparator}
		if !opts.Thresholds.Comparator.IsValid() {
			opts.Thresholds.Comparator = similarity.AtLeast
		}
	default:
		return Options{}, fmt.Errorf("unknown matching preset %q", preset)
	}

	if err := opts.Thresholds.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// PresetNames lists the known preset names.
func PresetNames() []string {
	return []string{PresetDefault, PresetLegacy, PresetStrict}
}

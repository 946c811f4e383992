package scoring

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// ErrInvalidOption wraps every configuration validation failure.
var ErrInvalidOption = errors.New("invalid scoring option")

// Options configures an Engine. It is copied into the engine at construction
// and never changes afterwards.
type Options struct {
	CaseSensitive        bool    `mapstructure:"caseSensitive" json:"caseSensitive"`
	StrictPunctuation    bool    `mapstructure:"strictPunctuation" json:"strictPunctuation"`
	AllowPartialCredit   bool    `mapstructure:"allowPartialCredit" json:"allowPartialCredit"`
	PenalizeExtraWords   bool    `mapstructure:"penalizeExtraWords" json:"penalizeExtraWords"`
	PenalizeMissingWords bool    `mapstructure:"penalizeMissingWords" json:"penalizeMissingWords"`
	WordOrderImportance  float64 `mapstructure:"wordOrderImportance" json:"wordOrderImportance"`
	PunctuationWeight    float64 `mapstructure:"punctuationWeight" json:"punctuationWeight"`
	SpellingTolerance    float64 `mapstructure:"spellingTolerance" json:"spellingTolerance"`

	// DifficultyMultipliers scales the composite score per difficulty.
	// Labels missing from the map use 1.0.
	DifficultyMultipliers map[Difficulty]float64 `mapstructure:"difficultyMultipliers" json:"difficultyMultipliers"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		CaseSensitive:        false,
		StrictPunctuation:    false,
		AllowPartialCredit:   true,
		PenalizeExtraWords:   true,
		PenalizeMissingWords: true,
		WordOrderImportance:  0.8,
		PunctuationWeight:    0.1,
		SpellingTolerance:    0.15,
		DifficultyMultipliers: map[Difficulty]float64{
			DifficultyEasy:   1.05,
			DifficultyMedium: 1.0,
			DifficultyHard:   0.95,
		},
	}
}

// OptionsFromMap overlays a flat key/value map onto DefaultOptions.
// Keys match case-insensitively; unknown keys and mistyped values are errors.
func OptionsFromMap(m map[string]any) (Options, error) {
	opts := DefaultOptions()
	if err := opts.overlay(m); err != nil {
		return Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func (o *Options) overlay(m map[string]any) error {
	if len(m) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      o,
		TagName:     "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("build options decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	return nil
}

// Validate rejects out-of-range values. It never clamps.
func (o Options) Validate() error {
	weights := []struct {
		name  string
		value float64
	}{
		{"wordOrderImportance", o.WordOrderImportance},
		{"punctuationWeight", o.PunctuationWeight},
		{"spellingTolerance", o.SpellingTolerance},
	}
	for _, w := range weights {
		if w.value < 0 || w.value > 1 || w.value != w.value {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidOption, w.name, w.value)
		}
	}
	for d, m := range o.DifficultyMultipliers {
		if !(m > 0) {
			return fmt.Errorf("%w: difficulty multiplier for %q must be positive, got %v", ErrInvalidOption, d, m)
		}
	}
	return nil
}

// clone returns a deep copy so callers cannot mutate an engine's options.
func (o Options) clone() Options {
	out := o
	if o.DifficultyMultipliers != nil {
		out.DifficultyMultipliers = make(map[Difficulty]float64, len(o.DifficultyMultipliers))
		for k, v := range o.DifficultyMultipliers {
			out.DifficultyMultipliers[k] = v
		}
	}
	return out
}

func (o Options) multiplier(d Difficulty) float64 {
	if m, ok := o.DifficultyMultipliers[d]; ok {
		return m
	}
	return 1.0
}

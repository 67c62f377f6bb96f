package config

import (
	"sort"

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/models"
)

var Presets = map[string]*Config{
	"reference": DefaultConfig(),
	"outbreak": {
		Params:    models.Params{Beta: 0.4, Delta: 0.1, Lambda: 0.005},
		InitState: InitStateConfig{S: 0.999, I: 0.001, R: 0.0},
		TFinal:    365.0, H: 0.1, MaxSteps: dynamo.DefaultMaxSteps, Output: DefaultOutput,
	},
	"slow_waning": {
		Params:    models.Params{Beta: 0.155, Delta: 0.100, Lambda: 0.001},
		InitState: InitStateConfig{S: models.DefaultS0, I: models.DefaultI0, R: models.DefaultR0},
		TFinal:    1000.0, H: 0.1, MaxSteps: dynamo.DefaultMaxSteps, Output: DefaultOutput,
	},
	"coarse": {
		Params:    models.DefaultParams(),
		InitState: InitStateConfig{S: models.DefaultS0, I: models.DefaultI0, R: models.DefaultR0},
		TFinal:    365.0, H: 1.0, MaxSteps: dynamo.DefaultMaxSteps, Output: DefaultOutput,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

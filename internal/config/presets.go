package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Preset is one named tissue profile: a peak-height threshold tuned to a
// preparation type.
type Preset struct {
	Name        string  `yaml:"name"`
	MinHeight   float64 `yaml:"min_height"`
	Description string  `yaml:"description,omitempty"`
}

// PresetFile holds all tissue presets.
type PresetFile struct {
	Presets []Preset `yaml:"presets"`
}

// BuiltinPresets are the profiles shipped with the tool, used when no
// presets file exists on disk.
func BuiltinPresets() []Preset {
	return []Preset{
		{Name: "neonatal", MinHeight: 0.03, Description: "neonatal tissue, small twitches"},
		{Name: "default", MinHeight: 0.05, Description: "standard adult preparation"},
		{Name: "adult", MinHeight: 0.08, Description: "mature tissue, strong contractions"},
		{Name: "noisy", MinHeight: 0.10, Description: "noisy recordings, conservative detection"},
	}
}

// LoadPresets reads and parses a presets.yaml file. A missing file yields
// the built-in set.
func LoadPresets(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return BuiltinPresets(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	var file PresetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal presets YAML: %w", err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("presets file %s defines no presets", path)
	}
	return file.Presets, nil
}

// FindPreset looks up a preset by name.
func FindPreset(presets []Preset, name string) (Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	sort.Strings(names)
	return Preset{}, fmt.Errorf("unknown preset %q (have %v)", name, names)
}

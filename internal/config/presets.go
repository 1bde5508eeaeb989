package config

import (
	"fmt"
	"sort"
)

// Profile switches model selection for a whole run.
type Profile string

const (
	// ProfileProduction uses each agent's declared preset.
	ProfileProduction Profile = "production"
	// ProfileTesting forces the fast-cheap preset for every agent.
	ProfileTesting Profile = "testing"
)

// ParseProfile validates a profile name.
func ParseProfile(s string) (Profile, error) {
	switch Profile(s) {
	case ProfileProduction, ProfileTesting:
		return Profile(s), nil
	default:
		return "", fmt.Errorf("unknown profile: %q (valid options: production, testing)", s)
	}
}

// Preset names.
const (
	PresetFastCheap   = "fast-cheap"
	PresetHighQuality = "high-quality"
)

// Preset is a named set of model parameters.
type Preset struct {
	Name        string  `json:"preset" yaml:"preset"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	TopP        float64 `json:"top_p" yaml:"top_p"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens"`
}

var presets = map[string]Preset{
	PresetFastCheap: {
		Name:        PresetFastCheap,
		Model:       "claude-3-5-haiku-latest",
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   4000,
	},
	PresetHighQuality: {
		Name:        PresetHighQuality,
		Model:       "claude-sonnet-4-20250514",
		Temperature: 0.5,
		TopP:        0.9,
		MaxTokens:   8000,
	},
}

// LookupPreset returns the preset registered under name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// PresetNames lists the known presets, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveLLM turns an agent's llm block into concrete parameters. The
// testing profile swaps the preset for fast-cheap, ignoring any model
// override, but keeps the agent's sampling overrides.
func ResolveLLM(def LLMDef, profile Profile) (Preset, error) {
	name := def.Preset
	if name == "" {
		name = PresetHighQuality
	}
	if profile == ProfileTesting {
		name = PresetFastCheap
	}
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset: %q", def.Preset)
	}

	if def.Model != "" && profile != ProfileTesting {
		p.Model = def.Model
	}
	if def.Temperature != nil {
		p.Temperature = *def.Temperature
	}
	if def.TopP != nil {
		p.TopP = *def.TopP
	}
	if def.MaxTokens > 0 {
		p.MaxTokens = def.MaxTokens
	}
	return p, nil
}

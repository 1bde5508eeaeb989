package crew

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Inputs fill the {placeholder} slots of agent and task definitions.
type Inputs map[string]string

// Input keys used by the bundled crew definitions.
const (
	InputGame                = "game"
	InputGenre               = "genre"
	InputPlatform            = "platform"
	InputTargetAudience      = "target_audience"
	InputDevelopmentTimeline = "development_timeline"
	InputTeamSize            = "team_size"
	InputProjectScope        = "project_scope"
)

// InputKeys lists the bundled input keys in display order.
var InputKeys = []string{
	InputGame,
	InputGenre,
	InputPlatform,
	InputTargetAudience,
	InputDevelopmentTimeline,
	InputTeamSize,
	InputProjectScope,
}

var inputPresets = map[string]Inputs{
	"default": {
		InputGame:                "Casual RTS Adventure",
		InputGenre:               "Real-Time Strategy",
		InputPlatform:            "PC",
		InputTargetAudience:      "Casual gamers",
		InputDevelopmentTimeline: "6-12 months",
		InputTeamSize:            "Solo developer",
		InputProjectScope:        "Prototype and early development",
	},
	"casual_rts": {
		InputGame:                "Casual RTS: Crystal Kingdoms",
		InputGenre:               "Casual Real-Time Strategy",
		InputPlatform:            "PC",
		InputTargetAudience:      "Casual strategy game players",
		InputDevelopmentTimeline: "8 months",
		InputTeamSize:            "Solo developer",
		InputProjectScope:        "Full prototype with 3 playable scenarios",
	},
	"platformer": {
		InputGame:                "Rapid Prototype Platformer",
		InputGenre:               "Platformer",
		InputPlatform:            "PC",
		InputTargetAudience:      "Indie game enthusiasts",
		InputDevelopmentTimeline: "6 months",
		InputTeamSize:            "Solo developer",
		InputProjectScope:        "Rapid prototype with core mechanics",
	},
}

// Preset input names used by the train and test commands.
const (
	DefaultInputs   = "default"
	TrainTestInputs  = "platformer"
)

// LookupInputs returns a copy of the named input preset.
func LookupInputs(name string) (Inputs, error) {
	p, ok := inputPresets[name]
	if !ok {
		return nil, fmt.Errorf("unknown input preset %q (available: %s)", name, strings.Join(InputPresetNames(), ", "))
	}
	return p.Clone(), nil
}

// InputPresetNames lists the input presets, sorted.
func InputPresetNames() []string {
	names := make([]string, 0, len(inputPresets))
	for name := range inputPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy.
func (in Inputs) Clone() Inputs {
	out := make(Inputs, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

var placeholderPattern = regexp.MustCompile(`\{([a-z][a-z0-9_]*)\}`)

// Interpolate replaces {key} placeholders with input values. Placeholders
// without a value are an error; other braces are left alone.
func (in Inputs) Interpolate(text string) (string, error) {
	var missing []string
	out := placeholderPattern.ReplaceAllStringFunc(text, func(m string) string {
		key := m[1 : len(m)-1]
		v, ok := in[key]
		if !ok {
			missing = append(missing, key)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("missing input for placeholder(s): %s", strings.Join(missing, ", "))
	}
	return out, nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gil-1/crewai-gamedevs/internal/assets"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	app, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, ProfileProduction, app.Profile)
	assert.Equal(t, "claude", app.Agent)
	assert.Equal(t, "out", app.Paths.Output)
	assert.Equal(t, "knowledge/game_design_document/template.mdx", app.Paths.Template)
	assert.Equal(t, "info", app.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("agent: codex\npaths:\n  output: build/gdd\n"), 0644))
	t.Setenv("GAMEDEVS_PROFILE", "testing")
	t.Setenv("GAMEDEVS_LOG_FORMAT", "json")

	app, err := Load(viper.New(), file)
	require.NoError(t, err)
	assert.Equal(t, "codex", app.Agent)
	assert.Equal(t, "build/gdd", app.Paths.Output)
	assert.Equal(t, ProfileTesting, app.Profile)
	assert.Equal(t, "json", app.Log.Format)
}

func TestLoadErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(viper.New(), "does-not-exist.yaml")
	assert.Error(t, err)

	t.Setenv("GAMEDEVS_PROFILE", "staging")
	_, err = Load(viper.New(), "")
	assert.Error(t, err)
}

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile("testing")
	require.NoError(t, err)
	assert.Equal(t, ProfileTesting, p)

	_, err = ParseProfile("prod")
	assert.Error(t, err)
}

func TestResolveLLM(t *testing.T) {
	temp := 0.8
	topP := 0.95

	tests := []struct {
		name    string
		def     LLMDef
		profile Profile
		want    Preset
	}{
		{
			name:    "default preset",
			profile: ProfileProduction,
			want:    presets[PresetHighQuality],
		},
		{
			name:    "overrides applied",
			def:     LLMDef{Preset: PresetFastCheap, Temperature: &temp, TopP: &topP, MaxTokens: 1234, Model: "claude-custom"},
			profile: ProfileProduction,
			want: Preset{
				Name: PresetFastCheap, Model: "claude-custom",
				Temperature: 0.8, TopP: 0.95, MaxTokens: 1234,
			},
		},
		{
			name:    "testing forces fast-cheap model",
			def:     LLMDef{Preset: PresetHighQuality, Model: "claude-custom", Temperature: &temp},
			profile: ProfileTesting,
			want: Preset{
				Name: PresetFastCheap, Model: presets[PresetFastCheap].Model,
				Temperature: 0.8, TopP: presets[PresetFastCheap].TopP, MaxTokens: presets[PresetFastCheap].MaxTokens,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveLLM(tt.def, tt.profile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ResolveLLM(LLMDef{Preset: "turbo"}, ProfileProduction)
	assert.Error(t, err)
}

func TestPresetNames(t *testing.T) {
	assert.Equal(t, []string{PresetFastCheap, PresetHighQuality}, PresetNames())
	_, ok := LookupPreset("nope")
	assert.False(t, ok)
}

func TestParseCrewDefaults(t *testing.T) {
	agents, err := assets.Read(assets.AgentsFile)
	require.NoError(t, err)
	tasks, err := assets.Read(assets.TasksFile)
	require.NoError(t, err)

	def, err := ParseCrew(agents, tasks)
	require.NoError(t, err)

	require.Len(t, def.Agents, 4)
	assert.Equal(t, "pitch_writer", def.Agents[0].Key)
	assert.Equal(t, "chief_editor", def.Agents[3].Key)

	keys := make([]string, len(def.Tasks))
	for i, task := range def.Tasks {
		keys[i] = task.Key
	}
	assert.Equal(t, []string{
		"pitch_concept_task",
		"gameplay_mechanics_task",
		"gdd_integration_task",
		"technical_implementation_task",
	}, keys)
	assert.True(t, def.Tasks[2].ValidateTemplate)

	a, ok := def.Agent("technical_architect")
	require.True(t, ok)
	require.NotNil(t, a.LLM.Temperature)
	assert.Equal(t, 0.3, *a.LLM.Temperature)
}

func TestParseCrewInvalid(t *testing.T) {
	agent := []byte("writer:\n  role: r\n  goal: g\n  backstory: b\n")

	tests := []struct {
		name   string
		agents string
		tasks  string
	}{
		{"unknown agent", string(agent), "t1:\n  description: d\n  expected_output: e\n  agent: ghost\n"},
		{"forward context", string(agent), "t1:\n  description: d\n  expected_output: e\n  agent: writer\n  context: [t2]\nt2:\n  description: d\n  expected_output: e\n  agent: writer\n"},
		{"missing field", string(agent), "t1:\n  description: d\n  agent: writer\n"},
		{"unknown preset", "writer:\n  role: r\n  goal: g\n  backstory: b\n  llm:\n    preset: turbo\n", "t1:\n  description: d\n  expected_output: e\n  agent: writer\n"},
		{"temperature out of range", "writer:\n  role: r\n  goal: g\n  backstory: b\n  llm:\n    temperature: 1.5\n", "t1:\n  description: d\n  expected_output: e\n  agent: writer\n"},
		{"not a mapping", "- a\n- b\n", "t1:\n  description: d\n  expected_output: e\n  agent: writer\n"},
		{"no tasks", string(agent), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCrew([]byte(tt.agents), []byte(tt.tasks))
			assert.Error(t, err)
		})
	}
}

func TestLoadCrewFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadCrewFiles(filepath.Join(dir, "a.yaml"), filepath.Join(dir, "t.yaml"))
	assert.Error(t, err)
}

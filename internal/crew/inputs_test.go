package crew

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	in := Inputs{"game": "Crystal Kingdoms", "team_size": "Solo developer"}

	tests := []struct {
		name    string
		text    string
		want    string
		wantErr string
	}{
		{"single", "Pitch {game}.", "Pitch Crystal Kingdoms.", ""},
		{"repeated", "{game} by a {team_size}: {game}", "Crystal Kingdoms by a Solo developer: Crystal Kingdoms", ""},
		{"no placeholders", "plain text", "plain text", ""},
		{"other braces untouched", `{"json": true} and {Upper} and { game }`, `{"json": true} and {Upper} and { game }`, ""},
		{"missing", "{game} on {platform} for {genre}", "", "platform, genre"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := in.Interpolate(tt.text)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupInputs(t *testing.T) {
	assert.Equal(t, []string{"casual_rts", "default", "platformer"}, InputPresetNames())

	for _, name := range InputPresetNames() {
		in, err := LookupInputs(name)
		require.NoError(t, err)
		for _, key := range InputKeys {
			assert.NotEmpty(t, in[key], "%s.%s", name, key)
		}
	}

	in, err := LookupInputs(TrainTestInputs)
	require.NoError(t, err)
	assert.Equal(t, "Rapid Prototype Platformer", in[InputGame])

	// Presets are copied, not shared.
	in[InputGame] = "changed"
	again, err := LookupInputs(TrainTestInputs)
	require.NoError(t, err)
	assert.Equal(t, "Rapid Prototype Platformer", again[InputGame])

	_, err = LookupInputs("rpg")
	assert.Error(t, err)
}

package crew

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gil-1/crewai-gamedevs/internal/runner"
)

func TestRunStore(t *testing.T) {
	store := NewRunStore(filepath.Join(t.TempDir(), "runs"))

	_, err := store.Latest()
	assert.ErrorIs(t, err, ErrNoRuns)

	older := NewRun(Inputs{"game": "A"}, "production", "claude")
	older.StartedAt = time.Now().Add(-time.Hour)
	newer := NewRun(Inputs{"game": "B"}, "testing", "codex")
	newer.Tasks = []TaskOutput{{ID: "t1", Task: "pitch_concept_task", Result: &runner.Result{NumTurns: 2}}}

	require.NoError(t, store.Save(newer))
	require.NoError(t, store.Save(older))

	// Stray files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "broken.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0o644))

	runs, err := store.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, older.ID, runs[0].ID)

	latest, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
	assert.Equal(t, "B", latest.Inputs["game"])
	require.Len(t, latest.Tasks, 1)
	assert.Equal(t, 2, latest.Tasks[0].Result.NumTurns)

	_, err = store.Load("missing")
	assert.Error(t, err)
}

func TestFindTask(t *testing.T) {
	run := &Run{Tasks: []TaskOutput{
		{ID: "0f8e7d6c-aaaa-bbbb-cccc-000000000001", Task: "pitch_concept_task"},
		{ID: "1a2b3c4d-aaaa-bbbb-cccc-000000000002", Task: "gameplay_mechanics_task"},
	}}

	tests := []struct {
		ref  string
		want int
	}{
		{"pitch_concept_task", 0},
		{"1a2b3c4d-aaaa-bbbb-cccc-000000000002", 1},
		{"1a2b3c4d", 1},
	}
	for _, tt := range tests {
		idx, err := run.FindTask(tt.ref)
		require.NoError(t, err, tt.ref)
		assert.Equal(t, tt.want, idx, tt.ref)
	}

	for _, ref := range []string{"1a2b", "nope", ""} {
		_, err := run.FindTask(ref)
		assert.ErrorIs(t, err, ErrTaskNotFound, ref)
	}
}

func TestTaskOutputFailed(t *testing.T) {
	assert.False(t, TaskOutput{}.Failed())
	assert.True(t, TaskOutput{Error: "boom"}.Failed())
	assert.True(t, TaskOutput{Result: &runner.Result{IsError: true}}.Failed())
}

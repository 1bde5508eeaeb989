package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	for _, name := range []string{AgentsFile, TasksFile, TemplateFile, GuideFile} {
		data, err := Read(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}

	_, err := Read("missing.txt")
	assert.Error(t, err)
}

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	old := []string{Version, Commit, BuildDate}
	t.Cleanup(func() { Version, Commit, BuildDate = old[0], old[1], old[2] })

	Version, Commit, BuildDate = "v1.2.3", "abc123", "2026-01-02"
	assert.Equal(t, "v1.2.3 (commit: abc123, built: 2026-01-02)", String())
}

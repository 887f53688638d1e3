package projects

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublicIDFormat(t *testing.T) {
	re := regexp.MustCompile(`^proj-\d{5}-\d{4}$`)

	for i := 0; i < 20; i++ {
		id, err := NewPublicID("proj")
		require.NoError(t, err)
		assert.Regexp(t, re, id)
	}
}

func TestNewPublicIDVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := NewPublicID("proj")
		require.NoError(t, err)
		seen[id] = true
	}
	// Collisions are possible but 50 identical draws are not.
	assert.Greater(t, len(seen), 1)
}

package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRefresher(t *testing.T) {
	s := testServer()

	c, err := s.StartRefresher("@hourly", nil)
	require.NoError(t, err)
	defer c.Stop()

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Next.IsZero())
}

func TestStartRefresherBadSpec(t *testing.T) {
	s := testServer()

	_, err := s.StartRefresher("every full moon", nil)
	assert.ErrorContains(t, err, "scheduling refresh")
}

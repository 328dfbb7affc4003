package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger, err := New("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1), "debug enabled")
	logger.Sync()
}

func TestNewUnknownLevelFallsBack(t *testing.T) {
	logger, err := New("shouting")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1), "debug stays off at the info fallback")
	logger.Sync()
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "New", New.String())
	assert.Equal(t, "Starting", Starting.String())
	assert.Equal(t, "Running", Running.String())
	assert.Equal(t, "Stopping", Stopping.String())
	assert.Equal(t, "Terminated", Terminated.String())
	assert.Equal(t, "Failed", Failed.String())
	assert.Equal(t, "42", State(42).String())
}

func TestStateTerminal(t *testing.T) {
	assert.False(t, New.Terminal())
	assert.False(t, Starting.Terminal())
	assert.False(t, Running.Terminal())
	assert.False(t, Stopping.Terminal())
	assert.True(t, Terminated.Terminal())
	assert.True(t, Failed.Terminal())
}

func TestSnapshotExternalState(t *testing.T) {
	assert.Equal(t, Starting, (&snapshot{state: Starting}).externalState())
	assert.Equal(t, Stopping,
		(&snapshot{state: Starting, stopRequested: true}).externalState())
	assert.Equal(t, Running, (&snapshot{state: Running}).externalState())
}

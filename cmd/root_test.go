package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	root, out := newTestRoot()
	require.NoError(t, execute(root, "version"))
	assert.Contains(t, out.String(), "depscout")
}

func TestVersionFlag(t *testing.T) {
	root, out := newTestRoot()
	require.NoError(t, execute(root, "--version"))
	assert.Contains(t, out.String(), "depscout")
}

func TestUnknownCommand(t *testing.T) {
	root, _ := newTestRoot()
	assert.Error(t, execute(root, "frobnicate"))
}

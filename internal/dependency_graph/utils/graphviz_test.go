package utils

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDOT_MissingBinary(t *testing.T) {
	_, err := RenderDOT(context.Background(), "digraph G {}", "svg", "definitely-not-graphviz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dot binary not found")
}

func TestRenderDOT(t *testing.T) {
	if _, err := exec.LookPath("dot"); err != nil {
		t.Skip("graphviz not installed")
	}
	out, err := RenderDOT(context.Background(), "digraph G { a -> b }", "", "")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<svg")
}

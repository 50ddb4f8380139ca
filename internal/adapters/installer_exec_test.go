package adapters

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellInstallerAdapterExitCodes(t *testing.T) {
	var stdout, stderr bytes.Buffer
	installer := NewShellInstallerAdapter(&stdout, &stderr)
	installer.Stdin = nil

	code, err := installer.Run(t.Context(), "echo installing gcc")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "installing gcc\n", stdout.String())

	code, err = installer.Run(t.Context(), "echo broken >&2; exit 7")
	require.NoError(t, err)
	assert.Equal(t, 7, code)
	assert.Equal(t, "broken\n", stderr.String())
}

func TestShellInstallerAdapterCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	installer := NewShellInstallerAdapter(nil, nil)
	installer.Stdin = nil
	_, err := installer.Run(ctx, "sleep 5")
	require.Error(t, err)
}

func TestShellInstallerAdapterMissingShell(t *testing.T) {
	installer := ShellInstallerAdapter{Shell: "/nonexistent/shell"}
	_, err := installer.Run(t.Context(), "true")
	require.Error(t, err)
}

// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// Fixture returns the absolute path of a file under fixtures/.
func Fixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(RepoRoot(t), "fixtures", name)
	require.FileExists(t, path)
	return path
}

// BuildCLI compiles ./cmd/pip2sysdep into dir and returns the binary path.
// "go run" does not preserve the exit status of the program, so tests that
// check exit codes run the built binary.
func BuildCLI(root string, dir string) (string, error) {
	binary := filepath.Join(dir, "pip2sysdep")
	cmd := exec.Command("go", "build", "-o", binary, "./cmd/pip2sysdep")
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", errors.New(string(out))
	}
	return binary, nil
}

// Run executes binary in the repository root and returns its standard
// output, standard error and exit code.
func Run(t *testing.T, binary string, env []string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(binary, args...)
	cmd.Dir = RepoRoot(t)
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		require.True(t, errors.As(err, &exitErr), "failed to run %s: %v", binary, err)
		code = exitErr.ExitCode()
	}
	return stdout.String(), stderr.String(), code
}

package adapters

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pip2sysdep/internal/ports"
)

// ShellInstallerAdapter runs install commands through "sh -c" with the
// given standard streams.
type ShellInstallerAdapter struct {
	Shell  string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func NewShellInstallerAdapter(stdout io.Writer, stderr io.Writer) ShellInstallerAdapter {
	return ShellInstallerAdapter{
		Shell:  "sh",
		Stdin:  os.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}
}

// Run returns the exit status of command. The error is only set when the
// shell could not be started or was interrupted through ctx.
func (a ShellInstallerAdapter) Run(ctx context.Context, command string) (int, error) {
	shell := a.Shell
	if shell == "" {
		shell = "sh"
	}
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Stdin = a.Stdin
	cmd.Stdout = a.Stdout
	cmd.Stderr = a.Stderr

	log.Ctx(ctx).Debug().Str("command", command).Msg("running install command")
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if ctx.Err() != nil {
		return -1, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("install command interrupted").
			WithCause(ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to start install command").
		WithCause(err)
}

var _ ports.InstallerPort = ShellInstallerAdapter{}

package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
)

// RunInstall executes a rendered install command. A command that runs and
// exits non-zero yields InstallExitError alongside the result.
func (s Service) RunInstall(ctx context.Context, command string) (InstallResult, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return InstallResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("install command is empty")
	}
	if s.Installer == nil {
		return InstallResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("no installer configured")
	}
	code, err := s.Installer.Run(ctx, command)
	if err != nil {
		return InstallResult{Command: command, ExitCode: code}, err
	}
	result := InstallResult{Command: command, ExitCode: code}
	if code != 0 {
		log.Ctx(ctx).Debug().Int("status", code).Msg("install command failed")
		return result, InstallExitError{Command: command, Code: code}
	}
	return result, nil
}

package app

import (
	"fmt"
	"time"

	"pip2sysdep/internal/types"
)

// InputRequest names where pip package names come from. Files are read
// first, then Packages are appended.
type InputRequest struct {
	Packages         []string
	RequirementsFile string
	ManifestFile     string
}

// SourceRequest selects the mapping document source.
type SourceRequest struct {
	Mode types.SourceMode
	// MappingFile, when set, is loaded for every distro key.
	MappingFile string
	SearchPaths []string
	BaseURL     string
	HTTPTimeout time.Duration
	HTTPRetries int
}

type ConvertRequest struct {
	Input  InputRequest
	Source SourceRequest
	// Distro and OSVersion override the detected halves of the distro key.
	Distro        string
	OSVersion     string
	CommandName   string
	RenderCommand bool
}

type ConvertResult struct {
	Distro         types.DistroKey
	Packages       []string
	SystemPackages []string
	Command        string
}

type InstallResult struct {
	Command  string
	ExitCode int
}

// InstallExitError reports an install command that ran and exited non-zero.
type InstallExitError struct {
	Command string
	Code    int
}

func (e InstallExitError) Error() string {
	return fmt.Sprintf("install command exited with status %d: %s", e.Code, e.Command)
}

type DistrosRequest struct {
	SearchPaths []string
}

type DistrosResult struct {
	Distros []types.DistroKey
}

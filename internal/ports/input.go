package ports

import "pip2sysdep/internal/types"

// RequirementsPort reads requirements.txt-style files.
type RequirementsPort interface {
	ReadRequirements(path string) ([]types.Requirement, error)
}

// ManifestPort reads project manifests (pyproject.toml).
type ManifestPort interface {
	ReadManifest(path string) ([]types.Requirement, error)
}

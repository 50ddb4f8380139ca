package app

import (
	"io/fs"
	"os"

	"pip2sysdep/data"
	"pip2sysdep/internal/adapters"
	"pip2sysdep/internal/ports"
)

type Service struct {
	OSInfo       ports.OSInfoPort
	Requirements ports.RequirementsPort
	Manifest     ports.ManifestPort
	Installer    ports.InstallerPort
	Bundled      fs.FS
	// Source replaces the mapping source derived from each request when set.
	Source ports.MappingSourcePort
}

func NewService() Service {
	return Service{
		OSInfo:       adapters.NewOSReleaseAdapter(),
		Requirements: adapters.NewRequirementsFileAdapter(),
		Manifest:     adapters.NewPyprojectFileAdapter(),
		Installer:    adapters.NewShellInstallerAdapter(os.Stdout, os.Stderr),
		Bundled:      data.Mappings,
	}
}

package types

import (
	"strings"

	"pip2sysdep/internal/shared"
)

const (
	// MetaKey is the reserved document entry holding groups and command templates.
	MetaKey = "__meta__"
	// AlwaysGroup is the baseline group applied to every resolution.
	AlwaysGroup = "__always__"
	// DefaultPackageManager is substituted when the document declares none.
	DefaultPackageManager = "apt"
	// DefaultInstallCommand is used when neither commands.install nor the
	// legacy install_command key are declared.
	DefaultInstallCommand = "apt install -y"
	// InstallCommandName is the command table entry used when no name is given.
	InstallCommandName = "install"

	groupDelimiter = "__"
)

// MappingMeta is the decoded __meta__ table of a mapping document.
type MappingMeta struct {
	// Groups keeps the delimited form of each name, e.g. "__always__".
	Groups         map[string][]string
	Commands       map[string]string
	InstallCommand string
	PackageManager string
}

// PackageEntry is the mapping for one pip package.
type PackageEntry struct {
	Deps []string
}

// MappingDocument is the parsed mapping for one distro key. It is never
// mutated after NewMappingDocument returns and can be shared between
// goroutines.
type MappingDocument struct {
	Meta     MappingMeta
	Packages map[string]PackageEntry

	// RootGroups holds delimited lists declared next to the packages instead
	// of inside __meta__. Older documents put their groups there.
	RootGroups map[string][]string

	normalized map[string]string
}

// NewMappingDocument builds a document and its normalized package index.
func NewMappingDocument(meta MappingMeta, packages map[string]PackageEntry, rootGroups map[string][]string) *MappingDocument {
	if meta.Groups == nil {
		meta.Groups = map[string][]string{}
	}
	if meta.Commands == nil {
		meta.Commands = map[string]string{}
	}
	if strings.TrimSpace(meta.PackageManager) == "" {
		meta.PackageManager = DefaultPackageManager
	}
	if packages == nil {
		packages = map[string]PackageEntry{}
	}
	if rootGroups == nil {
		rootGroups = map[string][]string{}
	}
	normalized := make(map[string]string, len(packages))
	for name := range packages {
		key := shared.NormalizePipName(name)
		// An exact normalized spelling owns its slot; otherwise the smallest
		// spelling wins so the index does not depend on map order.
		if existing, ok := normalized[key]; ok {
			if existing == key || (name != key && existing < name) {
				continue
			}
		}
		normalized[key] = name
	}
	return &MappingDocument{
		Meta:       meta,
		Packages:   packages,
		RootGroups: rootGroups,
		normalized: normalized,
	}
}

// Package looks a pip package up by exact name, then by its PEP 503
// normalized form.
func (d *MappingDocument) Package(name string) (PackageEntry, bool) {
	if entry, ok := d.Packages[name]; ok {
		return entry, true
	}
	if original, ok := d.normalized[shared.NormalizePipName(name)]; ok {
		entry, ok := d.Packages[original]
		return entry, ok
	}
	return PackageEntry{}, false
}

// Group returns the list declared for a delimited group name, looking in
// __meta__ first and then at the document root.
func (d *MappingDocument) Group(name string) ([]string, bool) {
	if list, ok := d.Meta.Groups[name]; ok {
		return list, true
	}
	list, ok := d.RootGroups[name]
	return list, ok
}

// IsGroupReference reports whether token has the reserved __name__ form.
func IsGroupReference(token string) bool {
	return len(token) > 2*len(groupDelimiter) &&
		strings.HasPrefix(token, groupDelimiter) &&
		strings.HasSuffix(token, groupDelimiter)
}

// GroupReference wraps a bare name in the reserved delimiters.
func GroupReference(name string) string {
	return groupDelimiter + name + groupDelimiter
}

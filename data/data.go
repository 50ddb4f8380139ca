// Package data bundles the default mapping documents, one per distro key,
// named {distro}-{version}.toml.
package data

import "embed"

//go:embed *.toml
var Mappings embed.FS

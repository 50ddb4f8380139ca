package types

import (
	"fmt"
	"strings"
)

// DistroKey addresses one mapping document.
type DistroKey struct {
	Distro  string
	Version string
}

func (k DistroKey) String() string {
	return fmt.Sprintf("%s-%s", k.Distro, k.Version)
}

// Complete reports whether both halves of the key are set.
func (k DistroKey) Complete() bool {
	return strings.TrimSpace(k.Distro) != "" && strings.TrimSpace(k.Version) != ""
}

// ParseDistroKey splits a file stem such as "ubuntu-24.04" at its last
// hyphen. Distro names may contain hyphens ("opensuse-leap-15.5").
func ParseDistroKey(stem string) (DistroKey, bool) {
	idx := strings.LastIndex(stem, "-")
	if idx <= 0 || idx == len(stem)-1 {
		return DistroKey{}, false
	}
	return DistroKey{Distro: stem[:idx], Version: stem[idx+1:]}, true
}

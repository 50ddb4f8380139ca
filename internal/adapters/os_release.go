package adapters

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"

	"pip2sysdep/internal/ports"
	"pip2sysdep/internal/types"
)

var redhatVersionPattern = regexp.MustCompile(`\b(\d+)(?:\.\d+)+\b|\brelease\s+(\d+)\b`)

// OSReleaseAdapter detects the running distribution from os-release, then
// the Debian and Red Hat marker files, then the kernel name and release.
type OSReleaseAdapter struct {
	// Root is prepended to every probed path. Empty means "/".
	Root string
	// GOOS overrides runtime.GOOS.
	GOOS string
}

func NewOSReleaseAdapter() OSReleaseAdapter {
	return OSReleaseAdapter{}
}

func (a OSReleaseAdapter) Detect() types.DistroKey {
	if key, ok := a.fromOSRelease(); ok {
		log.Debug().Str("distro", key.String()).Msg("distro detected from os-release")
		return key
	}
	goos := a.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	if goos == "linux" {
		if data, err := os.ReadFile(a.path("etc", "debian_version")); err == nil {
			if version := strings.TrimSpace(string(data)); version != "" {
				key := types.DistroKey{Distro: "debian", Version: version}
				log.Debug().Str("distro", key.String()).Msg("distro detected from debian_version")
				return key
			}
		}
		if data, err := os.ReadFile(a.path("etc", "redhat-release")); err == nil {
			if version, ok := redhatMajorVersion(string(data)); ok {
				key := types.DistroKey{Distro: "rhel", Version: version}
				log.Debug().Str("distro", key.String()).Msg("distro detected from redhat-release")
				return key
			}
		}
	}
	release := "unknown"
	if data, err := os.ReadFile(a.path("proc", "sys", "kernel", "osrelease")); err == nil {
		if trimmed := strings.TrimSpace(string(data)); trimmed != "" {
			release = trimmed
		}
	}
	key := types.DistroKey{Distro: strings.ToLower(goos), Version: release}
	log.Debug().Str("distro", key.String()).Msg("distro detection fell back to platform")
	return key
}

func (a OSReleaseAdapter) fromOSRelease() (types.DistroKey, bool) {
	data, err := os.ReadFile(a.path("etc", "os-release"))
	if err != nil {
		return types.DistroKey{}, false
	}
	info := ParseOSRelease(data)
	distro := strings.ToLower(info["id"])
	version := info["version_id"]
	if distro == "" || version == "" {
		return types.DistroKey{}, false
	}
	return types.DistroKey{Distro: distro, Version: version}, true
}

func (a OSReleaseAdapter) path(parts ...string) string {
	root := a.Root
	if root == "" {
		root = string(filepath.Separator)
	}
	return filepath.Join(append([]string{root}, parts...)...)
}

// ParseOSRelease reads KEY=value lines. Keys are lowercased and surrounding
// quotes are stripped from values. Comments and malformed lines are skipped.
func ParseOSRelease(data []byte) map[string]string {
	out := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		out[strings.ToLower(strings.TrimSpace(key))] = value
	}
	return out
}

// redhatMajorVersion pulls the major version out of a line such as
// "Red Hat Enterprise Linux release 9.3 (Plow)".
func redhatMajorVersion(content string) (string, bool) {
	match := redhatVersionPattern.FindStringSubmatch(content)
	if match == nil {
		return "", false
	}
	if match[1] != "" {
		return match[1], true
	}
	return match[2], true
}

var _ ports.OSInfoPort = OSReleaseAdapter{}

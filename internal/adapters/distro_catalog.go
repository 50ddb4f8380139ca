package adapters

import (
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	debversion "github.com/knqyf263/go-deb-version"

	"pip2sysdep/internal/ports"
	"pip2sysdep/internal/types"
)

// DistroCatalogAdapter lists the distro keys that have a mapping document
// in the search path or among the bundled documents.
type DistroCatalogAdapter struct {
	SearchPaths []string
	Embedded    fs.FS
}

func NewDistroCatalogAdapter(searchPaths []string, embedded fs.FS) DistroCatalogAdapter {
	return DistroCatalogAdapter{
		SearchPaths: searchPaths,
		Embedded:    embedded,
	}
}

// ListDistros returns every key once, sorted by distro name and then by
// Debian version ordering.
func (a DistroCatalogAdapter) ListDistros() ([]types.DistroKey, error) {
	seen := map[string]types.DistroKey{}
	for _, dir := range a.SearchPaths {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to list mapping directory: " + dir).
				WithCause(err)
		}
		collectDistroKeys(entries, seen)
	}
	if a.Embedded != nil {
		entries, err := fs.ReadDir(a.Embedded, ".")
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to list bundled mapping documents").
				WithCause(err)
		}
		collectDistroKeys(entries, seen)
	}

	out := make([]types.DistroKey, 0, len(seen))
	for _, key := range seen {
		out = append(out, key)
	}
	sortDistroKeys(out)
	return out, nil
}

func collectDistroKeys(entries []fs.DirEntry, seen map[string]types.DistroKey) {
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		for _, candidate := range types.DocumentExtensions {
			stem, ok := strings.CutSuffix(name, candidate.Ext)
			if !ok {
				continue
			}
			if key, ok := types.ParseDistroKey(stem); ok {
				seen[key.String()] = key
			}
			break
		}
	}
}

func sortDistroKeys(keys []types.DistroKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Distro != keys[j].Distro {
			return keys[i].Distro < keys[j].Distro
		}
		vi, err := debversion.NewVersion(keys[i].Version)
		if err != nil {
			return keys[i].Version < keys[j].Version
		}
		vj, err := debversion.NewVersion(keys[j].Version)
		if err != nil {
			return keys[i].Version < keys[j].Version
		}
		return vi.Compare(vj) < 0
	})
}

var _ ports.DistroCatalogPort = DistroCatalogAdapter{}

package adapters

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"pip2sysdep/internal/core"
	"pip2sysdep/internal/ports"
	"pip2sysdep/internal/types"
)

// MappingFileAdapter loads {distro}-{version} documents from a list of
// directories, first match wins. Documents bundled with the binary are
// consulted after the directories.
type MappingFileAdapter struct {
	SearchPaths []string
	Embedded    fs.FS
}

func NewMappingFileAdapter(searchPaths []string, embedded fs.FS) MappingFileAdapter {
	return MappingFileAdapter{
		SearchPaths: searchPaths,
		Embedded:    embedded,
	}
}

func (a MappingFileAdapter) LoadMapping(ctx context.Context, key types.DistroKey) (*types.MappingDocument, error) {
	var attempted []string
	for _, dir := range a.SearchPaths {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		for _, candidate := range types.DocumentExtensions {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			path := filepath.Join(dir, key.String()+candidate.Ext)
			data, err := os.ReadFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				attempted = append(attempted, path)
				continue
			}
			if err != nil {
				return nil, core.NotFoundError(path, err)
			}
			log.Ctx(ctx).Debug().Str("path", path).Msg("mapping document loaded")
			return DecodeMappingDocument(data, candidate.Format, path)
		}
	}
	if a.Embedded != nil {
		for _, candidate := range types.DocumentExtensions {
			name := key.String() + candidate.Ext
			data, err := fs.ReadFile(a.Embedded, name)
			if err != nil {
				attempted = append(attempted, "embedded:"+name)
				continue
			}
			log.Ctx(ctx).Debug().Str("path", name).Msg("bundled mapping document loaded")
			return DecodeMappingDocument(data, candidate.Format, "embedded:"+name)
		}
	}
	return nil, core.NotFoundError("tried "+strings.Join(attempted, ", "), nil)
}

// MappingExplicitFileAdapter always loads the same file, whatever key it is
// asked for.
type MappingExplicitFileAdapter struct {
	Path string
}

func NewMappingExplicitFileAdapter(path string) MappingExplicitFileAdapter {
	return MappingExplicitFileAdapter{Path: path}
}

func (a MappingExplicitFileAdapter) LoadMapping(ctx context.Context, key types.DistroKey) (*types.MappingDocument, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, core.NotFoundError(a.Path, err)
	}
	log.Ctx(ctx).Debug().
		Str("path", a.Path).
		Str("distro", key.String()).
		Msg("explicit mapping document loaded")
	return DecodeMappingDocument(data, DocumentFormatForPath(a.Path), a.Path)
}

var _ ports.MappingSourcePort = MappingFileAdapter{}
var _ ports.MappingSourcePort = MappingExplicitFileAdapter{}

package ports

import (
	"context"

	"pip2sysdep/internal/types"
)

// MappingSourcePort produces the mapping document for a distro key.
// Implementations must return either a complete document or an error.
type MappingSourcePort interface {
	LoadMapping(ctx context.Context, key types.DistroKey) (*types.MappingDocument, error)
}

// DistroCatalogPort lists the distro keys a local source can serve.
type DistroCatalogPort interface {
	ListDistros() ([]types.DistroKey, error)
}

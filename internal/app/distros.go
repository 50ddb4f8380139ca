package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"pip2sysdep/internal/adapters"
	"pip2sysdep/internal/ports"
)

// Distros lists the distro keys available from the search path and the
// bundled documents.
func (s Service) Distros(ctx context.Context, req DistrosRequest) (DistrosResult, error) {
	var catalog ports.DistroCatalogPort = adapters.NewDistroCatalogAdapter(req.SearchPaths, s.Bundled)
	keys, err := catalog.ListDistros()
	if err != nil {
		return DistrosResult{}, err
	}
	log.Ctx(ctx).Debug().Int("distros", len(keys)).Msg("distro catalog listed")
	return DistrosResult{Distros: keys}, nil
}

package app

import (
	"context"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pip2sysdep/internal/adapters"
	"pip2sysdep/internal/core"
	"pip2sysdep/internal/ports"
	"pip2sysdep/internal/shared"
	"pip2sysdep/internal/types"
)

// CollectPackages gathers pip package names from the input file and the
// explicit list, dropping repeats. At most one input file may be given.
func (s Service) CollectPackages(ctx context.Context, req InputRequest) ([]string, error) {
	requirementsFile := strings.TrimSpace(req.RequirementsFile)
	manifestFile := strings.TrimSpace(req.ManifestFile)
	if requirementsFile != "" && manifestFile != "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cannot use both --txt and --toml at the same time")
	}

	var names []string
	if requirementsFile != "" {
		reqs, err := s.Requirements.ReadRequirements(requirementsFile)
		if err != nil {
			return nil, err
		}
		names = append(names, requirementNames(reqs)...)
	}
	if manifestFile != "" {
		reqs, err := s.Manifest.ReadManifest(manifestFile)
		if err != nil {
			return nil, err
		}
		names = append(names, requirementNames(reqs)...)
	}
	for _, pkg := range req.Packages {
		if pkg = strings.TrimSpace(pkg); pkg != "" {
			names = append(names, pkg)
		}
	}
	names = shared.UniqueStrings(names)
	if len(names) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no python packages given")
	}
	log.Ctx(ctx).Debug().Int("packages", len(names)).Msg("input packages collected")
	return names, nil
}

// DetectDistro fills the halves of the distro key the caller left empty
// from the running system.
func (s Service) DetectDistro(distro string, version string) types.DistroKey {
	key := types.DistroKey{
		Distro:  strings.ToLower(strings.TrimSpace(distro)),
		Version: strings.TrimSpace(version),
	}
	if key.Complete() || s.OSInfo == nil {
		return key
	}
	detected := s.OSInfo.Detect()
	if key.Distro == "" {
		key.Distro = detected.Distro
	}
	if key.Version == "" {
		key.Version = detected.Version
	}
	return key
}

// MappingSource builds the document source a request asks for.
func (s Service) MappingSource(req SourceRequest) ports.MappingSourcePort {
	if s.Source != nil {
		return s.Source
	}
	if file := strings.TrimSpace(req.MappingFile); file != "" {
		return adapters.NewMappingExplicitFileAdapter(file)
	}
	if req.Mode == types.SourceModeLocal {
		return adapters.NewMappingFileAdapter(req.SearchPaths, s.Bundled)
	}
	return adapters.NewMappingRemoteAdapter(req.BaseURL, req.HTTPTimeout, req.HTTPRetries)
}

// NewResolver returns a resolver for the request's distro key and source.
func (s Service) NewResolver(ctx context.Context, req ConvertRequest) *core.DependencyResolver {
	key := s.DetectDistro(req.Distro, req.OSVersion)
	assert.NotEmpty(ctx, key.Distro, "distro must be set")
	assert.NotEmpty(ctx, key.Version, "distro version must be set")
	return core.NewDependencyResolver(key, s.MappingSource(req.Source))
}

func (s Service) Convert(ctx context.Context, req ConvertRequest) (ConvertResult, error) {
	packages, err := s.CollectPackages(ctx, req.Input)
	if err != nil {
		return ConvertResult{}, err
	}
	key := s.DetectDistro(req.Distro, req.OSVersion)
	if !key.Complete() {
		return ConvertResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("cannot determine distro key %q; set --distro and --os-version", key.String()))
	}
	req.Distro, req.OSVersion = key.Distro, key.Version
	resolver := s.NewResolver(ctx, req)
	deps, err := resolver.ResolveMany(ctx, packages)
	if err != nil {
		return ConvertResult{}, err
	}
	if log.Ctx(ctx).Debug().Enabled() {
		byPackage, err := resolver.ResolveByPackage(ctx, packages)
		if err != nil {
			return ConvertResult{}, err
		}
		for _, pkg := range packages {
			log.Ctx(ctx).Debug().Str("package", pkg).Strs("deps", byPackage[pkg]).Msg("package resolved")
		}
	}

	result := ConvertResult{
		Distro:         resolver.Key,
		Packages:       packages,
		SystemPackages: deps,
	}
	if req.RenderCommand {
		command, err := resolver.InstallCommand(ctx, req.CommandName, deps)
		if err != nil {
			return ConvertResult{}, err
		}
		result.Command = command
	}
	return result, nil
}

func requirementNames(reqs []types.Requirement) []string {
	names := make([]string, 0, len(reqs))
	for _, req := range reqs {
		names = append(names, req.Name)
	}
	return names
}

package core

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pip2sysdep/internal/ports"
	"pip2sysdep/internal/shared"
	"pip2sysdep/internal/types"
)

// MappingSourceFunc adapts a plain function to ports.MappingSourcePort.
type MappingSourceFunc func(ctx context.Context, key types.DistroKey) (*types.MappingDocument, error)

func (f MappingSourceFunc) LoadMapping(ctx context.Context, key types.DistroKey) (*types.MappingDocument, error) {
	return f(ctx, key)
}

// DependencyResolver maps pip package names to system packages for one
// distro key. The mapping document is loaded on first use and kept for the
// lifetime of the resolver. A resolver is safe for concurrent use.
type DependencyResolver struct {
	Key    types.DistroKey
	Source ports.MappingSourcePort

	cell documentCell
}

func NewDependencyResolver(key types.DistroKey, source ports.MappingSourcePort) *DependencyResolver {
	return &DependencyResolver{
		Key:    key,
		Source: source,
	}
}

// Document returns the mapping document, loading it on the first call.
func (r *DependencyResolver) Document(ctx context.Context) (*types.MappingDocument, error) {
	if r.Source == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolver requires a mapping source")
	}
	doc, hit, err := r.cell.getOrLoad(ctx, func(ctx context.Context) (*types.MappingDocument, error) {
		log.Ctx(ctx).Debug().Str("distro", r.Key.String()).Msg("loading mapping document")
		return r.Source.LoadMapping(ctx, r.Key)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		log.Ctx(ctx).Debug().Str("distro", r.Key.String()).Msg("mapping document cache hit")
	}
	return doc, nil
}

// Resolve returns the baseline group followed by the dependencies of pkg,
// expanded and without duplicates. An unknown package contributes nothing
// beyond the baseline.
func (r *DependencyResolver) Resolve(ctx context.Context, pkg string) ([]string, error) {
	doc, err := r.Document(ctx)
	if err != nil {
		return nil, err
	}
	return resolvePackage(ctx, NewGroupExpander(doc), doc, pkg)
}

// ResolveMany resolves every package against the same document and merges
// the results, keeping the first position of each literal.
func (r *DependencyResolver) ResolveMany(ctx context.Context, pkgs []string) ([]string, error) {
	doc, err := r.Document(ctx)
	if err != nil {
		return nil, err
	}
	expander := NewGroupExpander(doc)
	var merged []string
	for _, pkg := range pkgs {
		deps, err := resolvePackage(ctx, expander, doc, pkg)
		if err != nil {
			return nil, err
		}
		merged = append(merged, deps...)
	}
	merged = shared.UniqueStrings(merged)
	log.Ctx(ctx).Debug().Int("packages", len(pkgs)).Int("resolved", len(merged)).Msg("resolver completed")
	return merged, nil
}

// ResolveByPackage is ResolveMany without the merge step.
func (r *DependencyResolver) ResolveByPackage(ctx context.Context, pkgs []string) (map[string][]string, error) {
	doc, err := r.Document(ctx)
	if err != nil {
		return nil, err
	}
	expander := NewGroupExpander(doc)
	out := make(map[string][]string, len(pkgs))
	for _, pkg := range pkgs {
		deps, err := resolvePackage(ctx, expander, doc, pkg)
		if err != nil {
			return nil, err
		}
		out[pkg] = deps
	}
	return out, nil
}

// InstallCommand renders a command template of the document with the given
// dependency sets appended.
func (r *DependencyResolver) InstallCommand(ctx context.Context, commandName string, sets ...[]string) (string, error) {
	doc, err := r.Document(ctx)
	if err != nil {
		return "", err
	}
	return RenderInstallCommand(doc.Meta, commandName, sets...)
}

func resolvePackage(ctx context.Context, expander GroupExpander, doc *types.MappingDocument, pkg string) ([]string, error) {
	baseline, _ := doc.Group(types.AlwaysGroup)
	deps, err := expander.Expand(ctx, baseline)
	if err != nil {
		return nil, err
	}
	entry, ok := doc.Package(pkg)
	if !ok {
		log.Ctx(ctx).Debug().Str("package", pkg).Msg("package not in mapping, baseline only")
		return shared.UniqueStrings(deps), nil
	}
	own, err := expander.Expand(ctx, entry.Deps)
	if err != nil {
		return nil, err
	}
	return shared.UniqueStrings(append(deps, own...)), nil
}

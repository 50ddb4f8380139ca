package adapters

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"pip2sysdep/internal/types"
)

const msgInvalidDocument = "invalid mapping document"

// DecodeMappingDocument parses a mapping document. origin names the file or
// URL the bytes came from and only appears in messages.
//
// Root entries that are not tables and __meta__ entries of the __name__ form
// that are not lists are skipped; a token naming them stays a literal.
func DecodeMappingDocument(data []byte, format types.DocumentFormat, origin string) (*types.MappingDocument, error) {
	raw := map[string]any{}
	switch format {
	case types.DocumentFormatTOML:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, invalidDocument(origin, "failed to parse toml", err)
		}
	case types.DocumentFormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, invalidDocument(origin, "failed to parse yaml", err)
		}
	default:
		return nil, invalidDocument(origin, fmt.Sprintf("unsupported format %q", format), nil)
	}

	meta := types.MappingMeta{
		Groups:   map[string][]string{},
		Commands: map[string]string{},
	}
	packages := map[string]types.PackageEntry{}
	rootGroups := map[string][]string{}

	for key, value := range raw {
		switch {
		case key == types.MetaKey:
			table, ok := value.(map[string]any)
			if !ok {
				return nil, invalidDocument(origin, types.MetaKey+" must be a table", nil)
			}
			if err := decodeMeta(table, &meta, origin); err != nil {
				return nil, err
			}
		case types.IsGroupReference(key) && isList(value):
			list, err := stringList(value)
			if err != nil {
				return nil, invalidDocument(origin, "group "+key, err)
			}
			rootGroups[key] = list
		case value == nil:
			packages[key] = types.PackageEntry{Deps: []string{}}
		default:
			if _, ok := value.(map[string]any); !ok {
				log.Debug().Str("origin", origin).Str("key", key).Msgf("skipping non-table entry of type %T", value)
				continue
			}
			entry, err := decodePackage(value)
			if err != nil {
				return nil, invalidDocument(origin, "package "+key, err)
			}
			packages[key] = entry
		}
	}
	return types.NewMappingDocument(meta, packages, rootGroups), nil
}

// DocumentFormatForPath picks the decoder from a file extension, defaulting
// to TOML.
func DocumentFormatForPath(path string) types.DocumentFormat {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range types.DocumentExtensions {
		if candidate.Ext == ext {
			return candidate.Format
		}
	}
	return types.DocumentFormatTOML
}

func decodeMeta(table map[string]any, meta *types.MappingMeta, origin string) error {
	for key, value := range table {
		switch {
		case key == "package_manager":
			text, ok := value.(string)
			if !ok {
				return invalidDocument(origin, "package_manager must be a string", nil)
			}
			meta.PackageManager = strings.TrimSpace(text)
		case key == "install_command":
			text, ok := value.(string)
			if !ok {
				return invalidDocument(origin, "install_command must be a string", nil)
			}
			meta.InstallCommand = strings.TrimSpace(text)
		case key == "commands":
			commands, ok := value.(map[string]any)
			if !ok {
				return invalidDocument(origin, "commands must be a table", nil)
			}
			for name, template := range commands {
				text, ok := template.(string)
				if !ok {
					return invalidDocument(origin, "command "+name+" must be a string", nil)
				}
				meta.Commands[name] = strings.TrimSpace(text)
			}
		case types.IsGroupReference(key):
			if !isList(value) {
				log.Debug().Str("origin", origin).Str("key", key).Msgf("skipping non-list meta entry of type %T", value)
				continue
			}
			list, err := stringList(value)
			if err != nil {
				return invalidDocument(origin, "group "+key, err)
			}
			meta.Groups[key] = list
		}
	}
	return nil
}

func decodePackage(value any) (types.PackageEntry, error) {
	table, ok := value.(map[string]any)
	if !ok {
		return types.PackageEntry{}, fmt.Errorf("entry must be a table, got %T", value)
	}
	deps, ok := table["deps"]
	if !ok {
		return types.PackageEntry{Deps: []string{}}, nil
	}
	list, err := stringList(deps)
	if err != nil {
		return types.PackageEntry{}, fmt.Errorf("deps: %w", err)
	}
	return types.PackageEntry{Deps: list}, nil
}

func isList(value any) bool {
	switch value.(type) {
	case []any, []string, []map[string]any:
		return true
	default:
		return false
	}
}

func stringList(value any) ([]string, error) {
	switch list := value.(type) {
	case []string:
		return append([]string{}, list...), nil
	case []any:
		out := make([]string, 0, len(list))
		for i, item := range list {
			text, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d must be a string, got %T", i, item)
			}
			out = append(out, strings.TrimSpace(text))
		}
		return out, nil
	case nil:
		return []string{}, nil
	default:
		return nil, fmt.Errorf("must be a list of strings, got %T", value)
	}
}

func invalidDocument(origin string, detail string, cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s: %s: %s", msgInvalidDocument, origin, detail))
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return builder
}

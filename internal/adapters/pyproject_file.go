package adapters

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pip2sysdep/internal/ports"
	"pip2sysdep/internal/types"
)

type pyprojectFile struct {
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
		PDM struct {
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"pdm"`
	} `toml:"tool"`
}

type PyprojectFileAdapter struct{}

func NewPyprojectFileAdapter() PyprojectFileAdapter {
	return PyprojectFileAdapter{}
}

// ReadManifest collects dependencies from pyproject.toml: PEP 621
// project.dependencies, then tool.poetry.dependencies (without the python
// entry), then tool.pdm.dependencies. Table entries keep the order in which
// they appear in the file.
func (a PyprojectFileAdapter) ReadManifest(path string) ([]types.Requirement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, inputFileNotFound(path, err)
	}
	var manifest pyprojectFile
	meta, err := toml.Decode(string(data), &manifest)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse pyproject file: " + path).
			WithCause(err)
	}

	var out []types.Requirement
	for _, dep := range manifest.Project.Dependencies {
		if req, ok := ParseRequirementLine(dep); ok {
			out = append(out, req)
		}
	}
	for _, name := range orderedTableKeys(meta, manifest.Tool.Poetry.Dependencies, "tool", "poetry", "dependencies") {
		if strings.EqualFold(name, "python") {
			continue
		}
		out = append(out, tableRequirement(name, manifest.Tool.Poetry.Dependencies[name]))
	}
	for _, name := range orderedTableKeys(meta, manifest.Tool.PDM.Dependencies, "tool", "pdm", "dependencies") {
		out = append(out, tableRequirement(name, manifest.Tool.PDM.Dependencies[name]))
	}
	log.Debug().Str("path", path).Int("requirements", len(out)).Msg("pyproject parsed")
	return out, nil
}

// orderedTableKeys lists the direct keys of the table at prefix in document
// order.
func orderedTableKeys(meta toml.MetaData, table map[string]any, prefix ...string) []string {
	if len(table) == 0 {
		return nil
	}
	var keys []string
	seen := map[string]bool{}
	for _, key := range meta.Keys() {
		if len(key) != len(prefix)+1 || !hasKeyPrefix(key, prefix) {
			continue
		}
		name := key[len(prefix)]
		if _, ok := table[name]; !ok || seen[name] {
			continue
		}
		seen[name] = true
		keys = append(keys, name)
	}
	return keys
}

func hasKeyPrefix(key toml.Key, prefix []string) bool {
	for i, part := range prefix {
		if key[i] != part {
			return false
		}
	}
	return true
}

func tableRequirement(name string, value any) types.Requirement {
	req := types.Requirement{Name: name, Line: name}
	switch spec := value.(type) {
	case string:
		req.Specifier = strings.TrimSpace(spec)
	case map[string]any:
		if version, ok := spec["version"].(string); ok {
			req.Specifier = strings.TrimSpace(version)
		}
	}
	if req.Specifier == "*" {
		req.Specifier = ""
	}
	return req
}

var _ ports.ManifestPort = PyprojectFileAdapter{}

package adapters

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/rs/zerolog/log"

	"pip2sysdep/internal/ports"
	"pip2sysdep/internal/types"
)

var requirementNameSplit = regexp.MustCompile(`[=<>!~\[ ]`)

var skippedRequirementPrefixes = []string{"git+", "http://", "https://", "ssh://", "-", "./", "../", "/"}

type RequirementsFileAdapter struct{}

func NewRequirementsFileAdapter() RequirementsFileAdapter {
	return RequirementsFileAdapter{}
}

// ReadRequirements extracts package names from a requirements.txt-style
// file. Options, VCS and URL references and local paths are skipped.
func (a RequirementsFileAdapter) ReadRequirements(path string) ([]types.Requirement, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, inputFileNotFound(path, err)
	}
	defer file.Close()

	var out []types.Requirement
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if req, ok := ParseRequirementLine(line); ok {
			out = append(out, req)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read requirements file: " + path).
			WithCause(err)
	}
	log.Debug().Str("path", path).Int("requirements", len(out)).Msg("requirements file parsed")
	return out, nil
}

// ParseRequirementLine extracts the distribution name from one requirement
// such as "Pillow[jpeg]>=10.0; python_version > '3.8'  # images". Extras,
// environment markers and comments are dropped. A line whose version
// specifier is not valid PEP 440 is rejected.
func ParseRequirementLine(line string) (types.Requirement, bool) {
	raw := strings.TrimSpace(line)
	for _, prefix := range skippedRequirementPrefixes {
		if strings.HasPrefix(raw, prefix) {
			return types.Requirement{}, false
		}
	}
	text, _, _ := strings.Cut(raw, "#")
	text, _, _ = strings.Cut(text, ";")
	text = strings.TrimSpace(text)
	if text == "" {
		return types.Requirement{}, false
	}
	loc := requirementNameSplit.FindStringIndex(text)
	name := text
	rest := ""
	if loc != nil {
		name = text[:loc[0]]
		rest = text[loc[0]:]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Requirement{}, false
	}
	specifier, ok := requirementSpecifier(name, rest)
	if !ok {
		return types.Requirement{}, false
	}
	return types.Requirement{
		Name:      name,
		Specifier: specifier,
		Line:      raw,
	}, true
}

// requirementSpecifier returns the PEP 440 version part of rest. A direct
// reference ("name @ url") has no specifier. ok is false when the version
// part does not parse, so the line is not a valid requirement.
func requirementSpecifier(name string, rest string) (string, bool) {
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "[") {
		if end := strings.Index(rest, "]"); end >= 0 {
			rest = strings.TrimSpace(rest[end+1:])
		}
	}
	if rest == "" || strings.HasPrefix(rest, "@") {
		return "", true
	}
	if _, err := pep440.NewSpecifiers(rest); err != nil {
		log.Warn().Str("package", name).Str("specifier", rest).Err(err).Msg("skipping requirement with invalid version specifier")
		return "", false
	}
	return rest, true
}

func inputFileNotFound(path string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("input file not found: " + path).
		WithCause(cause)
}

var _ ports.RequirementsPort = RequirementsFileAdapter{}

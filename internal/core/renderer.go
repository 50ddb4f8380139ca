package core

import (
	"regexp"
	"sort"
	"strings"

	"pip2sysdep/internal/shared"
	"pip2sysdep/internal/types"
)

// packageManagerPlaceholder matches ${package_manager} and $package_manager.
var packageManagerPlaceholder = regexp.MustCompile(`\$(\{package_manager\}|package_manager\b)`)

// RenderInstallCommand looks commandName up in the document's command table
// and appends the sorted, de-duplicated union of sets to it. An empty name
// selects the install command, which falls back to the legacy
// install_command key and then to "apt install -y". Any other undeclared
// name is an unknown command error. A blank template counts as undeclared.
func RenderInstallCommand(meta types.MappingMeta, commandName string, sets ...[]string) (string, error) {
	if commandName == "" {
		commandName = types.InstallCommandName
	}
	template, ok := meta.Commands[commandName]
	if !ok || strings.TrimSpace(template) == "" {
		if commandName != types.InstallCommandName {
			return "", unknownCommandError(commandName)
		}
		template = meta.InstallCommand
		if strings.TrimSpace(template) == "" {
			template = types.DefaultInstallCommand
		}
	}
	rendered := substitutePackageManager(template, meta.PackageManager)

	var flat []string
	for _, set := range sets {
		flat = append(flat, set...)
	}
	flat = shared.UniqueStrings(flat)
	if len(flat) == 0 {
		return rendered, nil
	}
	sort.Strings(flat)
	return rendered + " " + strings.Join(flat, " "), nil
}

func substitutePackageManager(template, packageManager string) string {
	if strings.TrimSpace(packageManager) == "" {
		packageManager = types.DefaultPackageManager
	}
	return packageManagerPlaceholder.ReplaceAllLiteralString(template, packageManager)
}

package types

type SourceMode string

const (
	SourceModeLocal  SourceMode = "local"
	SourceModeRemote SourceMode = "remote"
)

type Separator string

const (
	SeparatorSpace   Separator = "space"
	SeparatorNewline Separator = "newline"
)

// Joiner returns the string placed between output entries.
func (s Separator) Joiner() string {
	if s == SeparatorSpace {
		return " "
	}
	return "\n"
}

type DocumentFormat string

const (
	DocumentFormatTOML DocumentFormat = "toml"
	DocumentFormatYAML DocumentFormat = "yaml"
)

// DocumentExtensions lists the file extensions accepted for each mapping format, in
// lookup order. TOML is the canonical format.
var DocumentExtensions = []struct {
	Ext    string
	Format DocumentFormat
}{
	{".toml", DocumentFormatTOML},
	{".yaml", DocumentFormatYAML},
	{".yml", DocumentFormatYAML},
}

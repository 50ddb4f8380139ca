package types

// Requirement is one Python dependency pulled out of an input file.
type Requirement struct {
	Name string
	// Specifier is the version part that followed the name, if any
	// (">=1.26,<2.0"). It is informational only.
	Specifier string
	// Line is the raw text the requirement came from.
	Line string
}

package ports

import "context"

// InstallerPort runs a rendered install command and reports its exit status.
// A non-nil error means the command could not be started at all.
type InstallerPort interface {
	Run(ctx context.Context, command string) (int, error)
}

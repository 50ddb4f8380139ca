package ports

import "pip2sysdep/internal/types"

type OSInfoPort interface {
	Detect() types.DistroKey
}

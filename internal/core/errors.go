package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

const (
	msgNotFound       = "mapping document not found"
	msgUnknownCommand = "unknown command template"
	msgCyclicGroup    = "cyclic group reference"
)

// NotFoundError reports a mapping document that is absent, unreachable or
// unreadable. detail names the attempted locations.
func NotFoundError(detail string, cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("%s: %s", msgNotFound, detail))
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return builder
}

func unknownCommandError(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s: %q is not declared in [__meta__.commands]", msgUnknownCommand, name))
}

func cyclicGroupError(chain []string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%s: %s", msgCyclicGroup, strings.Join(chain, " -> ")))
}

// IsNotFound reports whether err means the mapping document could not be
// loaded.
func IsNotFound(err error) bool {
	return hasKind(err, errbuilder.CodeNotFound, msgNotFound)
}

// IsUnknownCommand reports whether err names an undeclared command template.
func IsUnknownCommand(err error) bool {
	return hasKind(err, errbuilder.CodeInvalidArgument, msgUnknownCommand)
}

// IsCyclicGroupReference reports whether err comes from a group that
// expands into itself.
func IsCyclicGroupReference(err error) bool {
	return hasKind(err, errbuilder.CodeFailedPrecondition, msgCyclicGroup)
}

func hasKind(err error, code errbuilder.ErrCode, prefix string) bool {
	if err == nil || errbuilder.CodeOf(err) != code {
		return false
	}
	var builder *errbuilder.ErrBuilder
	if !errors.As(err, &builder) {
		return false
	}
	return strings.HasPrefix(builder.Msg, prefix)
}

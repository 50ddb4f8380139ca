package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"pip2sysdep/internal/types"
)

// GroupExpander replaces group references in dependency lists with the
// literals they stand for.
//
// A token names a group when it is written as __name__, or when it is a bare
// name and __name__ is declared. Groups are looked up in __meta__ first and
// then at the document root. A token that names no list is kept as a
// literal, even when it is written as __name__.
type GroupExpander struct {
	doc *types.MappingDocument
}

func NewGroupExpander(doc *types.MappingDocument) GroupExpander {
	return GroupExpander{doc: doc}
}

// Expand returns tokens with every group reference spliced out, in order.
// A group that reaches itself again while it is still being expanded yields
// a cyclic group reference error.
func (e GroupExpander) Expand(ctx context.Context, tokens []string) ([]string, error) {
	state := expansion{
		doc:      e.doc,
		visiting: map[string]bool{},
	}
	out, err := state.expand(tokens)
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Debug().
		Int("tokens", len(tokens)).
		Int("expanded", len(out)).
		Msg("dependency list expanded")
	return out, nil
}

// expansion holds the in-progress groups of one top-level Expand call.
type expansion struct {
	doc      *types.MappingDocument
	visiting map[string]bool
	stack    []string
}

func (s *expansion) expand(tokens []string) ([]string, error) {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		name, body, ok := s.lookup(token)
		if !ok {
			out = append(out, token)
			continue
		}
		if s.visiting[name] {
			chain := append(append([]string(nil), s.stack...), name)
			return nil, cyclicGroupError(chain)
		}
		s.visiting[name] = true
		s.stack = append(s.stack, name)
		expanded, err := s.expand(body)
		if err != nil {
			return nil, err
		}
		s.stack = s.stack[:len(s.stack)-1]
		s.visiting[name] = false
		out = append(out, expanded...)
	}
	return out, nil
}

func (s *expansion) lookup(token string) (string, []string, bool) {
	if s.doc == nil || token == "" {
		return "", nil, false
	}
	name := token
	if !types.IsGroupReference(token) {
		name = types.GroupReference(token)
	}
	body, ok := s.doc.Group(name)
	if !ok {
		return "", nil, false
	}
	return name, body, true
}

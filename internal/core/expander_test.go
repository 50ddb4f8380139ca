package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pip2sysdep/internal/types"
)

func TestGroupExpanderExpand(t *testing.T) {
	doc := types.NewMappingDocument(
		types.MappingMeta{Groups: map[string][]string{
			"__dev__":   {"build-essential", "__build__"},
			"__build__": {"cmake"},
			"__empty__": {},
		}},
		nil,
		map[string][]string{"__legacy__": {"pkg-config"}},
	)
	expander := NewGroupExpander(doc)

	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{name: "literals unchanged", tokens: []string{"gcc", "make"}, want: []string{"gcc", "make"}},
		{name: "delimited reference", tokens: []string{"__dev__", "gcc"}, want: []string{"build-essential", "cmake", "gcc"}},
		{name: "bare name promoted", tokens: []string{"dev"}, want: []string{"build-essential", "cmake"}},
		{name: "root level group", tokens: []string{"__legacy__"}, want: []string{"pkg-config"}},
		{name: "unresolved reference stays literal", tokens: []string{"__missing__"}, want: []string{"__missing__"}},
		{name: "empty group", tokens: []string{"a", "__empty__", "b"}, want: []string{"a", "b"}},
		{name: "group reached twice is not a cycle", tokens: []string{"__build__", "__dev__"}, want: []string{"cmake", "build-essential", "cmake"}},
		{name: "bare delimiter is literal", tokens: []string{"____"}, want: []string{"____"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expander.Expand(t.Context(), tt.tokens)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected expansion (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGroupExpanderIdempotent(t *testing.T) {
	doc := types.NewMappingDocument(types.MappingMeta{Groups: map[string][]string{
		"__dev__":   {"python3-dev", "__build__"},
		"__build__": {"gcc"},
	}}, nil, nil)
	expander := NewGroupExpander(doc)

	once, err := expander.Expand(t.Context(), []string{"__dev__", "libffi-dev"})
	require.NoError(t, err)
	twice, err := expander.Expand(t.Context(), once)
	require.NoError(t, err)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("expansion not idempotent (-want +got):\n%s", diff)
	}
}

func TestGroupExpanderCycles(t *testing.T) {
	tests := []struct {
		name   string
		groups map[string][]string
		tokens []string
		chain  string
	}{
		{
			name:   "self reference",
			groups: map[string][]string{"__a__": {"x", "__a__"}},
			tokens: []string{"__a__"},
			chain:  "__a__ -> __a__",
		},
		{
			name:   "transitive",
			groups: map[string][]string{"__a__": {"__b__"}, "__b__": {"c"}, "__c__": {"__a__"}},
			tokens: []string{"a"},
			chain:  "__a__ -> __b__ -> __c__ -> __a__",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := types.NewMappingDocument(types.MappingMeta{Groups: tt.groups}, nil, nil)
			_, err := NewGroupExpander(doc).Expand(t.Context(), tt.tokens)
			require.Error(t, err)
			assert.True(t, IsCyclicGroupReference(err))
			assert.Contains(t, err.Error(), tt.chain)
		})
	}
}

func TestGroupExpanderNilDocument(t *testing.T) {
	got, err := NewGroupExpander(nil).Expand(t.Context(), []string{"__dev__", "gcc"})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"__dev__", "gcc"}, got); diff != "" {
		t.Fatalf("unexpected expansion (-want +got):\n%s", diff)
	}
}

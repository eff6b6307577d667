package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		line    string
		matches bool
	}{
		{"literal", Spec{Pattern: "a.b"}, "a.b", true},
		{"literal escapes dot", Spec{Pattern: "a.b"}, "axb", false},
		{"literal escapes brackets", Spec{Pattern: "[x]"}, "a [x] b", true},
		{"regex", Spec{Pattern: "a.b", Regex: true}, "axb", true},
		{"case sensitive", Spec{Pattern: "error"}, "ERROR", false},
		{"case insensitive", Spec{Pattern: "error", CaseInsensitive: true}, "ERROR", true},
		{"unanchored", Spec{Pattern: "^b", Regex: true}, "ab", false},
		{"substring", Spec{Pattern: "b"}, "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := Compile(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.matches, re.MatchString(tt.line))
		})
	}
}

func TestCompile_Failure(t *testing.T) {
	_, err := Compile(Spec{Pattern: "foo(", Regex: true})
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "foo(", ce.Pattern)
	assert.Contains(t, err.Error(), "invalid regex supplied")

	_, err = Compile(Spec{Pattern: "foo("})
	assert.NoError(t, err, "literal mode never fails")
}

func TestSearch_FailureKeepsSpec(t *testing.T) {
	s := New(Spec{Pattern: "ok", Regex: true})
	require.NotNil(t, s.Matcher())

	err := s.Set(Spec{Pattern: "bad[", Regex: true})
	require.Error(t, err)
	assert.Nil(t, s.Matcher())
	assert.False(t, s.Active())
	assert.Equal(t, "bad[", s.Spec().Pattern)
	assert.Error(t, s.Err())

	require.NoError(t, s.Set(Spec{Pattern: "bad\\[", Regex: true}))
	assert.True(t, s.Active())
	assert.NoError(t, s.Err())
}

func TestSearch_VersionTracksChanges(t *testing.T) {
	s := New(Spec{Pattern: "a"})
	v := s.Version()

	require.NoError(t, s.Set(Spec{Pattern: "a"}))
	assert.Equal(t, v, s.Version(), "identical spec must not recompile")

	require.NoError(t, s.Set(Spec{Pattern: "a", CaseInsensitive: true}))
	assert.Greater(t, s.Version(), v)
}

func TestSearch_EmptyIsInactive(t *testing.T) {
	s := New(Spec{})
	assert.Nil(t, s.Matcher())
	assert.NoError(t, s.Err())

	var nilSearch *Search
	assert.Nil(t, nilSearch.Matcher())
}

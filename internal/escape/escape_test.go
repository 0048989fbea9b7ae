package escape

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadDelimiters(t *testing.T) {
	for _, d := range []string{"", "@@", "ab", " "} {
		_, err := New(d)
		require.Error(t, err, "delimiter %q", d)
		assert.True(t, errors.Is(err, ErrDelimiter))
	}

	e, err := New("§")
	require.NoError(t, err)
	assert.Equal(t, '§', e.Delimiter())
}

func TestEscape(t *testing.T) {
	cases := []struct {
		word   string
		merged bool
		want   string
	}{
		{"split", true, "split@"},
		{"split", false, "split @"},
		{"a@b", true, "a@@b@"},
		{"@", false, "@@ @"},
		{"", true, "@"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Default.Escape(c.word, c.merged), "escape(%q, %v)", c.word, c.merged)
	}
}

func TestToCharList(t *testing.T) {
	got, err := Default.ToCharList("this@@is@")
	require.NoError(t, err)
	assert.Equal(t, []string{"t", "h", "i", "s", "@@", "i", "s", "@"}, got)

	got, err = Default.ToCharList("@")
	require.NoError(t, err)
	assert.Equal(t, []string{"@"}, got)

	got, err = Default.ToCharList("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Default.ToCharList(" ö@")
	require.NoError(t, err)
	assert.Equal(t, []string{" ", "ö", "@"}, got)
}

func TestToCharListIllegalEscape(t *testing.T) {
	_, err := Default.ToCharList("a@b@")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalEscape))
}

func TestUnescape(t *testing.T) {
	in := []string{"this", "@@", "is@"}
	got, err := Default.Unescape(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"this", "@", "is"}, got)
	assert.Equal(t, "is@", in[2], "input must not be modified")

	got, err = Default.Unescape([]string{"@"})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, got)
}

func TestUnescapeMissingMarker(t *testing.T) {
	for _, parts := range [][]string{nil, {""}, {"ab", "c"}} {
		_, err := Default.Unescape(parts)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingEndMarker))
	}
}

func TestRoundTrip(t *testing.T) {
	words := []string{"", "a", "@", "@@", "foo@bar", "tabs\there", "ünïcödé", "x@", "@y"}
	for _, w := range words {
		chars, err := Default.ToCharList(Default.Escape(w, true))
		require.NoError(t, err, w)

		back, err := Default.Unescape(chars)
		require.NoError(t, err, w)

		joined := ""
		for _, s := range back {
			joined += s
		}
		assert.Equal(t, w, joined)
	}
}

func TestCustomDelimiter(t *testing.T) {
	e, err := New("#")
	require.NoError(t, err)

	chars, err := e.ToCharList(e.Escape("a#b@", true))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "##", "b", "@", "#"}, chars)

	back, err := e.Unescape(chars)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "#", "b", "@", ""}, back)
}

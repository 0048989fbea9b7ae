package tokenizer

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subtok/internal/escape"
)

func TestBpeCacheRoundTrip(t *testing.T) {
	cache := Cache{
		"ab":            {"a", "b"},
		"\t\u00a0":      {"\t", "\u00a0"},
		"back\\slash@":  {"back\\", "slash@"},
		"line\nbreak@@": {"line\nbreak@@"},
	}

	path := filepath.Join(t.TempDir(), "cache.txt")
	require.NoError(t, DumpBpeCacheFile(path, cache))

	got, err := ReadBpeCacheFile(path)
	require.NoError(t, err)
	assert.Equal(t, cache, got)
}

func TestDumpBpeCacheFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DumpBpeCache(&buf, Cache{"wog@": {"wog@"}, "\t\u00a0": {"\t", "\u00a0"}}))
	assert.Equal(t, "\\t\\xa0\t\\t \\xa0\nwog@\twog@\n", buf.String())
}

func TestReadBpeCacheMalformed(t *testing.T) {
	for _, in := range []string{"no delimiter\n", "a\tb\tc\n", "ok\tfine\nbroken\n", "bad\\\tx\n"} {
		_, err := ReadBpeCache(strings.NewReader(in))
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrMalformedCache), in)
	}
}

func TestSubwordsCacheIsTransparent(t *testing.T) {
	vocab, merges := DoMerges(birdVocab(), 5)
	withCache := NewBpeData(merges, CreateBpeCache(vocab))
	withoutCache := NewBpeData(merges, nil)

	for _, w := range []string{"bird", "word", "wog", "words", "", "a@b", "@", "wo@g"} {
		a, err := withCache.Subwords(w)
		require.NoError(t, err, w)
		b, err := withoutCache.Subwords(w)
		require.NoError(t, err, w)
		assert.Equal(t, b, a, w)
	}
}

func TestSubwords(t *testing.T) {
	_, merges := DoMerges(birdVocab(), 10)
	data := NewBpeData(merges, nil)

	got, err := data.Subwords("wog")
	require.NoError(t, err)
	assert.Equal(t, []string{"wog"}, got)

	got, err = data.Subwords("birds")
	require.NoError(t, err)
	assert.Equal(t, []string{"bi", "rd", "s", ""}, got)

	got, err = data.Subwords("a@b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "@", "b", ""}, got)
}

func TestSubwordsUsesCache(t *testing.T) {
	data := NewBpeData(nil, Cache{"word@": {"wo", "rd@"}})
	got, err := data.Subwords("word")
	require.NoError(t, err)
	assert.Equal(t, []string{"wo", "rd"}, got)

	data.Cache["bad@"] = []string{"bad"}
	_, err = data.Subwords("bad")
	assert.True(t, errors.Is(err, escape.ErrMissingEndMarker))
}

func TestAddNonBPE(t *testing.T) {
	_, merges := DoMerges(birdVocab(), 10)
	data := NewBpeData(merges, nil)
	data.AddNonBPE([]string{"birdword", "<eos>", "a@"})

	for _, tok := range []string{"birdword", "<eos>", "a@"} {
		got, err := data.Subwords(tok)
		require.NoError(t, err)
		assert.Equal(t, []string{tok}, got)
	}
	assert.Equal(t, []string{"birdword@"}, data.Cache["birdword@"])
}

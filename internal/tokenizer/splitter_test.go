package tokenizer

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitters(t *testing.T) {
	_, merges := DoMerges(birdVocab(), 10)
	data := NewBpeData(merges, nil)

	cases := []struct {
		kind string
		word string
		want []string
	}{
		{"none", "birds", []string{"birds"}},
		{"char", "wög", []string{"w", "ö", "g"}},
		{"char", "", []string{}},
		{"bpe", "birds", []string{"bi", "rd", "s", ""}},
		{"bpe", "wog", []string{"wog"}},
	}
	for _, c := range cases {
		s, err := ParseSplitKind(c.kind)
		require.NoError(t, err)
		assert.Equal(t, SplitKind(c.kind), s.Kind())

		got, err := s.Split(c.word, data)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "%s(%q)", c.kind, c.word)
	}
}

func TestParseSplitKindUnknown(t *testing.T) {
	for _, name := range []string{"", "ronin", "stem"} {
		_, err := ParseSplitKind(name)
		assert.True(t, errors.Is(err, ErrUnknownSplitter), name)
	}
}

func TestBpeSplitNeedsData(t *testing.T) {
	_, err := BpeSplit{}.Split("word", nil)
	assert.Error(t, err)
}

package tokenizer

import (
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subtok/internal/escape"
)

func TestEncodeWordBoundaries(t *testing.T) {
	_, merges := DoMerges(birdVocab(), 10)
	for _, ml := range []*MergeList{nil, NewMergeList(0), merges} {
		got, err := EncodeWord("", ml)
		require.NoError(t, err)
		assert.Equal(t, []string{""}, got)

		got, err = EncodeWord("@", ml)
		require.NoError(t, err)
		assert.Equal(t, []string{"@"}, got)
	}
}

func TestEncodeWordMatchesLearnedVocab(t *testing.T) {
	for _, n := range []int{0, 1, 4, 6, 10} {
		vocab, merges := DoMerges(birdVocab(), n)
		vocab.Each(func(entry string, _ int) {
			symbols := strings.Split(entry, " ")
			got, err := EncodeWord(strings.Join(symbols, ""), merges)
			require.NoError(t, err)
			assert.Equal(t, symbols, got, "n=%d", n)
		})
	}
}

func TestEncodeWordUnseen(t *testing.T) {
	_, merges := DoMerges(birdVocab(), 10)

	got, err := EncodeWord("words@", merges)
	require.NoError(t, err)
	assert.Equal(t, []string{"wo", "rd", "s", "@"}, got)

	got, err = EncodeWord("bog", merges)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "o", "g"}, got)
}

func TestEncodeWordBatchesEqualPriority(t *testing.T) {
	merges := mergesOf(t, mg("a", "a", 0), mg("aa", "aa", 0), mg("e", "r", 0), mg("er", "@", 0))

	got, err := EncodeWord(strings.Repeat("a", 12)+"@", merges)
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaa", "aaaa", "aaaa", "@"}, got)

	got, err = EncodeWord("aaa", merges)
	require.NoError(t, err)
	assert.Equal(t, []string{"aa", "a"}, got)

	got, err = EncodeWord("erererer@", merges)
	require.NoError(t, err)
	assert.Equal(t, []string{"er", "er", "er", "er@"}, got)
}

func TestEncodeWordEscapedDelimiter(t *testing.T) {
	merges := mergesOf(t, mg("@@", "a", 0), mg("a", "@", 0))

	got, err := EncodeWord("@@a@", merges)
	require.NoError(t, err)
	assert.Equal(t, []string{"@@a", "@"}, got)
}

func TestEncodeWordIllegalEscape(t *testing.T) {
	_, err := EncodeWord("a@b@", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, escape.ErrIllegalEscape))
}

func TestEncodeWordLongInput(t *testing.T) {
	merges := mergesOf(t, mg("a", "b", 0), mg("ab", "ab", 0))
	word := strings.Repeat("ab", 3000) + "@"

	got, err := EncodeWord(word, merges)
	require.NoError(t, err)
	require.Len(t, got, 1501)
	assert.Equal(t, "abab", got[0])
	assert.Equal(t, "@", got[1500])
}

func TestEncodeWordDeterministic(t *testing.T) {
	_, merges := DoMerges(birdVocab(), 10)
	a, err := EncodeWord("wordbirdwog@", merges)
	require.NoError(t, err)
	b, err := EncodeWord("wordbirdwog@", merges)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncode(t *testing.T) {
	_, merges := DoMerges(birdVocab(), 10)
	out, err := Encode(vocabularyOf("bird@", 3, "birds@", 5), merges)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"bird@": 3, "bi rd s @": 5}, out.ToMap())

	_, err = Encode(vocabularyOf("x@y", 1), merges)
	assert.Error(t, err)
}

func TestEncodeProgressNeverMovesBack(t *testing.T) {
	p := newEncodeProgress(io.Discard, 10)
	p.advance(5)
	assert.EqualValues(t, 5, p.bar.State().CurrentNum)
	p.advance(2)
	assert.EqualValues(t, 5, p.bar.State().CurrentNum)
	p.advance(7)
	assert.EqualValues(t, 7, p.bar.State().CurrentNum)
	p.finish()
	assert.EqualValues(t, 10, p.bar.State().CurrentNum)

	var none *encodeProgress
	none.advance(3)
	none.finish()
}

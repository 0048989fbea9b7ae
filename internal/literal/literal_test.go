package literal

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	cases := map[string]string{
		"ab":         "ab",
		"\t\u00a0":   `\t\xa0`,
		"a b":        "a b",
		`back\slash`: `back\\slash`,
		"line\n\r":   `line\n\r`,
		"\x00\x7f":   `\x00\x7f`,
		"÷":          `\xf7`,
		"日本":         `\u65e5\u672c`,
		"🙂":          `\U0001f642`,
	}
	for in, want := range cases {
		assert.Equal(t, want, Encode(in), "encode %q", in)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	words := []string{"", "plain", "\t\n\r", " ", "x\\y", "日本語", "🙂 ok", "\x01\x1f", "@@ @"}
	for _, w := range words {
		got, err := Decode(Encode(w))
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}
}

func TestDecodeExtraEscapes(t *testing.T) {
	got, err := Decode(`\'\"\a\101\X`)
	require.NoError(t, err)
	assert.Equal(t, "'\"\aA\\X", got)

	got, err = Decode(`\ü`)
	require.NoError(t, err)
	assert.Equal(t, `\ü`, got)
}

func TestDecodeErrors(t *testing.T) {
	for _, in := range []string{`abc\`, `\x4`, `\u12`, `\xzz`, `\U7fffffff`, `\Uffffffff`} {
		_, err := Decode(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrBadEscape))
	}
}

package escape

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// DefaultDelimiter is the end-of-word marker used by merge and cache files.
const DefaultDelimiter = '@'

var (
	// ErrDelimiter is returned when an Escaper is built from anything other than a single rune.
	ErrDelimiter = errors.New("delimiter must be exactly one rune")
	// ErrMissingEndMarker is returned by Unescape when the last symbol does not carry the delimiter.
	ErrMissingEndMarker = errors.New("missing end-of-word marker")
	// ErrIllegalEscape is returned by ToCharList when the delimiter precedes a non-escapable rune.
	ErrIllegalEscape = errors.New("illegal escape sequence")
)

// Escaper converts raw words into symbol streams in which the delimiter is ordinary data.
// Invariants:
//   - delim is a single rune, doubled inside words and appended once as the end marker.
//   - escapable holds every rune that may follow a delimiter inside a word; today that is only delim.
type Escaper struct {
	delim     rune
	double    string
	escapable map[rune]struct{}
}

// Default is the Escaper used throughout the on-disk formats.
var Default = mustNew(string(DefaultDelimiter))

// New builds an Escaper for the given delimiter, which must hold exactly one rune.
func New(delimiter string) (*Escaper, error) {
	if utf8.RuneCountInString(delimiter) != 1 {
		return nil, errors.Wrapf(ErrDelimiter, "got %q", delimiter)
	}

	r, _ := utf8.DecodeRuneInString(delimiter)
	if r == utf8.RuneError || r == ' ' {
		return nil, errors.Wrapf(ErrDelimiter, "%q cannot be used as a delimiter", delimiter)
	}

	return &Escaper{
		delim:     r,
		double:    delimiter + delimiter,
		escapable: map[rune]struct{}{r: {}},
	}, nil
}

func mustNew(delimiter string) *Escaper {
	e, err := New(delimiter)
	if err != nil {
		panic(err)
	}
	return e
}

// Delimiter returns the reserved rune.
func (e *Escaper) Delimiter() rune {
	return e.delim
}

// Escape doubles every delimiter in word and appends the end marker. With merged set the
// marker is glued to the word, otherwise it is separated by a space so it becomes its own symbol.
func (e *Escaper) Escape(word string, merged bool) string {
	word = strings.ReplaceAll(word, string(e.delim), e.double)
	if merged {
		return word + string(e.delim)
	}
	return word + " " + string(e.delim)
}

// Unescape strips the end marker from the last symbol and un-doubles delimiters in every symbol.
// The input slice is not modified.
func (e *Escaper) Unescape(parts []string) ([]string, error) {
	if len(parts) == 0 {
		return nil, errors.Wrap(ErrMissingEndMarker, "no symbols")
	}

	last := parts[len(parts)-1]
	r, size := utf8.DecodeLastRuneInString(last)
	if size == 0 || r != e.delim {
		return nil, errors.Wrapf(ErrMissingEndMarker, "expected %q at the end of %q", e.delim, parts)
	}

	out := make([]string, len(parts))
	copy(out, parts)
	out[len(out)-1] = last[:len(last)-size]
	for i, p := range out {
		out[i] = strings.ReplaceAll(p, e.double, string(e.delim))
	}
	return out, nil
}

// ToCharList splits an escaped word into its atomic symbols: a delimiter followed by an escapable
// rune forms one two-rune symbol, every other rune is a symbol of its own. A delimiter in the last
// position is the end marker and stands alone.
func (e *Escaper) ToCharList(word string) ([]string, error) {
	res := make([]string, 0, len(word))
	for i := 0; i < len(word); {
		r, size := utf8.DecodeRuneInString(word[i:])
		if r != e.delim || i+size == len(word) {
			res = append(res, word[i:i+size])
			i += size
			continue
		}

		next, nsize := utf8.DecodeRuneInString(word[i+size:])
		if _, ok := e.escapable[next]; !ok {
			return nil, errors.Wrapf(ErrIllegalEscape, "%q in %q", word[i:i+size+nsize], word)
		}
		res = append(res, word[i:i+size+nsize])
		i += size + nsize
	}
	return res, nil
}

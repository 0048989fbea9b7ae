package tokenizer

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/v2/maps/linkedhashmap"
	"github.com/pkg/errors"
	"github.com/subtok/internal/escape"
	"github.com/subtok/internal/literal"
)

// ErrMalformedVocab is returned for vocabulary lines that are not "word<TAB>freq".
var ErrMalformedVocab = errors.New("malformed vocabulary entry")

const vocabDelim = "\t"

// Vocabulary maps a word to its frequency and remembers insertion order. During learning the
// keys are words in their space-joined symbol form, e.g. "w o r d @".
type Vocabulary struct {
	m *linkedhashmap.Map[string, int]
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{m: linkedhashmap.New[string, int]()}
}

// Put sets the frequency of word. An existing word keeps its position.
func (v *Vocabulary) Put(word string, freq int) {
	v.m.Put(word, freq)
}

// Add increases the frequency of word by freq.
func (v *Vocabulary) Add(word string, freq int) {
	old, _ := v.m.Get(word)
	v.m.Put(word, old+freq)
}

// Get returns the frequency of word.
func (v *Vocabulary) Get(word string) (int, bool) {
	return v.m.Get(word)
}

// Len returns the number of distinct words.
func (v *Vocabulary) Len() int {
	return v.m.Size()
}

// Words returns the words in insertion order.
func (v *Vocabulary) Words() []string {
	return v.m.Keys()
}

// Each calls f for every entry in insertion order.
func (v *Vocabulary) Each(f func(word string, freq int)) {
	v.m.Each(f)
}

// ToMap returns the entries as a plain map.
func (v *Vocabulary) ToMap() map[string]int {
	out := make(map[string]int, v.Len())
	v.Each(func(w string, f int) { out[w] = f })
	return out
}

func (v *Vocabulary) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	v.Each(func(w string, f int) {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "'%s': %d", w, f)
	})
	sb.WriteByte('}')
	return sb.String()
}

// SplitVocab turns raw words into the learner's input: every word is escaped in merged form and
// split into its atomic symbols, joined by spaces. Words that collapse onto the same form add up.
func SplitVocab(words *Vocabulary, esc *escape.Escaper) (*Vocabulary, error) {
	out := NewVocabulary()
	var err error
	words.Each(func(w string, f int) {
		if err != nil {
			return
		}
		var chars []string
		chars, err = esc.ToCharList(esc.Escape(w, true))
		if err == nil {
			out.Add(strings.Join(chars, " "), f)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBpeCache builds cache entries from a learned vocabulary: the word with its symbols
// glued together maps to the symbols.
func CreateBpeCache(vocab *Vocabulary) Cache {
	cache := make(Cache, vocab.Len())
	vocab.Each(func(entry string, _ int) {
		subwords := strings.Split(entry, " ")
		cache[strings.Join(subwords, "")] = subwords
	})
	return cache
}

// CreateResultingVocab sums word frequencies per subword.
func CreateResultingVocab(vocab *Vocabulary) *Vocabulary {
	out := NewVocabulary()
	vocab.Each(func(entry string, f int) {
		for _, s := range strings.Split(entry, " ") {
			out.Add(s, f)
		}
	})
	return out
}

// SeparateVocabs splits all into the words not in exclude and the words in it.
func SeparateVocabs(all *Vocabulary, exclude map[string]struct{}) (kept, excluded *Vocabulary) {
	kept, excluded = NewVocabulary(), NewVocabulary()
	all.Each(func(w string, f int) {
		if _, ok := exclude[w]; ok {
			excluded.Put(w, f)
		} else {
			kept.Put(w, f)
		}
	})
	return kept, excluded
}

// ReadVocab parses "literal(word)<TAB>freq" lines.
func ReadVocab(r io.Reader) (*Vocabulary, error) {
	v := NewVocabulary()
	sc := newLineScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		key, value, ok := strings.Cut(line, vocabDelim)
		if !ok {
			return nil, errors.Wrapf(ErrMalformedVocab, "line %d: missing delimiter in %q", n, line)
		}
		freq, err := strconv.Atoi(value)
		if err != nil || freq < 0 {
			return nil, errors.Wrapf(ErrMalformedVocab, "line %d: bad frequency %q", n, value)
		}
		word, err := literal.Decode(key)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedVocab, "line %d: %v", n, err)
		}
		v.Put(word, freq)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "error while reading vocabulary")
	}
	return v, nil
}

// ReadVocabFile reads a vocabulary from path, see ReadVocab.
func ReadVocabFile(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error while opening vocabulary file")
	}
	defer f.Close()

	v, err := ReadVocab(f)
	return v, errors.WithMessagef(err, "vocabulary file %s", path)
}

// DumpVocab writes one "literal(word)<TAB>freq" line per entry.
func DumpVocab(w io.Writer, v *Vocabulary) error {
	var err error
	v.Each(func(word string, f int) {
		if err == nil {
			_, err = fmt.Fprintf(w, "%s%s%d\n", literal.Encode(word), vocabDelim, f)
		}
	})
	return errors.Wrap(err, "error while writing vocabulary")
}

// DumpVocabFile writes v to path, replacing any existing file.
func DumpVocabFile(path string, v *Vocabulary) error {
	return writeFile(path, func(w io.Writer) error { return DumpVocab(w, v) })
}

// ReadTokenSet reads one literal token per line, as used by non-bpe vocabulary files.
// Order of first appearance is preserved.
func ReadTokenSet(r io.Reader) ([]string, error) {
	var tokens []string
	seen := make(map[string]struct{})
	sc := newLineScanner(r)
	for n := 1; sc.Scan(); n++ {
		tok, err := literal.Decode(sc.Text())
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedVocab, "line %d: %v", n, err)
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens, errors.Wrap(sc.Err(), "error while reading token set")
}

// ReadTokenSetFile reads a token set from path, see ReadTokenSet.
func ReadTokenSetFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error while opening token set file")
	}
	defer f.Close()

	tokens, err := ReadTokenSet(f)
	return tokens, errors.WithMessagef(err, "token set file %s", path)
}

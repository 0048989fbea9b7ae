package tokenizer

import (
	"io"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/subtok/internal/escape"
	"k8s.io/klog/v2"
)

// longWordSymbols is the symbol count above which encoding reports progress.
const longWordSymbols = 5000

// EncodeWord splits an escaped word (see escape.Escaper.Escape with merged set) into subwords
// by applying merges in priority order. Each round finds the lowest priority among the adjacent
// pairs and merges all of its non-overlapping occurrences at once, leftmost first. The result
// is still escaped. The empty word encodes to a single empty subword.
func EncodeWord(word string, merges *MergeList) ([]string, error) {
	return encodeWord(word, merges, escape.Default)
}

func encodeWord(word string, merges *MergeList, esc *escape.Escaper) ([]string, error) {
	symbols, err := esc.ToCharList(word)
	if err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		return []string{""}, nil
	}

	var progress *encodeProgress
	if len(symbols) > longWordSymbols {
		klog.Warningf("encountered a word of %d symbols, encoding it will take a while", len(symbols))
		progress = newEncodeProgress(os.Stderr, merges.Len())
	}

	prios := make([]int, len(symbols))
	for {
		best := -1
		prios = prios[:len(symbols)-1]
		for i := range prios {
			p, ok := merges.Priority(Pair{Left: symbols[i], Right: symbols[i+1]})
			if !ok {
				p = -1
			} else if best < 0 || p < best {
				best = p
			}
			prios[i] = p
		}
		if best < 0 {
			break
		}

		next := make([]string, 0, len(symbols))
		for i := 0; i < len(symbols); {
			if i < len(prios) && prios[i] == best {
				next = append(next, symbols[i]+symbols[i+1])
				i += 2
				continue
			}
			next = append(next, symbols[i])
			i++
		}
		symbols = next
		progress.advance(best)
	}
	progress.finish()
	return symbols, nil
}

// encodeProgress reports how far through the merge list a long word got. A nil *encodeProgress
// does nothing.
type encodeProgress struct {
	bar     *progressbar.ProgressBar
	total   int
	applied int
}

func newEncodeProgress(w io.Writer, total int) *encodeProgress {
	return &encodeProgress{
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("encoding"),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
		),
		total: total,
	}
}

// advance moves the bar to priority. A merge can rebuild a symbol an earlier priority already
// covers, so priorities are not monotonic and the bar never moves back.
func (p *encodeProgress) advance(priority int) {
	if p == nil || priority <= p.applied {
		return
	}
	_ = p.bar.Add(priority - p.applied)
	p.applied = priority
}

func (p *encodeProgress) finish() {
	if p == nil {
		return
	}
	p.advance(p.total)
	_ = p.bar.Finish()
}

// Encode applies EncodeWord to every word of words and returns the space-joined encodings with
// the frequency of the word they came from.
func Encode(words *Vocabulary, merges *MergeList) (*Vocabulary, error) {
	out := NewVocabulary()
	var err error
	words.Each(func(w string, f int) {
		if err != nil {
			return
		}
		var subwords []string
		if subwords, err = EncodeWord(w, merges); err == nil {
			out.Put(strings.Join(subwords, " "), f)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

package tokenizer

import (
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
	"github.com/schollz/progressbar/v3"
	"github.com/subtok/internal/utils"
	"k8s.io/klog/v2"
)

// LearnOption configures DoMerges.
type LearnOption func(*learnConfig)

type learnConfig struct {
	progress io.Writer
}

// WithProgress renders a progress bar over the requested number of merges to w.
func WithProgress(w io.Writer) LearnOption {
	return func(c *learnConfig) { c.progress = w }
}

// learnWord is one vocabulary entry split into its current symbols.
type learnWord struct {
	symbols []string
	freq    int
}

type pairDelta struct {
	pair  Pair
	delta int
}

// learner holds the state of one training run. It only lives inside DoMerges.
type learner struct {
	words []learnWord
	stats *utils.PairStats
	// where[p] holds indices of words that contained p at some point. Entries may be stale.
	where  map[Pair]map[int]struct{}
	deltas []pairDelta
}

func newLearner(vocab *Vocabulary) *learner {
	l := &learner{
		words: make([]learnWord, 0, vocab.Len()),
		where: make(map[Pair]map[int]struct{}),
	}

	var order []Pair
	counts := make(map[Pair]int)
	vocab.Each(func(entry string, freq int) {
		wi := len(l.words)
		symbols := strings.Split(entry, " ")
		l.words = append(l.words, learnWord{symbols: symbols, freq: freq})
		for i := 0; i+1 < len(symbols); i++ {
			p := Pair{Left: symbols[i], Right: symbols[i+1]}
			if _, ok := counts[p]; !ok {
				order = append(order, p)
			}
			counts[p] += freq
			l.index(p, wi)
		}
	})
	l.stats = utils.BuildPairStats(order, counts)
	return l
}

func (l *learner) index(p Pair, wi int) {
	set, ok := l.where[p]
	if !ok {
		set = make(map[int]struct{})
		l.where[p] = set
	}
	set[wi] = struct{}{}
}

// emit records a count change of p caused by word wi. Every pair a word gains is indexed, even
// for words of frequency zero, so later rounds still rewrite them.
func (l *learner) emit(p Pair, delta, wi int) {
	if delta >= 0 {
		l.index(p, wi)
	}
	if delta != 0 {
		l.deltas = append(l.deltas, pairDelta{pair: p, delta: delta})
	}
}

// mergeWord replaces every non-overlapping occurrence of best in word wi, left to right, and
// records the pair count changes each replacement causes.
func (l *learner) mergeWord(wi int, best Pair, merged string) {
	w := &l.words[wi]
	syms := w.symbols
	out := make([]string, 0, len(syms))
	for i := 0; i < len(syms); {
		if i+1 >= len(syms) || syms[i] != best.Left || syms[i+1] != best.Right {
			out = append(out, syms[i])
			i++
			continue
		}

		if len(out) > 0 {
			pred := out[len(out)-1]
			l.emit(Pair{Left: pred, Right: merged}, w.freq, wi)
			if broken := (Pair{Left: pred, Right: best.Left}); broken != best {
				l.emit(broken, -w.freq, wi)
			}
		}
		if i+2 < len(syms) {
			succ := syms[i+2]
			l.emit(Pair{Left: merged, Right: succ}, w.freq, wi)
			if broken := (Pair{Left: best.Right, Right: succ}); broken != best {
				l.emit(broken, -w.freq, wi)
			}
		}
		out = append(out, merged)
		i += 2
	}
	w.symbols = out
}

func (l *learner) vocabulary() *Vocabulary {
	v := NewVocabulary()
	for _, w := range l.words {
		v.Add(strings.Join(w.symbols, " "), w.freq)
	}
	return v
}

// DoMerges learns up to nMerges merges from vocab, whose keys are words as space-separated
// symbols (see SplitVocab). It returns the vocabulary rewritten with every learned merge applied
// and the merges in the order they were learned. Fewer merges are returned when no adjacent pair
// is left. vocab itself is not modified.
//
// Each round takes the pair with the highest count from the pair index; ties go to the pair whose
// count was set least recently. Only the words that may contain the pair are rewritten, in
// vocabulary order, and the pair index is updated with the resulting deltas.
func DoMerges(vocab *Vocabulary, nMerges int, opts ...LearnOption) (*Vocabulary, *MergeList) {
	var cfg learnConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	l := newLearner(vocab)
	// nMerges is only an upper bound, the pairs seen up front are a better size hint.
	merges := NewMergeList(min(max(nMerges, 0), l.stats.Len()))

	var bar *progressbar.ProgressBar
	if cfg.progress != nil && nMerges > 0 {
		bar = progressbar.NewOptions(nMerges,
			progressbar.OptionSetWriter(cfg.progress),
			progressbar.OptionSetDescription("learning merges"),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
			progressbar.OptionShowCount(),
		)
	}

	for merges.Len() < nMerges {
		best, freq, ok := l.stats.Pop()
		if !ok {
			klog.V(1).Infof("no more pairs to merge after %d merges", merges.Len())
			break
		}
		merged := best.Left + best.Right

		// A merged symbol can spell an older one, so a learned pair may come back. It is applied
		// to the words again but not relearned.
		if !merges.Contains(best) {
			m := must.M1(merges.Push(best, freq))
			klog.V(2).Infof("merge %s", m)
			if bar != nil {
				_ = bar.Add(1)
			}
		}

		candidates := slices.Sorted(maps.Keys(l.where[best]))
		delete(l.where, best)

		l.deltas = l.deltas[:0]
		for _, wi := range candidates {
			l.mergeWord(wi, best, merged)
		}
		for _, d := range l.deltas {
			l.stats.Add(d.pair, d.delta)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	klog.V(1).Infof("learned %s merges from %s words", humanize.Comma(int64(merges.Len())), humanize.Comma(int64(len(l.words))))
	return l.vocabulary(), merges
}

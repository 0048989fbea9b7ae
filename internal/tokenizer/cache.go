package tokenizer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/subtok/internal/escape"
	"github.com/subtok/internal/literal"
	"k8s.io/klog/v2"
)

// ErrMalformedCache is returned for cache lines that are not "key<TAB>subwords".
var ErrMalformedCache = errors.New("malformed cache entry")

const (
	cacheKeyDelim   = "\t"
	cacheValueDelim = " "
)

// Cache maps an escaped, merged word to its escaped subwords. It is filled offline and is
// read only while encoding: misses are encoded but never written back.
type Cache map[string][]string

// ReadBpeCache parses a cache file.
func ReadBpeCache(r io.Reader) (Cache, error) {
	cache := make(Cache)
	sc := newLineScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		key, value, ok := strings.Cut(line, cacheKeyDelim)
		if !ok || strings.Contains(value, cacheKeyDelim) {
			return nil, errors.Wrapf(ErrMalformedCache, "line %d: %q", n, line)
		}

		word, err := literal.Decode(key)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedCache, "line %d: %v", n, err)
		}
		joined, err := literal.Decode(value)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedCache, "line %d: %v", n, err)
		}
		cache[word] = strings.Split(joined, cacheValueDelim)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "error while reading cache")
	}
	return cache, nil
}

// ReadBpeCacheFile reads a cache from path, see ReadBpeCache.
func ReadBpeCacheFile(path string) (Cache, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error while opening cache file")
	}
	defer f.Close()

	cache, err := ReadBpeCache(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "cache file %s", path)
	}
	klog.V(1).Infof("loaded %s cache entries from %s", humanize.Comma(int64(len(cache))), path)
	return cache, nil
}

// DumpBpeCache writes the cache sorted by key so the output is reproducible.
func DumpBpeCache(w io.Writer, cache Cache) error {
	keys := make([]string, 0, len(cache))
	for k := range cache {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	bw := bufio.NewWriter(w)
	for _, k := range keys {
		value := literal.Encode(strings.Join(cache[k], cacheValueDelim))
		if _, err := fmt.Fprintf(bw, "%s%s%s\n", literal.Encode(k), cacheKeyDelim, value); err != nil {
			return errors.Wrap(err, "error while writing cache")
		}
	}
	return errors.Wrap(bw.Flush(), "error while writing cache")
}

// DumpBpeCacheFile writes the cache to path, replacing any existing file.
func DumpBpeCacheFile(path string, cache Cache) error {
	return writeFile(path, func(w io.Writer) error { return DumpBpeCache(w, cache) })
}

// BpeData bundles what encoding needs: the merges and an optional cache. It is built once by
// the caller and passed to every encode call; after construction it must not be modified, and
// then it is safe for concurrent use.
type BpeData struct {
	Merges *MergeList
	Cache  Cache

	esc *escape.Escaper
}

// NewBpeData returns a BpeData using the default escaper. A nil cache is allowed.
func NewBpeData(merges *MergeList, cache Cache) *BpeData {
	if cache == nil {
		cache = make(Cache)
	}
	return &BpeData{Merges: merges, Cache: cache, esc: escape.Default}
}

// Escaper returns the escaper used for cache keys and encoding.
func (d *BpeData) Escaper() *escape.Escaper {
	if d.esc == nil {
		return escape.Default
	}
	return d.esc
}

// AddNonBPE registers tokens that must never be split. Each one becomes a cache entry mapping
// its escaped form to itself.
func (d *BpeData) AddNonBPE(tokens []string) {
	if d.Cache == nil {
		d.Cache = make(Cache)
	}
	esc := d.Escaper()
	for _, t := range tokens {
		key := esc.Escape(t, true)
		d.Cache[key] = []string{key}
	}
}

// Subwords splits a raw word into unescaped subwords, using the cache when the word is in it
// and encoding it with the merges otherwise. The result does not depend on the cache content
// as long as the cache was built from the same merges.
func (d *BpeData) Subwords(word string) ([]string, error) {
	esc := d.Escaper()
	key := esc.Escape(word, true)

	subwords, ok := d.Cache[key]
	if !ok {
		var err error
		if subwords, err = encodeWord(key, d.Merges, esc); err != nil {
			return nil, errors.WithMessagef(err, "encode %q", word)
		}
	}
	return esc.Unescape(subwords)
}

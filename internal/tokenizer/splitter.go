package tokenizer

import (
	"github.com/pkg/errors"
)

// SplitKind names a word splitting strategy.
type SplitKind string

const (
	SplitNone SplitKind = "none"
	SplitChar SplitKind = "char"
	SplitBpe  SplitKind = "bpe"
)

// ErrUnknownSplitter is returned by ParseSplitKind for names outside the supported set.
var ErrUnknownSplitter = errors.New("unknown splitter")

// Splitter turns one word into subwords.
type Splitter interface {
	Kind() SplitKind
	Split(word string, data *BpeData) ([]string, error)
}

// NoSplit keeps the word whole.
type NoSplit struct{}

func (NoSplit) Kind() SplitKind { return SplitNone }

func (NoSplit) Split(word string, _ *BpeData) ([]string, error) {
	return []string{word}, nil
}

// CharSplit emits one subword per rune.
type CharSplit struct{}

func (CharSplit) Kind() SplitKind { return SplitChar }

func (CharSplit) Split(word string, _ *BpeData) ([]string, error) {
	out := make([]string, 0, len(word))
	for _, r := range word {
		out = append(out, string(r))
	}
	return out, nil
}

// BpeSplit encodes the word with the merges in data.
type BpeSplit struct{}

func (BpeSplit) Kind() SplitKind { return SplitBpe }

func (BpeSplit) Split(word string, data *BpeData) ([]string, error) {
	if data == nil {
		return nil, errors.New("bpe splitting needs bpe data")
	}
	return data.Subwords(word)
}

// ParseSplitKind returns the splitter registered under name.
func ParseSplitKind(name string) (Splitter, error) {
	switch SplitKind(name) {
	case SplitNone:
		return NoSplit{}, nil
	case SplitChar:
		return CharSplit{}, nil
	case SplitBpe:
		return BpeSplit{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownSplitter, "%q", name)
}

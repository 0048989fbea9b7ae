// Package subtok learns byte pair encoding merges from a word frequency table and splits words
// into subwords with them.
package subtok

import (
	"github.com/subtok/internal/escape"
	"github.com/subtok/internal/tokenizer"
)

// Encoder interface
type Encoder interface {
	/*
		Subwords splits one raw word into subwords. Concatenating them gives the word back; the
		last one is empty when the end of word marker was not merged into a longer subword.
		Implementations are safe for concurrent use.
	*/
	Subwords(word string) ([]string, error)
}

type (
	Vocabulary = tokenizer.Vocabulary
	Merge      = tokenizer.Merge
	MergeList  = tokenizer.MergeList
	Cache      = tokenizer.Cache
	BpeFiles   = tokenizer.BpeFiles
)

// NewVocabulary returns an empty insertion ordered word frequency table.
func NewVocabulary() *Vocabulary {
	return tokenizer.NewVocabulary()
}

// Learn splits raw words into symbols and learns up to nMerges merges from them. It returns the
// learned words as space separated subwords along with the merges.
func Learn(words *Vocabulary, nMerges int) (*Vocabulary, *MergeList, error) {
	split, err := tokenizer.SplitVocab(words, escape.Default)
	if err != nil {
		return nil, nil, err
	}
	learned, merges := tokenizer.DoMerges(split, nMerges)
	return learned, merges, nil
}

// EncodeWord applies merges to an escaped word, see tokenizer.EncodeWord.
func EncodeWord(word string, merges *MergeList) ([]string, error) {
	return tokenizer.EncodeWord(word, merges)
}

// NewEncoder returns an Encoder over merges, consulting cache first. The cache may be nil.
func NewEncoder(merges *MergeList, cache Cache) Encoder {
	return tokenizer.NewBpeData(merges, cache)
}

// LoadEncoder reads merges, cache and non-bpe tokens from files.
func LoadEncoder(files BpeFiles) (Encoder, error) {
	return tokenizer.LoadBpeData(files)
}

package main

import (
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/subtok/internal/escape"
	"github.com/subtok/internal/tokenizer"
	"k8s.io/klog/v2"
)

func LearnHandler(cmd *cobra.Command, args []string) error {
	vocabPath, err := fileFlag(cmd, "vocab")
	if err != nil {
		return err
	}
	excludePath, err := fileFlag(cmd, "exclude")
	if err != nil {
		return err
	}
	mergesPath, _ := cmd.Flags().GetString("merges")
	cachePath, _ := cmd.Flags().GetString("cache")
	subwordVocabPath, _ := cmd.Flags().GetString("subword-vocab")
	n, _ := cmd.Flags().GetInt("n")
	progress, _ := cmd.Flags().GetBool("progress")

	if mergesPath == "" {
		return errors.New("no output merges file given, use --merges or SUBTOK_MERGES")
	}
	if n < 0 {
		return errors.Errorf("number of merges must not be negative, got %d", n)
	}

	words, err := tokenizer.ReadVocabFile(vocabPath)
	if err != nil {
		return err
	}

	if excludePath != "" {
		tokens, err := tokenizer.ReadTokenSetFile(excludePath)
		if err != nil {
			return err
		}
		exclude := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			exclude[t] = struct{}{}
		}
		var excluded *tokenizer.Vocabulary
		words, excluded = tokenizer.SeparateVocabs(words, exclude)
		klog.Infof("excluded %d of %d listed tokens from learning", excluded.Len(), len(tokens))
	}

	split, err := tokenizer.SplitVocab(words, escape.Default)
	if err != nil {
		return err
	}
	klog.Infof("learning %s merges from %s words", humanize.Comma(int64(n)), humanize.Comma(int64(split.Len())))

	var opts []tokenizer.LearnOption
	if progress {
		opts = append(opts, tokenizer.WithProgress(cmd.ErrOrStderr()))
	}
	learned, merges := tokenizer.DoMerges(split, n, opts...)
	if merges.Len() < n {
		klog.Warningf("only %d merges could be learned, every word is a single symbol", merges.Len())
	}

	if err := tokenizer.DumpMergesFile(mergesPath, merges); err != nil {
		return err
	}
	klog.Infof("merges written to %s", mergesPath)

	if cachePath != "" {
		if err := tokenizer.DumpBpeCacheFile(cachePath, tokenizer.CreateBpeCache(learned)); err != nil {
			return err
		}
		klog.Infof("cache written to %s", cachePath)
	}

	if subwordVocabPath != "" {
		if err := tokenizer.DumpVocabFile(subwordVocabPath, tokenizer.CreateResultingVocab(learned)); err != nil {
			return err
		}
		klog.Infof("subword vocabulary written to %s", subwordVocabPath)
	}
	return nil
}

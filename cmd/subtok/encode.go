package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/subtok/internal/literal"
	"github.com/subtok/internal/tokenizer"
	"golang.org/x/sync/errgroup"
)

func EncodeHandler(cmd *cobra.Command, args []string) error {
	splitName, _ := cmd.Flags().GetString("split")
	splitter, err := tokenizer.ParseSplitKind(splitName)
	if err != nil {
		return err
	}

	var data *tokenizer.BpeData
	if splitter.Kind() == tokenizer.SplitBpe {
		if data, err = loadBpeData(cmd); err != nil {
			return err
		}
	}

	words := args
	if len(words) == 0 {
		if words, err = readWords(cmd); err != nil {
			return err
		}
	}

	parallel, _ := cmd.Flags().GetInt("parallel")
	if parallel <= 0 {
		parallel = 1
	}

	results := make([][]string, len(words))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(parallel)
	for i, w := range words {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			subwords, err := splitter.Split(w, data)
			if err != nil {
				return err
			}
			results[i] = subwords
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	for i, w := range words {
		encoded := make([]string, len(results[i]))
		for j, s := range results[i] {
			encoded[j] = literal.Encode(s)
		}
		fmt.Fprintf(out, "%s\t%s\n", literal.Encode(w), strings.Join(encoded, " "))
	}
	return out.Flush()
}

func loadBpeData(cmd *cobra.Command) (*tokenizer.BpeData, error) {
	var files tokenizer.BpeFiles
	var err error
	if files.Merges, err = fileFlag(cmd, "merges"); err != nil {
		return nil, err
	}
	if files.Merges == "" {
		return nil, errors.New("no merges file given, use --merges or SUBTOK_MERGES")
	}
	if files.Cache, err = fileFlag(cmd, "cache"); err != nil {
		return nil, err
	}
	if files.NonBPE, err = fileFlag(cmd, "nonbpe"); err != nil {
		return nil, err
	}
	files.MaxMerges, _ = cmd.Flags().GetInt("max-merges")
	if files.MaxMerges < 0 {
		return nil, errors.Errorf("max merges must not be negative, got %d", files.MaxMerges)
	}
	return tokenizer.LoadBpeData(files)
}

// readWords returns the whitespace separated words of stdin in order.
func readWords(cmd *cobra.Command) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(cmd.InOrStdin())
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for sc.Scan() {
		words = append(words, strings.Fields(sc.Text())...)
	}
	return words, errors.Wrap(sc.Err(), "error while reading words")
}

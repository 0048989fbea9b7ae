package main

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/subtok/internal/literal"
	"github.com/subtok/internal/tokenizer"
)

func MergesShowHandler(cmd *cobra.Command, args []string) error {
	path, err := fileFlag(cmd, "merges")
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New("no merges file given, use --merges or SUBTOK_MERGES")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		limit = 0
	}

	merges, err := tokenizer.ReadMergesFile(path, limit)
	if err != nil {
		return err
	}

	var data [][]string
	for i := 0; i < merges.Len(); i++ {
		m := merges.At(i)
		data = append(data, []string{
			strconv.Itoa(m.Priority),
			literal.Encode(m.Left),
			literal.Encode(m.Right),
			literal.Encode(m.Merged()),
			humanize.Comma(int64(m.Freq)),
		})
	}

	table := newTable(cmd)
	table.SetHeader([]string{"PRIORITY", "LEFT", "RIGHT", "MERGED", "FREQUENCY"})
	table.AppendBulk(data)
	table.Render()
	return nil
}

package main

import (
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/subtok/internal/envconfig"
	"github.com/subtok/internal/tokenizer"
	"k8s.io/klog/v2"
)

func NewCLI() *cobra.Command {
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)

	rootCmd := &cobra.Command{
		Use:   "subtok",
		Short: "Learn and apply byte pair encoding merges",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Disable usage printing on errors
			cmd.SilenceUsage = true

			if envconfig.Debug && !cmd.Flags().Changed("v") {
				if err := klogFlags.Set("v", "1"); err != nil {
					return err
				}
			}
			klog.V(1).Infof("subtok config %v", envconfig.Values())
			return nil
		},
	}
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)

	learnCmd := &cobra.Command{
		Use:   "learn",
		Short: "Learn merges from a vocabulary file",
		Args:  cobra.NoArgs,
		RunE:  LearnHandler,
	}
	learnCmd.Flags().String("vocab", "", "Vocabulary file, one \"word<TAB>frequency\" per line")
	learnCmd.Flags().String("merges", envconfig.Merges, "Where to write the merges")
	learnCmd.Flags().String("cache", envconfig.Cache, "Where to write the cache of learned words")
	learnCmd.Flags().String("subword-vocab", "", "Where to write the resulting subword vocabulary")
	learnCmd.Flags().String("exclude", "", "File of tokens to leave out of learning, one per line")
	learnCmd.Flags().Int("n", 10000, "Number of merges to learn")
	learnCmd.Flags().Bool("progress", true, "Show a progress bar on stderr")
	_ = learnCmd.MarkFlagRequired("vocab")

	encodeCmd := &cobra.Command{
		Use:   "encode [WORD...]",
		Short: "Split words into subwords, reading stdin when no word is given",
		RunE:  EncodeHandler,
	}
	encodeCmd.Flags().String("merges", envconfig.Merges, "Merges file")
	encodeCmd.Flags().String("cache", envconfig.Cache, "Cache file")
	encodeCmd.Flags().String("nonbpe", envconfig.NonBPE, "File of tokens that are never split")
	encodeCmd.Flags().Int("max-merges", envconfig.MaxMerges, "Only use the first N merges (0 for all)")
	encodeCmd.Flags().String("split", string(tokenizer.SplitBpe), "Splitting strategy: none, char or bpe")
	encodeCmd.Flags().Int("parallel", envconfig.NumParallel, "Maximum number of words encoded at once")

	mergesCmd := &cobra.Command{
		Use:   "merges",
		Short: "Inspect merge files",
	}

	mergesShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print merges as a table",
		Args:  cobra.NoArgs,
		RunE:  MergesShowHandler,
	}
	mergesShowCmd.Flags().String("merges", envconfig.Merges, "Merges file")
	mergesShowCmd.Flags().Int("limit", 20, "Number of merges to show (0 for all)")
	mergesCmd.AddCommand(mergesShowCmd)

	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Show the environment configuration",
		Args:  cobra.NoArgs,
		RunE:  EnvHandler,
	}

	rootCmd.AddCommand(
		learnCmd,
		encodeCmd,
		mergesCmd,
		envCmd,
	)

	return rootCmd
}

func EnvHandler(cmd *cobra.Command, args []string) error {
	vars := envconfig.AsMap()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)

	var data [][]string
	for _, name := range names {
		v := vars[name]
		data = append(data, []string{v.Name, fmt.Sprintf("%v", v.Value), v.Description})
	}

	table := newTable(cmd)
	table.SetHeader([]string{"NAME", "VALUE", "DESCRIPTION"})
	table.AppendBulk(data)
	table.Render()
	return nil
}

func newTable(cmd *cobra.Command) *tablewriter.Table {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.SetAutoWrapText(false)
	return table
}

func fileFlag(cmd *cobra.Command, name string) (string, error) {
	path, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", err
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
	}
	return path, nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-corpus/internal/texscan"
)

var scanCmd = &cobra.Command{
	Use:   "scan [file.tex]",
	Short: "Scan a single LaTeX file for its abstract and document body",
	Long: `Scan runs the LaTeX scanner on one file and prints the rune offsets of
the abstract and document body. Offsets are half-open: the end offset is
one past the last rune of the closing command.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Bool("snippet", false, "print the matched text under each offset line")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one LaTeX file to scan")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	doc := string(data)
	snippet, _ := cmd.Flags().GetBool("snippet")

	printResult := func(label string, patterns []texscan.Pattern) {
		res := texscan.Locate(doc, patterns)
		if !res.Found {
			fmt.Printf("%s: not found\n", label)
			return
		}
		fmt.Printf("%s: found [%d, %d)\n", label, res.Start, res.End)
		if snippet {
			fmt.Println(texscan.Snippet(doc, res))
		}
	}

	printResult("abstract", texscan.AbstractPatterns())
	printResult("document", texscan.DocumentPatterns())
	return nil
}

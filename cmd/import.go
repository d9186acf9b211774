package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/pipeline"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import expenses from .jsonl and .csv files",
	Long: "Import expenses from every .jsonl and .csv file under a directory. " +
		"Files unchanged since the last import are skipped, and re-importing a file replaces its expenses.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning %s...\n", args[0])
	}
	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%50 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing %s", cli.RenderProgressBar(current, total, 20))
		}
	}

	res, err := pipeline.Import(args[0], st, progressFn)
	if err != nil {
		return err
	}
	logger.Info("import finished",
		"files", res.TotalFiles, "parsed", res.ParsedFiles, "unchanged", res.Unchanged,
		"imported", res.Imported, "parse_errors", res.ParseErrors, "file_errors", res.FileErrors)

	if !flagQuiet {
		if res.ParsedFiles > 0 {
			fmt.Fprintln(os.Stderr)
		}
		fmt.Printf("  Imported %s expenses from %d files (%d unchanged)\n",
			cli.FormatNumber(int64(res.Imported)), res.ParsedFiles, res.Unchanged)
		if res.ParseErrors > 0 {
			fmt.Println(cli.Warn(fmt.Sprintf("  %d lines could not be parsed", res.ParseErrors)))
		}
		if res.FileErrors > 0 {
			fmt.Println(cli.Warn(fmt.Sprintf("  %d files could not be read", res.FileErrors)))
		}
	}

	if res.Imported > 0 {
		recordAchievements(st)
	}
	return nil
}
